package ingest

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/edigeo-cadastre/cadastre-ingest/internal/config"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/reproject"
)

// Options carries every flag/env setting the import subcommand exposes.
type Options struct {
	RootPath    string
	Vintage     string // YYYY-MM
	Schema      string
	ConfigSpec  string // "full" | "light" | "bati" | path to JSON
	DropSchema  bool
	DropTable   bool
	SkipIndexes bool
	SRID        int
	Precision   int // 0 means "use reproject.DefaultPrecision(SRID)"
	DepMode     DepMode
	DepOverride string
	Jobs        int
	DB          config.DatabaseConfig
}

// uniqueTables collapses a Config's (possibly class-aliased) entries into
// one TableConfig per physical table name.
func uniqueTables(cfg config.Config) map[string]config.TableConfig {
	out := make(map[string]config.TableConfig)
	for _, tc := range cfg {
		out[tc.Table] = tc
	}
	return out
}

// Run drives the whole import: schema setup, hash preload, the bounded
// archive-worker pool feeding bulk-load sinks, and the temporal merge.
// Failure in any phase aborts subsequent phases but leaves already-
// committed staging data in place so a re-run can pick the merge back up.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	validFrom, err := ValidateVintage(opts.Vintage)
	if err != nil {
		return nil, err
	}

	archives, err := DiscoverArchives(opts.RootPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.ConfigSpec)
	if err != nil {
		return nil, fmt.Errorf("loading table config: %w", err)
	}

	store, err := Open(ctx, opts.DB, opts.Schema)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if opts.DropSchema {
		if err := store.DropSchema(ctx); err != nil {
			return nil, fmt.Errorf("dropping schema: %w", err)
		}
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	tables := uniqueTables(cfg)

	if opts.DropTable {
		for table := range tables {
			if err := store.DropTable(ctx, table); err != nil {
				return nil, fmt.Errorf("dropping table %s: %w", table, err)
			}
		}
	}

	for table, tc := range tables {
		if err := store.CreateTable(ctx, table, tc, opts.SRID); err != nil {
			return nil, err
		}
	}

	hashSets := make(map[string]HashSet, len(tables))
	for table, tc := range tables {
		if !tc.HashGeom {
			continue
		}
		set, err := store.PreloadHashes(ctx, table)
		if err != nil {
			return nil, err
		}
		hashSets[table] = set
		log.Info().Int("count", len(set)).Str("table", table).Msg("preloaded geometry hashes")
	}

	sinks := make(map[string]*Sink, len(tables))
	for table, tc := range tables {
		sinks[table] = NewSink(table, tc)
	}

	// Sinks share the plain (non-cancelable-on-first-error) context: one
	// sink failing must not cancel the others. Each runs to its own
	// completion and the first error surfaces only after every worker and
	// every sink has finished.
	var sinkGroup errgroup.Group
	sinkResults := make(map[string]int64, len(sinks))
	var sinkResultsMu sync.Mutex
	for table, sink := range sinks {
		table, sink := table, sink
		sinkGroup.Go(func() error {
			n, err := sink.Run(ctx, store)
			sinkResultsMu.Lock()
			sinkResults[table] = n
			sinkResultsMu.Unlock()
			return err
		})
	}

	precision := opts.Precision
	if precision == 0 {
		precision = reproject.DefaultPrecision(opts.SRID)
	}

	summary := &Summary{ArchivesTotal: int64(len(archives))}
	wc := &WorkerConfig{
		Config:      cfg,
		Store:       store,
		Sinks:       sinks,
		HashSets:    hashSets,
		TargetSRID:  opts.SRID,
		Precision:   precision,
		ValidFrom:   validFrom.Format("2006-01-02"),
		DepMode:     opts.DepMode,
		DepOverride: opts.DepOverride,
		Summary:     summary,
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	workerGroup, workerCtx := errgroup.WithContext(ctx)
	workerGroup.SetLimit(jobs)
	for _, path := range archives {
		path := path
		workerGroup.Go(func() (err error) {
			defer func() {
				// A panic in one archive's decode/build/encode path must not
				// take down the rest of the pool; isolate it to this archive.
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Str("archive", path).Msg("archive worker panicked")
					summary.ParseErrors.Add(1)
					err = nil
				}
			}()
			return ProcessArchive(workerCtx, path, wc)
		})
	}
	workerErr := workerGroup.Wait()

	for _, sink := range sinks {
		sink.Close()
	}
	sinkErr := sinkGroup.Wait()

	if workerErr != nil {
		return summary, workerErr
	}
	if sinkErr != nil {
		return summary, fmt.Errorf("bulk load sink failed: %w", sinkErr)
	}
	for table, n := range sinkResults {
		log.Info().Str("table", table).Int64("rows", n).Msg("copied rows into staging")
	}

	for table, tc := range tables {
		result, err := store.MergeTable(ctx, table, tc)
		if err != nil {
			return summary, err
		}
		summary.Tables = append(summary.Tables, result)
	}

	for table := range tables {
		if err := store.DropStaging(ctx, table); err != nil {
			return summary, err
		}
	}

	if !opts.SkipIndexes {
		for table := range tables {
			if err := store.CreateIndexes(ctx, table); err != nil {
				return summary, err
			}
		}
	}

	return summary, nil
}
