package ingest

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/edigeo-cadastre/cadastre-ingest/internal/config"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/edigeo"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/reproject"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/topology"
)

// BatchSize is the row-buffer threshold at which a worker ships a chunk to
// its target sink.
const BatchSize = 5000

// DepMode selects how a worker resolves an archive's departement code:
// DepFromFile parses it out of the archive's filename, DepExplicit pins it
// to a fixed override value, and DepAuto falls back to the same
// filename-derivation the decoder itself would use.
type DepMode int

const (
	DepAuto DepMode = iota
	DepFromFile
	DepExplicit
)

// WorkerConfig carries the per-run settings every archive worker shares:
// immutable after startup, safe to read concurrently.
type WorkerConfig struct {
	Config      config.Config
	Store       *Store
	Sinks       map[string]*Sink
	HashSets    map[string]HashSet
	TargetSRID  int
	Precision   int
	ValidFrom   string
	DepMode     DepMode
	DepOverride string
	Summary     *Summary
}

// sinkBuffer accumulates encoded rows for one target table until BatchSize
// is reached.
type sinkBuffer struct {
	table string
	buf   []byte
	rows  int
}

func (b *sinkBuffer) append(row []byte) {
	b.buf = append(b.buf, row...)
	b.rows++
}

func (b *sinkBuffer) flush(sink *Sink) {
	if b.rows == 0 {
		return
	}
	chunk := b.buf
	sink.Send(chunk)
	b.buf = nil
	b.rows = 0
}

// ProcessArchive runs one archive through the full per-archive pipeline:
// checksum → skip check → decode → project → encode → ship to sinks →
// record checksum. Every per-archive failure mode is absorbed here as a
// counter increment rather than a returned error, the one exception being
// a context cancellation, which propagates so the worker pool can unwind.
func ProcessArchive(ctx context.Context, path string, wc *WorkerConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	checksum, err := edigeo.Checksum(path)
	if err != nil {
		log.Error().Err(err).Str("archive", path).Msg("checksum failed")
		wc.Summary.ParseErrors.Add(1)
		return nil
	}

	name := edigeo.Name(path)
	known, err := wc.Store.LookupChecksum(ctx, name, checksum)
	if err != nil {
		log.Error().Err(err).Str("archive", path).Msg("checksum lookup failed")
		wc.Summary.ParseErrors.Add(1)
		return nil
	}
	if known {
		wc.Summary.SkippedArchives.Add(1)
		return nil
	}

	archive, err := edigeo.OpenArchive(path)
	if err != nil {
		log.Error().Err(err).Str("archive", path).Msg("opening archive")
		wc.Summary.ParseErrors.Add(1)
		return nil
	}

	decoded, err := edigeo.Decode(archive)
	if err != nil {
		log.Error().Err(err).Str("archive", path).Msg("decoding archive")
		wc.Summary.ParseErrors.Add(1)
		return nil
	}
	wc.Summary.ParseErrors.Add(int64(len(decoded.Errors)))

	projector, err := reproject.NewProjector(decoded.Projection.EPSG, wc.TargetSRID)
	if err != nil {
		log.Error().Err(err).Str("archive", path).Msg("building projector")
		wc.Summary.ParseErrors.Add(1)
		return nil
	}

	departement := resolveDepartement(path, wc.DepMode, wc.DepOverride)

	var allFeatures []topology.BuiltFeature
	for _, pv := range decoded.Vecs {
		feats, errs := topology.BuildFeatures(pv, decoded.Quality)
		allFeatures = append(allFeatures, feats...)
		wc.Summary.ParseErrors.Add(int64(len(errs)))
		for _, e := range errs {
			log.Warn().Err(e).Str("archive", path).Msg("topology build error")
		}
	}

	pseudoCommune, pseudoSection := derivePseudoSources(allFeatures)

	buffers := make(map[string]*sinkBuffer)
	for _, feat := range allFeatures {
		tc, ok := wc.Config.TableFor(feat.Class)
		if !ok {
			continue
		}
		sink, ok := wc.Sinks[tc.Table]
		if !ok {
			continue
		}

		if pseudoCommune != "" {
			if _, exists := feat.Properties["IDU_COMMUNE"]; !exists {
				feat.Properties["IDU_COMMUNE"] = pseudoCommune
			}
		}
		if pseudoSection != "" {
			if _, exists := feat.Properties["IDU_SECTION"]; !exists {
				feat.Properties["IDU_SECTION"] = pseudoSection
			}
		}

		enc := &Encoder{
			Table:       tc,
			SRID:        wc.TargetSRID,
			Precision:   wc.Precision,
			Departement: departement,
			Projector:   projector,
			ValidFrom:   wc.ValidFrom,
			KnownHashes: wc.HashSets[tc.Table],
		}
		row, ok, reason, err := enc.Encode(feat)
		if err != nil {
			wc.Summary.ParseErrors.Add(1)
			log.Warn().Err(err).Str("archive", path).Str("feature", feat.ID).Msg("encoding feature")
			continue
		}
		if !ok {
			switch reason {
			case "invalid_geometry":
				wc.Summary.InvalidGeometries.Add(1)
			case "duplicate_hash":
				wc.Summary.SkippedFeatures.Add(1)
			}
			continue
		}

		buf, ok := buffers[tc.Table]
		if !ok {
			buf = &sinkBuffer{table: tc.Table}
			buffers[tc.Table] = buf
		}
		buf.append(row)
		if buf.rows >= BatchSize {
			buf.flush(sink)
		}
	}

	for table, buf := range buffers {
		buf.flush(wc.Sinks[table])
	}

	if err := wc.Store.RecordChecksum(ctx, name, checksum); err != nil {
		log.Error().Err(err).Str("archive", path).Msg("recording checksum")
		wc.Summary.ParseErrors.Add(1)
		return nil
	}
	wc.Summary.Processed.Add(1)
	return nil
}

// resolveDepartement applies the three-way precedence of the --dep flag:
// an explicit override wins outright; "fromFile" and the automatic mode
// both fall back to the same filename heuristic (edigeo.ExtractDepartement),
// defaulting to "00" when neither can resolve a code.
func resolveDepartement(path string, mode DepMode, override string) string {
	if mode == DepExplicit && override != "" {
		return override
	}
	if code, ok := edigeo.ExtractDepartement(path); ok {
		return code
	}
	return "00"
}

// derivePseudoSources finds the IDU of the first COMMUNE_id and SECTION_id
// feature in an archive, exposed to column mappings as pseudo-source
// attributes "IDU_COMMUNE"/"IDU_SECTION".
func derivePseudoSources(features []topology.BuiltFeature) (commune, section string) {
	for _, f := range features {
		if commune == "" && f.Class == "COMMUNE_id" {
			commune = f.Properties["IDU"]
		}
		if section == "" && f.Class == "SECTION_id" {
			section = f.Properties["IDU"]
		}
		if commune != "" && section != "" {
			break
		}
	}
	return commune, section
}
