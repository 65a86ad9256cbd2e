// Command cadastre-ingest ingests EDIGEO cadastral archives into a
// temporally-versioned PostGIS store, or exports their features as GeoJSON.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/edigeo-cadastre/cadastre-ingest/internal/config"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/ingest"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("loading .env")
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	app := &cli.App{
		Name:  "cadastre-ingest",
		Usage: "ingest and export French cadastral EDIGEO archives",
		Commands: []*cli.Command{
			importCommand,
			exportCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("fatal")
		os.Exit(1)
	}
}

var importCommand = &cli.Command{
	Name:  "import",
	Usage: "parse archives and merge their features into the store",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "path", Required: true, Usage: "archive file or directory to walk recursively"},
		&cli.StringFlag{Name: "date", Required: true, Usage: "vintage, YYYY-MM"},
		&cli.StringFlag{Name: "schema", Value: "cadastre", Usage: "target schema"},
		&cli.StringFlag{Name: "config", Value: "full", Usage: "full|light|bati or a path to a JSON config"},
		&cli.BoolFlag{Name: "drop-schema", Usage: "drop the schema before importing"},
		&cli.BoolFlag{Name: "drop-table", Usage: "drop each target table before importing"},
		&cli.BoolFlag{Name: "skip-indexes", Usage: "skip creating indexes after merge"},
		&cli.IntFlag{Name: "srid", Value: 4326, Usage: "target SRID"},
		&cli.IntFlag{Name: "precision", Value: 0, Usage: "coordinate rounding precision (0 = SRID default)"},
		&cli.StringFlag{Name: "dep", Usage: "departement code, \"fromFile\", or omitted"},
		&cli.IntFlag{Name: "jobs", Value: 0, Usage: "concurrent archive workers (0 = NumCPU)"},
		&cli.StringFlag{Name: "host", Usage: "store host (default PGHOST or localhost)"},
		&cli.StringFlag{Name: "database", Usage: "store database (default PGDATABASE)"},
		&cli.StringFlag{Name: "user", Usage: "store user (default PGUSER)"},
		&cli.StringFlag{Name: "password", Usage: "store password (default PGPASSWORD)"},
		&cli.IntFlag{Name: "port", Usage: "store port (default PGPORT or 5432)"},
		&cli.StringFlag{Name: "ssl", Usage: "store sslmode (default PGSSLMODE or disable)"},
	},
	Action: runImport,
}

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "decode archives and write one GeoJSON FeatureCollection per feature class",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "path", Required: true, Usage: "archive file or directory to walk recursively"},
		&cli.StringFlag{Name: "output", Required: true, Usage: "output directory"},
		&cli.IntFlag{Name: "srid", Value: 4326, Usage: "target SRID"},
	},
	Action: runExport,
}

func runImport(c *cli.Context) error {
	dep, depMode := parseDepFlag(c.String("dep"))

	db := config.DatabaseConfigFromEnv()
	if v := c.String("host"); v != "" {
		db.Host = v
	}
	if v := c.String("database"); v != "" {
		db.Database = v
	}
	if v := c.String("user"); v != "" {
		db.User = v
	}
	if v := c.String("password"); v != "" {
		db.Password = v
	}
	if v := c.Int("port"); v != 0 {
		db.Port = v
	}
	if v := c.String("ssl"); v != "" {
		db.SSLMode = config.SSLMode(v)
	}

	opts := ingest.Options{
		RootPath:    c.String("path"),
		Vintage:     c.String("date"),
		Schema:      c.String("schema"),
		ConfigSpec:  c.String("config"),
		DropSchema:  c.Bool("drop-schema"),
		DropTable:   c.Bool("drop-table"),
		SkipIndexes: c.Bool("skip-indexes"),
		SRID:        c.Int("srid"),
		Precision:   c.Int("precision"),
		DepMode:     depMode,
		DepOverride: dep,
		Jobs:        c.Int("jobs"),
		DB:          db,
	}

	summary, err := ingest.Run(c.Context, opts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	logSummary(summary)
	return nil
}

func runExport(c *cli.Context) error {
	opts := ingest.ExportOptions{
		RootPath: c.String("path"),
		Output:   c.String("output"),
		SRID:     c.Int("srid"),
	}
	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	summary, err := ingest.Export(opts)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	logSummary(summary)
	return nil
}

// parseDepFlag maps the --dep flag's three forms (explicit code, "fromFile",
// omitted) onto a DepMode and its override value.
func parseDepFlag(v string) (string, ingest.DepMode) {
	switch v {
	case "":
		return "", ingest.DepAuto
	case "fromFile":
		return "", ingest.DepFromFile
	default:
		return v, ingest.DepExplicit
	}
}

// logSummary reports the run's outcome as a descriptive message; partial
// per-archive failures never flip the exit code.
func logSummary(s *ingest.Summary) {
	event := log.Info()
	if s.Status() == ingest.StatusFailed {
		event = log.Error()
	} else if s.Status() == ingest.StatusPartialSuccess {
		event = log.Warn()
	}
	event.
		Str("status", string(s.Status())).
		Int64("archives_total", s.ArchivesTotal).
		Int64("processed", s.Processed.Load()).
		Int64("skipped_archives", s.SkippedArchives.Load()).
		Int64("skipped_features", s.SkippedFeatures.Load()).
		Int64("parse_errors", s.ParseErrors.Load()).
		Int64("invalid_geometries", s.InvalidGeometries.Load()).
		Msg("run complete")
	for _, t := range s.Tables {
		log.Info().
			Str("table", t.Table).
			Int64("staged", t.Staged).
			Int64("inserted", t.Inserted).
			Int64("duplicate", t.Duplicate).
			Msg("merge result")
	}
}
