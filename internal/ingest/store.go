package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edigeo-cadastre/cadastre-ingest/internal/config"
)

// Store wraps the connection pool and owns every interaction with the
// warehouse: schema/table DDL, the bulk-copy entry point, the checksum
// registry, and the temporal merge.
type Store struct {
	Pool   *pgxpool.Pool
	Schema string
}

// Open connects to the store using cfg's connection string.
func Open(ctx context.Context, cfg config.DatabaseConfig, schema string) (*Store, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connecting to store: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging store: %w", err)
	}
	return &Store{Pool: pool, Schema: schema}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() { s.Pool.Close() }

// DropSchema drops the entire target schema, cascading over every object
// it owns. Used by --drop-schema.
func (s *Store) DropSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", quoteIdent(s.Schema)))
	return err
}

// EnsureSchema creates the schema and its fixed checksum registry table if
// they do not already exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", quoteIdent(s.Schema))); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	_, err := s.Pool.Exec(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s._archive_checksums (
	archive_name TEXT PRIMARY KEY,
	checksum BYTEA NOT NULL,
	imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, quoteIdent(s.Schema)))
	if err != nil {
		return fmt.Errorf("creating checksum registry: %w", err)
	}
	return nil
}

// DropTable drops one final relation (and its staging counterpart) without
// touching the schema itself. Used by --drop-table.
func (s *Store) DropTable(ctx context.Context, table string) error {
	_, err := s.Pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s.%s CASCADE", quoteIdent(s.Schema), quoteIdent(table)))
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s.%s CASCADE", quoteIdent(s.Schema), quoteIdent(stagingName(table))))
	return err
}

// stagingName derives the "_staging_<table>" name of a table's staging
// relation.
func stagingName(table string) string { return "_staging_" + table }

// CreateTable creates table's final relation (if absent) with the
// reserved columns plus tc's dynamic business columns, and
// its staging relation (unlogged, same business columns, no constraints so
// concurrent archive workers never collide on it pre-merge).
func (s *Store) CreateTable(ctx context.Context, table string, tc config.TableConfig, srid int) error {
	cols := dynamicColumnDDL(tc)

	finalSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s.%[2]s (
	row_id BIGSERIAL PRIMARY KEY,
	id TEXT NOT NULL,
	departement TEXT NOT NULL,
	geometry geometry(Geometry, %[3]d) NOT NULL,
	valid_from DATE NOT NULL,
	valid_to DATE,
	geometry_hash BYTEA,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()%[4]s,
	CONSTRAINT %[2]s_dep_id_from_uq UNIQUE (departement, id, valid_from),
	CONSTRAINT %[2]s_valid_range_ck CHECK (valid_to IS NULL OR valid_to > valid_from)
)`, quoteIdent(s.Schema), quoteIdent(table), srid, cols)
	if _, err := s.Pool.Exec(ctx, finalSQL); err != nil {
		return fmt.Errorf("creating table %s: %w", table, err)
	}

	stagingSQL := fmt.Sprintf(`
CREATE UNLOGGED TABLE IF NOT EXISTS %[1]s.%[2]s (
	id TEXT NOT NULL,
	departement TEXT NOT NULL,
	geometry geometry(Geometry, %[3]d) NOT NULL,
	valid_from DATE NOT NULL,
	geometry_hash BYTEA%[4]s
)`, quoteIdent(s.Schema), quoteIdent(stagingName(table)), srid, cols)
	if _, err := s.Pool.Exec(ctx, stagingSQL); err != nil {
		return fmt.Errorf("creating staging table for %s: %w", table, err)
	}
	return nil
}

func dynamicColumnDDL(tc config.TableConfig) string {
	var b strings.Builder
	for _, f := range tc.DynamicFields() {
		b.WriteString(",\n\t")
		b.WriteString(quoteIdent(f.Target))
		b.WriteByte(' ')
		b.WriteString(sqlTypeFor(f.DataType))
	}
	return b.String()
}

func sqlTypeFor(dataType string) string {
	switch dataType {
	case "integer", "bigint":
		return "BIGINT"
	case "numeric", "float", "double":
		return "NUMERIC"
	default:
		return "TEXT"
	}
}

// PreloadHashes loads the full geometry_hash set already present in
// table's final relation, used to skip re-encoding already-ingested
// features without a round trip per row.
func (s *Store) PreloadHashes(ctx context.Context, table string) (HashSet, error) {
	rows, err := s.Pool.Query(ctx, fmt.Sprintf("SELECT geometry_hash FROM %s.%s WHERE geometry_hash IS NOT NULL", quoteIdent(s.Schema), quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("preloading hashes for %s: %w", table, err)
	}
	defer rows.Close()

	set := make(HashSet)
	for rows.Next() {
		var h []byte
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		if len(h) == 32 {
			var key [32]byte
			copy(key[:], h)
			set[key] = true
		}
	}
	return set, rows.Err()
}

// LookupChecksum reports whether archiveName was already recorded with
// exactly checksum in the registry.
func (s *Store) LookupChecksum(ctx context.Context, archiveName string, checksum [32]byte) (bool, error) {
	var stored []byte
	err := s.Pool.QueryRow(ctx, fmt.Sprintf("SELECT checksum FROM %s._archive_checksums WHERE archive_name = $1", quoteIdent(s.Schema)), archiveName).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return len(stored) == 32 && [32]byte(stored) == checksum, nil
}

// RecordChecksum upserts archiveName's checksum into the registry on
// successful import.
func (s *Store) RecordChecksum(ctx context.Context, archiveName string, checksum [32]byte) error {
	_, err := s.Pool.Exec(ctx, fmt.Sprintf(`
INSERT INTO %s._archive_checksums (archive_name, checksum, imported_at)
VALUES ($1, $2, now())
ON CONFLICT (archive_name) DO UPDATE SET checksum = EXCLUDED.checksum, imported_at = now()`, quoteIdent(s.Schema)), archiveName, checksum[:])
	return err
}

// CopySQL renders the COPY statement a sink issues once at startup,
// naming the exact column list in the order the row encoder uses.
func (s *Store) CopySQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
	}
	return fmt.Sprintf("COPY %s.%s (%s) FROM STDIN WITH (FORMAT csv, DELIMITER '|', QUOTE '\"')",
		quoteIdent(s.Schema), quoteIdent(stagingName(table)), strings.Join(quoted, ", "))
}

// MergeResult reports one table's temporal merge outcome.
type MergeResult struct {
	Table     string
	Staged    int64
	Inserted  int64
	Duplicate int64
}

// MergeTable moves table's staged rows into its final relation with
// INSERT ... SELECT ... ON CONFLICT (departement, id, valid_from) DO
// NOTHING, repairing the geometry column via ST_MakeValid during the
// select to neutralize residual self-intersections introduced by
// rounding. Duplicates are derived as staged minus inserted.
func (s *Store) MergeTable(ctx context.Context, table string, tc config.TableConfig) (MergeResult, error) {
	var staged int64
	if err := s.Pool.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s.%s", quoteIdent(s.Schema), quoteIdent(stagingName(table)))).Scan(&staged); err != nil {
		return MergeResult{}, fmt.Errorf("counting staged rows for %s: %w", table, err)
	}

	cols := []string{"id", "departement", "geometry", "valid_from", "geometry_hash"}
	for _, f := range tc.DynamicFields() {
		cols = append(cols, f.Target)
	}
	quotedCols := make([]string, len(cols))
	selectCols := make([]string, len(cols))
	for i, c := range cols {
		quotedCols[i] = quoteIdent(c)
		if c == "geometry" {
			selectCols[i] = "ST_MakeValid(geometry)"
		} else {
			selectCols[i] = quoteIdent(c)
		}
	}

	sql := fmt.Sprintf(`
INSERT INTO %[1]s.%[2]s (%[3]s)
SELECT %[4]s FROM %[1]s.%[5]s
ON CONFLICT (departement, id, valid_from) DO NOTHING`,
		quoteIdent(s.Schema), quoteIdent(table), strings.Join(quotedCols, ", "),
		strings.Join(selectCols, ", "), quoteIdent(stagingName(table)))

	tag, err := s.Pool.Exec(ctx, sql)
	if err != nil {
		return MergeResult{}, fmt.Errorf("merging staged rows into %s: %w", table, err)
	}
	inserted := tag.RowsAffected()
	return MergeResult{Table: table, Staged: staged, Inserted: inserted, Duplicate: staged - inserted}, nil
}

// DropStaging drops table's staging relation once its merge has
// completed.
func (s *Store) DropStaging(ctx context.Context, table string) error {
	_, err := s.Pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", quoteIdent(s.Schema), quoteIdent(stagingName(table))))
	return err
}

// CreateIndexes builds the three indexes a final relation carries:
// (departement, id), a spatial GIST on geometry, and
// (valid_from, valid_to). Each is created IF NOT EXISTS so a re-run after
// a partial failure is safe.
func (s *Store) CreateIndexes(ctx context.Context, table string) error {
	stmts := []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_dep_id_idx ON %s.%s (departement, id)", table, quoteIdent(s.Schema), quoteIdent(table)),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_geom_gist ON %s.%s USING GIST (geometry)", table, quoteIdent(s.Schema), quoteIdent(table)),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_valid_range_idx ON %s.%s (valid_from, valid_to)", table, quoteIdent(s.Schema), quoteIdent(table)),
	}
	for _, stmt := range stmts {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating index on %s: %w", table, err)
		}
	}
	return nil
}

// quoteIdent renders a double-quoted SQL identifier. Table and column
// names in this pipeline all come from the embedded presets or an
// operator-supplied config.json, never from archive contents, so a plain
// quote-and-double is sufficient rather than a full identifier validator.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
