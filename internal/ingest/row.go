// Package ingest drives the import pipeline: per-archive workers decode and
// reproject features, a small set of bulk-load sinks stream encoded rows
// into staging relations, and a temporal merge step folds staging into the
// final relations. See internal/edigeo, internal/topology and
// internal/reproject for the stages upstream of this package.
package ingest

import (
	"strconv"
	"strings"

	"github.com/edigeo-cadastre/cadastre-ingest/internal/config"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/edigeo"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/geom"
)

// reservedColumnOrder is the fixed prefix of every row: id, departement,
// geometry, valid_from, geometry_hash, in this order, followed by the
// table's dynamic business columns in declared order.
var reservedColumnOrder = []string{"id", "departement", "geometry", "valid_from", "geometry_hash"}

// ColumnsFor returns the full ordered column list a COPY statement and the
// row encoder must agree on for one table: the five reserved columns
// followed by fields's target names in order.
func ColumnsFor(fields []config.FieldMapping) []string {
	cols := make([]string, 0, len(reservedColumnOrder)+len(fields))
	cols = append(cols, reservedColumnOrder...)
	for _, f := range fields {
		cols = append(cols, f.Target)
	}
	return cols
}

// EncodeRow renders one CSV-framed row for the bulk-copy stream. Column
// order is fixed: id | departement | geometry | valid_from | geometry_hash |
// dynamic columns in declared order. Textual fields are quoted with '"',
// with any embedded '"' doubled and embedded CR/LF replaced with a space;
// geometries are emitted as "SRID=<n>;<WKT>"; the hash column is emitted
// as a "\x"-prefixed hex bytea literal; integral/floating dynamic columns
// are normalized through the EDIGEO number grammar.
func EncodeRow(id, departement string, g geom.Geometry, srid int, validFrom string, hash *[32]byte, attrs map[string]string, fields []config.FieldMapping) []byte {
	var b strings.Builder
	writeField(&b, id, true)
	b.WriteByte('|')
	writeField(&b, departement, true)
	b.WriteByte('|')
	writeField(&b, geom.EWKT(g, srid), true)
	b.WriteByte('|')
	writeField(&b, validFrom, true)
	b.WriteByte('|')
	if hash != nil {
		writeField(&b, hashLiteral(*hash), false)
	}
	for _, f := range fields {
		b.WriteByte('|')
		v := attrs[f.Source]
		if f.PrefixDep && v != "" {
			v = departement + v
		}
		writeDynamicField(&b, v, f.DataType)
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

func hashLiteral(h [32]byte) string {
	const hexDigits = "0123456789abcdef"
	var b strings.Builder
	b.Grow(2 + len(h)*2)
	b.WriteString("\\x")
	for _, c := range h {
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
	return b.String()
}

// writeDynamicField renders one business column, normalizing numeric
// columns through the EDIGEO number grammar: integral columns are
// truncated, floating columns keep the exact parsed value.
func writeDynamicField(b *strings.Builder, v, dataType string) {
	if v == "" {
		return
	}
	switch dataType {
	case "integer", "bigint":
		n, err := edigeo.ParseNumber(v)
		if err != nil {
			return
		}
		b.WriteString(strconv.FormatInt(int64(n), 10))
	case "numeric", "float", "double":
		n, err := edigeo.ParseNumber(v)
		if err != nil {
			return
		}
		writeField(b, strconv.FormatFloat(n, 'f', -1, 64), false)
	default:
		writeField(b, v, true)
	}
}

// writeField quotes a textual field unconditionally when quote is true
// (id, departement, geometry, valid_from and dynamic text columns); the
// hash literal and numeric values are written unquoted. Embedded '"' is
// doubled; each embedded CR or LF is replaced with a space so the
// CSV-framed row never spans more than one line.
func writeField(b *strings.Builder, v string, quote bool) {
	if !quote {
		b.WriteString(v)
		return
	}
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '"':
			b.WriteString(`""`)
		case '\r', '\n':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
