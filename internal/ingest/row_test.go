package ingest

import (
	"strings"
	"testing"

	"github.com/edigeo-cadastre/cadastre-ingest/internal/config"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/geom"
)

func TestColumnsForOrdersReservedThenDynamic(t *testing.T) {
	fields := []config.FieldMapping{
		{Source: "IDU", Target: "idu"},
		{Source: "SURFACE", Target: "surface", DataType: "numeric"},
	}
	got := ColumnsFor(fields)
	want := []string{"id", "departement", "geometry", "valid_from", "geometry_hash", "idu", "surface"}
	if len(got) != len(want) {
		t.Fatalf("ColumnsFor() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEncodeRowFixedColumnOrder(t *testing.T) {
	g := geom.NewPoint(1.5, 2.5)
	hash := [32]byte{0xde, 0xad, 0xbe, 0xef}
	fields := []config.FieldMapping{
		{Source: "IDU", Target: "idu"},
		{Source: "SURFACE", Target: "surface", DataType: "integer"},
	}
	attrs := map[string]string{"IDU": "AB001", "SURFACE": "123.7"}

	row := EncodeRow("01AB001", "01", g, 4326, "2024-03-01", &hash, attrs, fields)
	line := strings.TrimSuffix(string(row), "\n")
	parts := strings.Split(line, "|")

	if len(parts) != 7 {
		t.Fatalf("EncodeRow produced %d fields, want 7: %q", len(parts), line)
	}
	if parts[0] != `"01AB001"` {
		t.Errorf("id field = %q", parts[0])
	}
	if parts[1] != `"01"` {
		t.Errorf("departement field = %q", parts[1])
	}
	if !strings.Contains(parts[2], "SRID=4326;") {
		t.Errorf("geometry field missing SRID prefix: %q", parts[2])
	}
	if parts[3] != `"2024-03-01"` {
		t.Errorf("valid_from field = %q", parts[3])
	}
	if !strings.HasPrefix(parts[4], `\x`) {
		t.Errorf("hash field missing \\x prefix: %q", parts[4])
	}
	if parts[5] != `"AB001"` {
		t.Errorf("idu field = %q", parts[5])
	}
	if parts[6] != "123" {
		t.Errorf("surface field = %q, want truncated integer", parts[6])
	}
}

func TestEncodeRowWithoutHashLeavesFieldEmpty(t *testing.T) {
	g := geom.NewPoint(0, 0)
	row := EncodeRow("id", "01", g, 4326, "2024-01-01", nil, nil, nil)
	line := strings.TrimSuffix(string(row), "\n")
	parts := strings.Split(line, "|")
	if len(parts) != 5 {
		t.Fatalf("EncodeRow produced %d fields, want 5: %q", len(parts), line)
	}
	if parts[4] != "" {
		t.Errorf("hash field = %q, want empty", parts[4])
	}
}

func TestWriteFieldEscapesQuotesAndNewlines(t *testing.T) {
	var b strings.Builder
	writeField(&b, "a\"b\r\nc", true)
	got := b.String()
	want := "\"a\"\"b  c\""
	if got != want {
		t.Errorf("writeField = %q, want %q", got, want)
	}
}
