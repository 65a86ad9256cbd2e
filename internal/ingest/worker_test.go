package ingest

import (
	"testing"

	"github.com/edigeo-cadastre/cadastre-ingest/internal/config"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/topology"
)

func TestResolveDepartement(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		mode     DepMode
		override string
		want     string
	}{
		{"explicit wins", "EDIGEO-75-2024.tar.bz2", DepExplicit, "99", "99"},
		{"explicit without override falls back", "EDIGEO-75-2024.tar.bz2", DepExplicit, "", "75"},
		{"fromFile derives from name", "EDIGEO-75-2024.tar.bz2", DepFromFile, "", "75"},
		{"auto derives from name", "EDIGEO-2A-2024.tar.bz2", DepAuto, "", "2A"},
		{"unresolvable defaults to 00", "archive.tar.bz2", DepAuto, "", "00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveDepartement(tt.path, tt.mode, tt.override)
			if got != tt.want {
				t.Errorf("resolveDepartement(%q, %v, %q) = %q, want %q", tt.path, tt.mode, tt.override, got, tt.want)
			}
		})
	}
}

func TestDerivePseudoSources(t *testing.T) {
	features := []topology.BuiltFeature{
		{Class: "PARCELLE_id", Properties: map[string]string{"IDU": "ignored"}},
		{Class: "COMMUNE_id", Properties: map[string]string{"IDU": "75056"}},
		{Class: "SECTION_id", Properties: map[string]string{"IDU": "AB"}},
	}
	commune, section := derivePseudoSources(features)
	if commune != "75056" {
		t.Errorf("commune = %q, want 75056", commune)
	}
	if section != "AB" {
		t.Errorf("section = %q, want AB", section)
	}
}

func TestDerivePseudoSourcesFirstMatchWins(t *testing.T) {
	features := []topology.BuiltFeature{
		{Class: "COMMUNE_id", Properties: map[string]string{"IDU": "first"}},
		{Class: "COMMUNE_id", Properties: map[string]string{"IDU": "second"}},
	}
	commune, _ := derivePseudoSources(features)
	if commune != "first" {
		t.Errorf("commune = %q, want first", commune)
	}
}

func TestSinkBufferFlushResetsState(t *testing.T) {
	sink := NewSink("t", config.TableConfig{Table: "t"})
	buf := &sinkBuffer{table: "t"}
	buf.append([]byte("row1\n"))
	buf.append([]byte("row2\n"))
	if buf.rows != 2 {
		t.Fatalf("rows = %d, want 2", buf.rows)
	}
	buf.flush(sink)
	if buf.rows != 0 || buf.buf != nil {
		t.Errorf("flush did not reset buffer: rows=%d buf=%v", buf.rows, buf.buf)
	}
	sink.Close()
}
