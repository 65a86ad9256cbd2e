package edigeo

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestParseVECAttributeStateMachine(t *testing.T) {
	text := "RTYSA03:FEARID:F1;\n" +
		"SCP:1;2;CLS;PARCELLE_id;\n" +
		"ATP:1;2;ATT;IDU_id;\n" +
		"ATV:AB0123;\n" +
		"ATP:1;2;ATT;CONTENANCE_id;\n" +
		"TEX:ignored;\n" +
		"ATV:1200;\n" +
		"QAP:QUAL1;\n"

	pv, errs := ParseVEC([]byte(text), charmap.ISO8859_15)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	f, ok := pv.FEA["F1"]
	if !ok {
		t.Fatalf("expected feature F1 to be decoded")
	}
	if f.Attributes["IDU"] != "AB0123" {
		t.Errorf("IDU = %q, want AB0123", f.Attributes["IDU"])
	}
	if f.Attributes["CONTENANCE"] != "1200" {
		t.Errorf("CONTENANCE = %q, want 1200", f.Attributes["CONTENANCE"])
	}
	if f.Quality != "QUAL1" {
		t.Errorf("Quality = %q, want QUAL1", f.Quality)
	}
	if f.Class.RID != "PARCELLE_id" {
		t.Errorf("Class.RID = %q, want PARCELLE_id", f.Class.RID)
	}
}

func TestParseVECArcAccumulatesVerticesAcrossCORLines(t *testing.T) {
	text := "RTYSA03:PARRID:A1;\n" +
		"SCP:1;2;CLS;ARC_id;\n" +
		"COR:+0.0;+0.0;\n" +
		"COR:+1.0;+0.0;\n" +
		"COR:+1.0;+1.0;\n"

	pv, errs := ParseVEC([]byte(text), charmap.ISO8859_15)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	arc, ok := pv.PAR["A1"]
	if !ok {
		t.Fatalf("expected arc A1 to be decoded")
	}
	want := [][2]float64{{0, 0}, {1, 0}, {1, 1}}
	if len(arc.Coords) != len(want) {
		t.Fatalf("arc has %d vertices, want %d: %v", len(arc.Coords), len(want), arc.Coords)
	}
	for i, c := range want {
		if arc.Coords[i] != c {
			t.Errorf("vertex %d = %v, want %v", i, arc.Coords[i], c)
		}
	}
}

func TestAssociateArcsToFaces(t *testing.T) {
	text := "RTYSA03:PFERID:P1;\n" +
		"SCP:1;2;CLS;BATI_id;\n" +
		"RTYSA03:LNKRID:L1;\n" +
		"SCP:1;2;REL;RCO_FAC;\n" +
		"FTP:1;2;PAR;A1;\n" +
		"FTP:1;2;PFE;P1;\n"

	pv, errs := ParseVEC([]byte(text), charmap.ISO8859_15)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	face, ok := pv.PFE["P1"]
	if !ok {
		t.Fatalf("expected face P1")
	}
	if len(face.Arcs) != 1 || face.Arcs[0] != "A1" {
		t.Errorf("face.Arcs = %v, want [A1]", face.Arcs)
	}
}
