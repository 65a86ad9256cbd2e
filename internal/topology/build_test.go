package topology

import (
	"testing"

	"github.com/edigeo-cadastre/cadastre-ingest/internal/edigeo"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/geom"
)

// vecWith builds a minimal ParsedVec around one REL link pointing at one
// feature plus the given geometry references.
func vecWith(feat *edigeo.Feature, refs ...edigeo.Reference) *edigeo.ParsedVec {
	pv := &edigeo.ParsedVec{
		PNO: make(map[string]*edigeo.Point),
		PAR: make(map[string]*edigeo.Arc),
		PFE: make(map[string]*edigeo.Face),
		FEA: map[string]*edigeo.Feature{feat.ID: feat},
		LNK: make(map[string]*edigeo.Link),
	}
	link := &edigeo.Link{
		ID:    "L1",
		Class: edigeo.Reference{RTY: "REL", RID: "ID_S_RCO_X"},
		Refs:  append([]edigeo.Reference{{RTY: "FEA", RID: feat.ID}}, refs...),
	}
	pv.LNK[link.ID] = link
	return pv
}

func TestBuildFeaturesPolygonFromFace(t *testing.T) {
	feat := &edigeo.Feature{
		ID:         "F1",
		Class:      edigeo.Reference{RID: "PARCELLE_id"},
		Attributes: map[string]string{"IDU": "AB0042"},
	}
	pv := vecWith(feat, edigeo.Reference{RTY: "PFE", RID: "P1"})
	pv.PFE["P1"] = &edigeo.Face{ID: "P1", Arcs: []string{"A1", "A2"}}
	pv.PAR["A1"] = &edigeo.Arc{ID: "A1", Coords: [][2]float64{{0, 0}, {1, 0}, {1, 1}}}
	pv.PAR["A2"] = &edigeo.Arc{ID: "A2", Coords: [][2]float64{{1, 1}, {0, 1}, {0, 0}}}

	features, errs := BuildFeatures(pv, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(features))
	}
	f := features[0]
	if f.ID != "AB0042" {
		t.Errorf("feature id = %q, want the IDU attribute", f.ID)
	}
	if f.Class != "PARCELLE_id" {
		t.Errorf("feature class = %q, want PARCELLE_id", f.Class)
	}
	if f.Geometry.Kind != geom.KindPolygon {
		t.Errorf("geometry kind = %v, want polygon", f.Geometry.Kind)
	}
}

func TestBuildFeaturesFallsBackToRecordID(t *testing.T) {
	feat := &edigeo.Feature{
		ID:         "F9",
		Class:      edigeo.Reference{RID: "BORNE_id"},
		Attributes: map[string]string{},
	}
	pv := vecWith(feat, edigeo.Reference{RTY: "PNO", RID: "N1"})
	pv.PNO["N1"] = &edigeo.Point{ID: "N1", Coords: [][2]float64{{5, 5}}}

	features, _ := BuildFeatures(pv, nil)
	if len(features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(features))
	}
	if features[0].ID != "F9" {
		t.Errorf("feature id = %q, want the internal record id", features[0].ID)
	}
	if features[0].Geometry.Kind != geom.KindPoint {
		t.Errorf("geometry kind = %v, want point", features[0].Geometry.Kind)
	}
}

func TestBuildFeaturesLineFromArcs(t *testing.T) {
	feat := &edigeo.Feature{ID: "F2", Class: edigeo.Reference{RID: "VOIEP_id"}}
	pv := vecWith(feat,
		edigeo.Reference{RTY: "PAR", RID: "A1"},
		edigeo.Reference{RTY: "PAR", RID: "A2"},
	)
	pv.PAR["A1"] = &edigeo.Arc{ID: "A1", Coords: [][2]float64{{0, 0}, {1, 0}}}
	pv.PAR["A2"] = &edigeo.Arc{ID: "A2", Coords: [][2]float64{{2, 0}, {3, 0}}}

	features, _ := BuildFeatures(pv, nil)
	if len(features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(features))
	}
	if features[0].Geometry.Kind != geom.KindMultiLineString {
		t.Errorf("geometry kind = %v, want multilinestring", features[0].Geometry.Kind)
	}
}

func TestBuildFeaturesMergesQualityDates(t *testing.T) {
	feat := &edigeo.Feature{
		ID:      "F3",
		Class:   edigeo.Reference{RID: "PARCELLE_id"},
		Quality: "Q1",
	}
	pv := vecWith(feat, edigeo.Reference{RTY: "PNO", RID: "N1"})
	pv.PNO["N1"] = &edigeo.Point{ID: "N1", Coords: [][2]float64{{1, 1}}}
	quality := map[string]edigeo.Quality{
		"Q1": {CreateDate: "19930702", UpdateDate: "20120101"},
	}

	features, _ := BuildFeatures(pv, quality)
	if len(features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(features))
	}
	props := features[0].Properties
	if props["createDate"] != "19930702" || props["updateDate"] != "20120101" {
		t.Errorf("quality dates not merged: %v", props)
	}
}

func TestBuildFeaturesConvexHullFallback(t *testing.T) {
	feat := &edigeo.Feature{ID: "F4", Class: edigeo.Reference{RID: "PARCELLE_id"}}
	pv := vecWith(feat, edigeo.Reference{RTY: "PFE", RID: "P1"})
	// Two disconnected stub arcs that cannot splice into any ring but still
	// carry three distinct vertices for the hull.
	pv.PFE["P1"] = &edigeo.Face{ID: "P1", Arcs: []string{"A1", "A2"}}
	pv.PAR["A1"] = &edigeo.Arc{ID: "A1", Coords: [][2]float64{{0, 0}, {4, 0}}}
	pv.PAR["A2"] = &edigeo.Arc{ID: "A2", Coords: [][2]float64{{2, 3}, {2, 5}}}

	features, errs := BuildFeatures(pv, nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(features) != 1 {
		t.Fatalf("expected the hull fallback to keep the feature, got %d features", len(features))
	}
	f := features[0]
	if f.Geometry.Kind != geom.KindPolygon {
		t.Errorf("geometry kind = %v, want polygon", f.Geometry.Kind)
	}
	if f.Properties["geometryRepaired"] != "true" {
		t.Errorf("expected geometryRepaired marker, got %v", f.Properties)
	}
}
