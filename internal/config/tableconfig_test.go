package config

import "testing"

func TestLoadEmbeddedPresets(t *testing.T) {
	for _, name := range []string{"full", "light", "bati"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(name)
			if err != nil {
				t.Fatalf("Load(%q): %v", name, err)
			}
			if _, ok := cfg.TableFor("PARCELLE_id"); !ok {
				t.Errorf("preset %q has no PARCELLE_id entry", name)
			}
		})
	}
}

func TestTableForToleratesStrippedSuffix(t *testing.T) {
	cfg, err := Load("full")
	if err != nil {
		t.Fatal(err)
	}
	full, ok := cfg.TableFor("PARCELLE_id")
	if !ok {
		t.Fatal("PARCELLE_id not found")
	}
	stripped, ok := cfg.TableFor("PARCELLE")
	if !ok {
		t.Fatal("PARCELLE alias not found")
	}
	if full.Table != stripped.Table {
		t.Errorf("alias resolves to %q, want %q", stripped.Table, full.Table)
	}
}

func TestDynamicFieldsFiltersReservedColumns(t *testing.T) {
	tc := TableConfig{
		Table: "parcelle",
		Fields: []FieldMapping{
			{Source: "IDU", Target: "idu"},
			{Source: "GEOM", Target: "geometry"},
			{Source: "FROM", Target: "valid_from"},
			{Source: "SURF", Target: "surface"},
		},
	}
	got := tc.DynamicFields()
	if len(got) != 2 {
		t.Fatalf("DynamicFields() kept %d fields, want 2: %v", len(got), got)
	}
	if got[0].Target != "idu" || got[1].Target != "surface" {
		t.Errorf("DynamicFields() = %v, want reserved targets filtered in order", got)
	}
}

func TestValidateRejectsConflictingLayouts(t *testing.T) {
	cfg := Config{
		"PARCELLE_id": {
			Table:  "shared",
			Fields: []FieldMapping{{Source: "IDU", Target: "idu"}},
		},
		"BATIMENT_id": {
			Table:  "shared",
			Fields: []FieldMapping{{Source: "DUR", Target: "dur"}},
		},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for classes sharing a table with differing layouts")
	}
}

func TestValidateAcceptsIdenticalLayouts(t *testing.T) {
	shared := TableConfig{
		Table:  "shared",
		Fields: []FieldMapping{{Source: "IDU", Target: "idu"}},
	}
	cfg := Config{"PARCELLE_id": shared, "SUBDSECT_id": shared}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
