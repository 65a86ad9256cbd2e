package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FieldMapping maps one EDIGEO feature attribute onto one target column.
type FieldMapping struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	DataType  string `json:"data_type,omitempty"`
	PrefixDep bool   `json:"prefix_dep,omitempty"`
}

// TableConfig is the target table specification for one feature class:
// which table it lands in, whether content-hash deduplication applies, and
// its business column list.
type TableConfig struct {
	Table    string         `json:"table"`
	HashGeom bool           `json:"hash_geom"`
	Fields   []FieldMapping `json:"fields"`
}

// Config maps feature-class name (e.g. "PARCELLE_id") to its table spec.
// A class name is also registered with its "_id" suffix stripped, so
// lookups tolerate either form.
type Config map[string]TableConfig

// reservedColumns are silently filtered out of the dynamic column list
// since they are always emitted by the row encoder itself.
var reservedColumns = map[string]bool{
	"row_id": true, "id": true, "departement": true, "geometry": true,
	"valid_from": true, "valid_to": true, "geometry_hash": true,
	"created_at": true, "updated_at": true,
}

// DynamicFields returns class's configured fields with any reserved target
// column name filtered out.
func (c Config) DynamicFields(class string) []FieldMapping {
	tc, ok := c.lookup(class)
	if !ok {
		return nil
	}
	return tc.DynamicFields()
}

// DynamicFields returns tc's configured fields with any reserved target
// column name filtered out, in declared order.
func (tc TableConfig) DynamicFields() []FieldMapping {
	out := make([]FieldMapping, 0, len(tc.Fields))
	for _, f := range tc.Fields {
		if reservedColumns[f.Target] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// TableFor resolves the table spec for a feature class, tolerating both
// "PARCELLE_id" and "PARCELLE" spellings.
func (c Config) TableFor(class string) (TableConfig, bool) {
	return c.lookup(class)
}

func (c Config) lookup(class string) (TableConfig, bool) {
	if tc, ok := c[class]; ok {
		return tc, true
	}
	if tc, ok := c[strings.TrimSuffix(class, "_id")]; ok {
		return tc, true
	}
	return TableConfig{}, false
}

// Validate enforces that classes sharing a target table have identical
// column layouts, checked once at startup.
func (c Config) Validate() error {
	byTable := make(map[string]TableConfig)
	for class, tc := range c {
		existing, ok := byTable[tc.Table]
		if !ok {
			byTable[tc.Table] = tc
			continue
		}
		if !sameLayout(existing, tc) {
			return fmt.Errorf("table %q has conflicting column layouts between feature classes (last seen via %q)", tc.Table, class)
		}
	}
	return nil
}

func sameLayout(a, b TableConfig) bool {
	if a.HashGeom != b.HashGeom || len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i] != b.Fields[i] {
			return false
		}
	}
	return true
}

// withClassAliases registers every class a second time with its "_id"
// suffix stripped, so lookups tolerate either spelling.
func withClassAliases(cfg Config) Config {
	out := make(Config, len(cfg)*2)
	for class, tc := range cfg {
		out[class] = tc
		out[strings.TrimSuffix(class, "_id")] = tc
	}
	return out
}

// Load resolves a config spec, either one of the embedded preset names
// ("full", "light", "bati") or a filesystem path to a JSON document, into a
// validated Config.
func Load(spec string) (Config, error) {
	var raw Config
	switch spec {
	case "full":
		raw = mustParsePreset(fullPresetJSON)
	case "light":
		raw = mustParsePreset(lightPresetJSON)
	case "bati":
		raw = mustParsePreset(batiPresetJSON)
	default:
		data, err := os.ReadFile(spec)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", spec, err)
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", spec, err)
		}
	}

	cfg := withClassAliases(raw)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mustParsePreset(data string) Config {
	var cfg Config
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		panic(fmt.Sprintf("embedded preset failed to parse: %v", err))
	}
	return cfg
}
