// Package geojson renders built features as GeoJSON FeatureCollection
// documents for the export subcommand, one flat file per feature class.
package geojson

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/edigeo-cadastre/cadastre-ingest/internal/geom"
)

// CRS is the GeoJSON "crs" member, identifying the target SRID via its OGC
// URN form.
type CRS struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// Feature is one GeoJSON Feature: an id, a geometry, and a flat property
// bag.
type Feature struct {
	Type       string          `json:"type"`
	ID         string          `json:"id,omitempty"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

// FeatureCollection is the top-level document written per feature class.
type FeatureCollection struct {
	Type     string    `json:"type"`
	CRS      CRS       `json:"crs"`
	Features []Feature `json:"features"`
}

func crsFor(srid int) CRS {
	return CRS{
		Type: "name",
		Properties: map[string]any{
			"name": fmt.Sprintf("urn:ogc:def:crs:EPSG::%d", srid),
		},
	}
}

// NewFeatureCollection builds an empty collection tagged with the target
// SRID; call AddFeature to populate it.
func NewFeatureCollection(srid int) *FeatureCollection {
	return &FeatureCollection{
		Type:     "FeatureCollection",
		CRS:      crsFor(srid),
		Features: make([]Feature, 0),
	}
}

// AddFeature encodes one geometry plus its properties and id into the
// collection. Geometries that fail the ingest precondition are skipped
// rather than written out malformed.
func (fc *FeatureCollection) AddFeature(id string, g geom.Geometry, properties map[string]string) error {
	if !geom.ValidForIngest(g) {
		return fmt.Errorf("feature %s: geometry fails ingest precondition, skipped from export", id)
	}
	raw, err := json.Marshal(geometryJSON(g))
	if err != nil {
		return fmt.Errorf("feature %s: encoding geometry: %w", id, err)
	}
	props := make(map[string]any, len(properties))
	for k, v := range properties {
		props[k] = v
	}
	fc.Features = append(fc.Features, Feature{
		Type:       "Feature",
		ID:         id,
		Geometry:   raw,
		Properties: props,
	})
	return nil
}

// WriteFile serializes the collection to path as a flat GeoJSON document.
func (fc *FeatureCollection) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

type rawGeometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates,omitempty"`
	Geometries  []any  `json:"geometries,omitempty"`
}

func geometryJSON(g geom.Geometry) rawGeometry {
	switch g.Kind {
	case geom.KindPoint:
		return rawGeometry{Type: "Point", Coordinates: g.Points[0]}
	case geom.KindMultiPoint:
		return rawGeometry{Type: "MultiPoint", Coordinates: g.Points}
	case geom.KindLineString:
		return rawGeometry{Type: "LineString", Coordinates: g.Lines[0]}
	case geom.KindMultiLineString:
		return rawGeometry{Type: "MultiLineString", Coordinates: g.Lines}
	case geom.KindPolygon:
		return rawGeometry{Type: "Polygon", Coordinates: polygonCoords(g.Polygons[0])}
	case geom.KindMultiPolygon:
		coords := make([][][][2]float64, 0, len(g.Polygons))
		for _, p := range g.Polygons {
			coords = append(coords, polygonCoords(p))
		}
		return rawGeometry{Type: "MultiPolygon", Coordinates: coords}
	case geom.KindCollection:
		geoms := make([]any, 0, len(g.Collection))
		for _, sub := range g.Collection {
			geoms = append(geoms, geometryJSON(sub))
		}
		return rawGeometry{Type: "GeometryCollection", Geometries: geoms}
	default:
		return rawGeometry{Type: "GeometryCollection", Geometries: []any{}}
	}
}

func polygonCoords(p geom.Polygon) [][][2]float64 {
	rings := make([][][2]float64, 0, len(p.Holes)+1)
	rings = append(rings, p.Exterior)
	for _, h := range p.Holes {
		rings = append(rings, h)
	}
	return rings
}
