package topology

import (
	"strings"

	"github.com/edigeo-cadastre/cadastre-ingest/internal/edigeo"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/geom"
)

// BuiltFeature is one business feature assembled from the record graph:
// its identity, geometry, and textual properties.
type BuiltFeature struct {
	ID         string
	Class      string
	Geometry   geom.Geometry
	Properties map[string]string
	Warnings   []string
}

// BuildFeatures walks every LNK of class REL in a decoded VEC file,
// resolves its referenced FEA, and assembles a geometry from the link's
// other references: PFE refs build a polygon/multipolygon, PAR refs
// (without PFE) build a line/multiline, PNO refs (without PAR/PFE) build a
// point/multipoint.
func BuildFeatures(pv *edigeo.ParsedVec, quality map[string]edigeo.Quality) ([]BuiltFeature, []error) {
	var features []BuiltFeature
	var errs []error

	for _, link := range pv.LNK {
		if link.Class.RTY != "REL" {
			continue
		}

		var featRef *edigeo.Reference
		var pfeRefs, parRefs, pnoRefs []edigeo.Reference
		for i := range link.Refs {
			ref := link.Refs[i]
			switch ref.RTY {
			case "FEA":
				if featRef == nil {
					featRef = &link.Refs[i]
				}
			case "PFE":
				pfeRefs = append(pfeRefs, ref)
			case "PAR":
				parRefs = append(parRefs, ref)
			case "PNO":
				pnoRefs = append(pnoRefs, ref)
			}
		}
		if featRef == nil {
			continue
		}
		feat, ok := pv.FEA[featRef.RID]
		if !ok {
			errs = append(errs, &edigeo.ParseErr{File: "VEC", Reason: "LNK " + link.ID + " references unknown FEA " + featRef.RID})
			continue
		}

		var g geom.Geometry
		var warnings []string
		var buildErr error

		switch {
		case len(pfeRefs) > 0:
			g, warnings, buildErr = buildPolygon(feat.ID, pfeRefs, pv)
		case len(parRefs) > 0:
			g = buildLines(parRefs, pv)
		case len(pnoRefs) > 0:
			g = buildPoints(pnoRefs, pv)
		default:
			continue
		}
		if buildErr != nil {
			errs = append(errs, buildErr)
			continue
		}

		props := properties(feat, quality)
		if repairedMarker(warnings) {
			props["geometryRepaired"] = "true"
		}
		features = append(features, BuiltFeature{
			ID:         featureID(feat),
			Class:      feat.Class.RID,
			Geometry:   g,
			Properties: props,
			Warnings:   warnings,
		})
	}

	return features, errs
}

func featureID(feat *edigeo.Feature) string {
	if idu, ok := feat.Attributes["IDU"]; ok && idu != "" {
		return idu
	}
	return feat.ID
}

func properties(feat *edigeo.Feature, quality map[string]edigeo.Quality) map[string]string {
	props := make(map[string]string, len(feat.Attributes)+2)
	for k, v := range feat.Attributes {
		props[k] = v
	}
	if feat.Quality != "" {
		if q, ok := quality[feat.Quality]; ok {
			if q.CreateDate != "" {
				props["createDate"] = q.CreateDate
			}
			if q.UpdateDate != "" {
				props["updateDate"] = q.UpdateDate
			}
		}
	}
	return props
}

func buildPolygon(featID string, pfeRefs []edigeo.Reference, pv *edigeo.ParsedVec) (geom.Geometry, []string, error) {
	var arcPolylines [][][2]float64
	for _, ref := range pfeRefs {
		face, ok := pv.PFE[ref.RID]
		if !ok {
			continue
		}
		for _, arcID := range face.Arcs {
			if arc, ok := pv.PAR[arcID]; ok && len(arc.Coords) > 0 {
				arcPolylines = append(arcPolylines, arc.Coords)
			}
		}
	}

	rings, warnings := ReconstructRings(arcPolylines)
	if len(rings) > 0 {
		return BuildPolygonGeometry(rings), warnings, nil
	}

	var allVertices [][2]float64
	for _, line := range arcPolylines {
		allVertices = append(allVertices, line...)
	}
	hull, err := ConvexHull(allVertices)
	if err != nil {
		return geom.Geometry{}, nil, &edigeo.RepairFailedErr{ID: featID, Reason: err.Error()}
	}
	warnings = append(warnings, "geometry repaired via convex hull fallback")
	poly := geom.NewPolygon(geom.Polygon{Exterior: geom.Ring(hull)})
	return poly, warnings, nil
}

func buildLines(parRefs []edigeo.Reference, pv *edigeo.ParsedVec) geom.Geometry {
	lines := make([]geom.Ring, 0, len(parRefs))
	for _, ref := range parRefs {
		if arc, ok := pv.PAR[ref.RID]; ok && len(arc.Coords) > 0 {
			lines = append(lines, geom.Ring(arc.Coords))
		}
	}
	if len(lines) == 1 {
		return geom.NewLineString(lines[0])
	}
	return geom.NewMultiLineString(lines)
}

func buildPoints(pnoRefs []edigeo.Reference, pv *edigeo.ParsedVec) geom.Geometry {
	var coords [][2]float64
	for _, ref := range pnoRefs {
		if pt, ok := pv.PNO[ref.RID]; ok {
			coords = append(coords, pt.Coords...)
		}
	}
	if len(coords) == 1 {
		return geom.NewPoint(coords[0][0], coords[0][1])
	}
	return geom.NewMultiPoint(coords)
}

// repairedMarker reports whether a feature's geometry was produced by the
// convex-hull fallback, used by BuildFeatures to set the
// "geometryRepaired" property marker.
func repairedMarker(warnings []string) bool {
	for _, w := range warnings {
		if strings.Contains(w, "convex hull fallback") {
			return true
		}
	}
	return false
}
