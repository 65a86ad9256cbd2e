package geom

import (
	"strconv"
	"strings"
)

// EWKT renders a geometry as an extended well-known text literal prefixed
// with its SRID, e.g. "SRID=4326;POINT(2.35 48.85)".
func EWKT(g Geometry, srid int) string {
	var b strings.Builder
	b.WriteString("SRID=")
	b.WriteString(strconv.Itoa(srid))
	b.WriteByte(';')
	b.WriteString(wkt(g))
	return b.String()
}

func wkt(g Geometry) string {
	switch g.Kind {
	case KindPoint:
		if len(g.Points) == 0 {
			return "POINT EMPTY"
		}
		return "POINT(" + coordText(g.Points[0]) + ")"
	case KindMultiPoint:
		if len(g.Points) == 0 {
			return "MULTIPOINT EMPTY"
		}
		parts := make([]string, len(g.Points))
		for i, p := range g.Points {
			parts[i] = "(" + coordText(p) + ")"
		}
		return "MULTIPOINT(" + strings.Join(parts, ",") + ")"
	case KindLineString:
		if len(g.Lines) == 0 {
			return "LINESTRING EMPTY"
		}
		return "LINESTRING(" + lineText(g.Lines[0]) + ")"
	case KindMultiLineString:
		if len(g.Lines) == 0 {
			return "MULTILINESTRING EMPTY"
		}
		parts := make([]string, len(g.Lines))
		for i, l := range g.Lines {
			parts[i] = "(" + lineText(l) + ")"
		}
		return "MULTILINESTRING(" + strings.Join(parts, ",") + ")"
	case KindPolygon:
		if len(g.Polygons) == 0 {
			return "POLYGON EMPTY"
		}
		return "POLYGON(" + polygonText(g.Polygons[0]) + ")"
	case KindMultiPolygon:
		if len(g.Polygons) == 0 {
			return "MULTIPOLYGON EMPTY"
		}
		parts := make([]string, len(g.Polygons))
		for i, p := range g.Polygons {
			parts[i] = "(" + polygonText(p) + ")"
		}
		return "MULTIPOLYGON(" + strings.Join(parts, ",") + ")"
	case KindCollection:
		if len(g.Collection) == 0 {
			return "GEOMETRYCOLLECTION EMPTY"
		}
		parts := make([]string, len(g.Collection))
		for i, m := range g.Collection {
			parts[i] = wkt(m)
		}
		return "GEOMETRYCOLLECTION(" + strings.Join(parts, ",") + ")"
	default:
		return "GEOMETRYCOLLECTION EMPTY"
	}
}

func polygonText(p Polygon) string {
	rings := make([]string, 0, len(p.Holes)+1)
	rings = append(rings, "("+lineText(p.Exterior)+")")
	for _, h := range p.Holes {
		rings = append(rings, "("+lineText(h)+")")
	}
	return strings.Join(rings, ",")
}

func lineText(r Ring) string {
	parts := make([]string, len(r))
	for i, c := range r {
		parts[i] = coordText(c)
	}
	return strings.Join(parts, ",")
}

func coordText(c [2]float64) string {
	return strconv.FormatFloat(c[0], 'f', -1, 64) + " " + strconv.FormatFloat(c[1], 'f', -1, 64)
}
