package topology

import "github.com/edigeo-cadastre/cadastre-ingest/internal/geom"

// ClassifyRings assigns each reconstructed ring as outer unless its first
// vertex lies strictly inside another ring, in which case it becomes a hole
// of the first enclosing ring found. One outer ring yields a single-element
// slice (a Polygon); several yield one Polygon per outer ring (a
// MultiPolygon once wrapped by the caller).
func ClassifyRings(rings [][][2]float64) []geom.Polygon {
	isInner := make([]bool, len(rings))
	enclosingOf := make([]int, len(rings))
	for i := range enclosingOf {
		enclosingOf[i] = -1
	}

	for i, r := range rings {
		if len(r) == 0 {
			continue
		}
		for j, other := range rings {
			if i == j {
				continue
			}
			if pointInRing(r[0], other) {
				isInner[i] = true
				enclosingOf[i] = j
				break
			}
		}
	}

	outerIndex := make(map[int]int) // ring index -> position in polys
	var polys []geom.Polygon
	for i, r := range rings {
		if !isInner[i] {
			outerIndex[i] = len(polys)
			polys = append(polys, geom.Polygon{Exterior: geom.Ring(r)})
		}
	}
	for i, r := range rings {
		if !isInner[i] {
			continue
		}
		outer := enclosingOf[i]
		if pos, ok := outerIndex[outer]; ok {
			polys[pos].Holes = append(polys[pos].Holes, geom.Ring(r))
			continue
		}
		// Enclosing ring was itself classified inner (nested holes): treat
		// this ring as its own outer rather than lose it.
		outerIndex[i] = len(polys)
		polys = append(polys, geom.Polygon{Exterior: geom.Ring(r)})
	}

	return polys
}

// pointInRing reports whether pt lies strictly inside ring using the
// standard even-odd ray-casting test.
func pointInRing(pt [2]float64, ring [][2]float64) bool {
	inside := false
	n := len(ring)
	if n < 3 {
		return false
	}
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > pt[1]) != (yj > pt[1]) {
			xCross := (xj-xi)*(pt[1]-yi)/(yj-yi) + xi
			if pt[0] < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// BuildPolygonGeometry wraps classified rings into a geom.Geometry: a
// single outer ring becomes a Polygon, several become a MultiPolygon.
func BuildPolygonGeometry(rings [][][2]float64) geom.Geometry {
	polys := ClassifyRings(rings)
	if len(polys) == 1 {
		return geom.NewPolygon(polys[0])
	}
	return geom.NewMultiPolygon(polys)
}
