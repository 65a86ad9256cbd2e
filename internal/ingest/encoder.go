package ingest

import (
	"github.com/edigeo-cadastre/cadastre-ingest/internal/config"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/edigeo"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/geom"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/reproject"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/topology"
)

// Encoder turns one built feature into a ready-to-ship row for a single
// target table: it reprojects and rounds the geometry, applies content-hash
// dedup against a preloaded set, checks the ingest precondition, and
// renders the fixed-column-order CSV row.
type Encoder struct {
	Table       config.TableConfig
	SRID        int
	Precision   int
	Departement string
	Projector   reproject.Projector
	ValidFrom   string
	KnownHashes HashSet
}

// HashSet is the preloaded set of geometry_hash values already present in
// a table's final relation; it is built once at startup and shared
// read-only across workers.
type HashSet map[[32]byte]bool

// Encode projects, rounds, hashes and serializes feat against e's table.
// A false ok return means the row was dropped: either its geometry fails
// the ingest precondition, or (for hash-enabled tables) its content hash
// was already present before this run started. The reason is one of
// "invalid_geometry" or "duplicate_hash" when ok is false and err is nil.
func (e *Encoder) Encode(feat topology.BuiltFeature) (row []byte, ok bool, reason string, err error) {
	projected, err := reprojectGeometry(feat.Geometry, e.Projector, e.Precision)
	if err != nil {
		return nil, false, "", &edigeo.InvalidGeometryErr{ID: feat.ID, Reason: err.Error()}
	}

	if !geom.ValidForIngest(projected) {
		return nil, false, "invalid_geometry", nil
	}

	var hashPtr *[32]byte
	if e.Table.HashGeom {
		h := geom.ContentHash(projected)
		if e.KnownHashes != nil && e.KnownHashes[h] {
			return nil, false, "duplicate_hash", nil
		}
		hashPtr = &h
	}

	id := feat.ID
	if e.Departement != "" {
		id = e.Departement + id
	}

	rendered := EncodeRow(id, e.Departement, projected, e.SRID, e.ValidFrom, hashPtr, feat.Properties, e.Table.DynamicFields())
	return rendered, true, "", nil
}

// reprojectGeometry applies p to every vertex of g and rounds the result
// to precision decimals, recursing through the geometry's rings/lines/
// points. Rounding happens after reprojection so identical source
// geometries hash identically across runs regardless of target CRS.
func reprojectGeometry(g geom.Geometry, p reproject.Projector, precision int) (geom.Geometry, error) {
	var err error
	project := func(c [2]float64) [2]float64 {
		if err != nil {
			return c
		}
		x, y, perr := p.Project(c[0], c[1])
		if perr != nil {
			err = perr
			return c
		}
		rx, ry := reproject.Round(x, y, precision)
		return [2]float64{rx, ry}
	}

	out := g
	switch g.Kind {
	case geom.KindPoint, geom.KindMultiPoint:
		out.Points = mapCoords(g.Points, project)
	case geom.KindLineString, geom.KindMultiLineString:
		out.Lines = mapRings(g.Lines, project)
	case geom.KindPolygon, geom.KindMultiPolygon:
		out.Polygons = mapPolygons(g.Polygons, project)
	case geom.KindCollection:
		members := make([]geom.Geometry, len(g.Collection))
		for i, m := range g.Collection {
			members[i], err = reprojectGeometry(m, p, precision)
			if err != nil {
				return geom.Geometry{}, err
			}
		}
		out.Collection = members
		return out, nil
	}
	if err != nil {
		return geom.Geometry{}, err
	}
	return out, nil
}

func mapCoords(pts [][2]float64, f func([2]float64) [2]float64) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = f(p)
	}
	return out
}

func mapRings(rings []geom.Ring, f func([2]float64) [2]float64) []geom.Ring {
	out := make([]geom.Ring, len(rings))
	for i, r := range rings {
		out[i] = geom.Ring(mapCoords(r, f))
	}
	return out
}

func mapPolygons(polys []geom.Polygon, f func([2]float64) [2]float64) []geom.Polygon {
	out := make([]geom.Polygon, len(polys))
	for i, p := range polys {
		out[i] = geom.Polygon{
			Exterior: geom.Ring(mapCoords(p.Exterior, f)),
			Holes:    mapRings(p.Holes, f),
		}
	}
	return out
}
