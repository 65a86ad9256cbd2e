package geom

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// ContentHash computes a stable 256-bit digest of a geometry's shape,
// normalized so that two rings differing only in their starting vertex (or
// sub-quantum floating point noise) hash identically. Coordinates are
// quantized to six decimals before digesting; rings are rewound to start at
// their lexicographically smallest vertex.
func ContentHash(g Geometry) [32]byte {
	h := sha256.New()
	writeGeometry(h, g)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func writeGeometry(h interface{ Write([]byte) (int, error) }, g Geometry) {
	switch g.Kind {
	case KindPoint:
		h.Write([]byte("POINT"))
		for _, p := range g.Points {
			writeCoord(h, p)
		}
	case KindMultiPoint:
		h.Write([]byte("MULTIPOINT"))
		for _, p := range g.Points {
			writeCoord(h, p)
		}
	case KindLineString:
		h.Write([]byte("LINESTRING"))
		for _, line := range g.Lines {
			writeLine(h, line)
		}
	case KindMultiLineString:
		h.Write([]byte("MULTILINESTRING"))
		for _, line := range g.Lines {
			h.Write([]byte("LINE"))
			writeLine(h, line)
		}
	case KindPolygon:
		h.Write([]byte("POLYGON"))
		for _, p := range g.Polygons {
			writePolygon(h, p)
		}
	case KindMultiPolygon:
		h.Write([]byte("MULTIPOLYGON"))
		for _, p := range g.Polygons {
			h.Write([]byte("POLY"))
			writePolygon(h, p)
		}
	case KindCollection:
		h.Write([]byte("GEOMETRYCOLLECTION"))
		for _, member := range g.Collection {
			writeGeometry(h, member)
		}
	}
}

func writePolygon(h interface{ Write([]byte) (int, error) }, p Polygon) {
	h.Write([]byte("EXT"))
	writeRing(h, p.Exterior)
	for _, hole := range p.Holes {
		h.Write([]byte("INT"))
		writeRing(h, hole)
	}
}

func writeLine(h interface{ Write([]byte) (int, error) }, line Ring) {
	for _, c := range line {
		writeCoord(h, c)
	}
}

// writeRing normalizes a closed ring before digesting: drops the repeated
// closing vertex if present, finds the lexicographically smallest (x, y)
// vertex, and emits starting from that index, wrapping modulo ring length.
func writeRing(h interface{ Write([]byte) (int, error) }, ring Ring) {
	pts := ring
	if len(pts) > 1 && approxEqual(pts[0], pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	if len(pts) == 0 {
		return
	}
	start := 0
	for i := 1; i < len(pts); i++ {
		if lessCoord(pts[i], pts[start]) {
			start = i
		}
	}
	n := len(pts)
	for i := 0; i < n; i++ {
		writeCoord(h, pts[(start+i)%n])
	}
}

func lessCoord(a, b [2]float64) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// writeCoord quantizes a coordinate to six decimals (integer micro-units)
// and writes both components as little-endian int64s.
func writeCoord(h interface{ Write([]byte) (int, error) }, c [2]float64) {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(hashCoord(c[0])))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(hashCoord(c[1])))
	h.Write(buf[:])
}

func hashCoord(v float64) int64 {
	return int64(math.Round(v * 1_000_000))
}
