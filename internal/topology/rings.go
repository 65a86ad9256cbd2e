// Package topology assembles point, line and polygon geometries from the
// EDIGEO node/arc/face/link graph, including the ring-reconstruction
// algorithm that splices unordered arcs into closed polygon boundaries.
package topology

import (
	"math"
	"strconv"
)

const tolerance = 1e-6

func approxEq(a, b [2]float64) bool {
	return math.Abs(a[0]-b[0]) < tolerance && math.Abs(a[1]-b[1]) < tolerance
}

func distance(a, b [2]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}

func reverse(ring [][2]float64) [][2]float64 {
	out := make([][2]float64, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

// ReconstructRings splices a pool of unordered arc polylines into closed
// rings:
//
//  1. arcs already closed on themselves are extracted standalone.
//  2. remaining arcs are spliced onto a growing seed ring by matching
//     endpoints in any of the four orientations, until nothing more
//     attaches.
//  3. a seed that closes (len > 3, first ≈ last) is accepted as-is; one
//     that doesn't close is force-closed and reported as a gap warning;
//     one with 3 or fewer points is dropped.
func ReconstructRings(arcs [][][2]float64) (rings [][][2]float64, warnings []string) {
	remaining := make([][][2]float64, 0, len(arcs))
	for _, a := range arcs {
		if len(a) > 3 && approxEq(a[0], a[len(a)-1]) {
			rings = append(rings, a)
			continue
		}
		if len(a) > 0 {
			remaining = append(remaining, a)
		}
	}

	for len(remaining) > 0 {
		seed := remaining[0]
		remaining = remaining[1:]

		for {
			attachedAt := -1
			var spliced [][2]float64
			for i, cand := range remaining {
				if s, ok := trySplice(seed, cand); ok {
					spliced = s
					attachedAt = i
					break
				}
			}
			if attachedAt < 0 {
				break
			}
			seed = spliced
			remaining = append(remaining[:attachedAt], remaining[attachedAt+1:]...)
		}

		switch {
		case len(seed) > 3 && approxEq(seed[0], seed[len(seed)-1]):
			rings = append(rings, seed)
		case len(seed) > 3:
			gap := distance(seed[0], seed[len(seed)-1])
			closed := append(append([][2]float64{}, seed...), seed[0])
			rings = append(rings, closed)
			warnings = append(warnings, formatGapWarning(gap))
		}
	}

	return rings, warnings
}

func trySplice(seed, cand [][2]float64) ([][2]float64, bool) {
	if len(cand) == 0 {
		return nil, false
	}
	head, tail := seed[0], seed[len(seed)-1]
	cHead, cTail := cand[0], cand[len(cand)-1]

	switch {
	case approxEq(tail, cHead):
		out := append(append([][2]float64{}, seed...), cand[1:]...)
		return out, true
	case approxEq(tail, cTail):
		rev := reverse(cand)
		out := append(append([][2]float64{}, seed...), rev[1:]...)
		return out, true
	case approxEq(head, cTail):
		out := append(append([][2]float64{}, cand[:len(cand)-1]...), seed...)
		return out, true
	case approxEq(head, cHead):
		rev := reverse(cand)
		out := append(append([][2]float64{}, rev[:len(rev)-1]...), seed...)
		return out, true
	}
	return nil, false
}

func formatGapWarning(gap float64) string {
	return "ring force-closed; head-to-tail gap " + strconv.FormatFloat(gap, 'f', 6, 64)
}
