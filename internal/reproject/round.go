package reproject

import "math"

// DefaultPrecision returns the default coordinate rounding precision for a
// target SRID: 7 decimals (~1 cm) for geographic targets, 2 decimals
// (~1 cm) for metric ones.
func DefaultPrecision(targetSRID int) int {
	if targetSRID == 4326 {
		return 7
	}
	return 2
}

// Round applies uniform decimal rounding to a coordinate pair. Rounding
// happens before hashing and before serialization so identical geometries
// from different runs hash identically.
func Round(x, y float64, precision int) (float64, float64) {
	factor := math.Pow(10, float64(precision))
	return math.Round(x*factor) / factor, math.Round(y*factor) / factor
}
