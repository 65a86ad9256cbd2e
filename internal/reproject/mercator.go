package reproject

import "math"

// webMercatorRadius is the spherical radius EPSG:3857 assumes for both
// forward and inverse projection.
const webMercatorRadius = 6378137.0

// geographicToWebMercator projects geographic coordinates (radians) to Web
// Mercator metres.
func geographicToWebMercator(lon, lat float64) (x, y float64) {
	x = webMercatorRadius * lon
	y = webMercatorRadius * math.Log(math.Tan(math.Pi/4+lat/2))
	return x, y
}

// geographicToLonLatDegrees converts geographic coordinates (radians) to
// plain decimal-degree longitude/latitude, the target representation for
// SRID 4326.
func geographicToLonLatDegrees(lon, lat float64) (x, y float64) {
	return lon * radToDeg, lat * radToDeg
}
