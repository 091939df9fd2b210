package geo

import (
	"math"

	"poiviewer/internal/domain/entities"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceKm returns the great-circle distance between a and b in kilometers
// using the Haversine formula.
//
// The haversine term h is clamped to [0,1]: rounding can push it a hair
// above 1 for antipodal points, which would make sqrt(1-h) NaN.
//
// Inputs are not validated; out-of-range coordinates give meaningless but
// finite results.
func DistanceKm(a, b entities.Coordinate) float64 {
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(radians(a.Latitude))*math.Cos(radians(b.Latitude))*sinLon*sinLon
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
