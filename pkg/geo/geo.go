// Package geo provides great-circle distance math for dispatch decisions.
package geo

import "math"

const earthRadiusKm = 6371

// DistanceKm returns the haversine distance in kilometers between two
// coordinates given in degrees. The formula is symmetric in its endpoints
// and returns 0 for identical points. Behavior for non-finite input is
// undefined.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	rLat1 := radians(lat1)
	rLat2 := radians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
