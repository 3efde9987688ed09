// Package geo provides the distance math used by the activity "near" query.
package geo

import "math"

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	radLat1 := toRadians(lat1)
	radLat2 := toRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(radLat1)*math.Cos(radLat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// BoundingBox returns an approximate degree box around a center point. One
// degree of latitude is taken as 111 km; the longitude span widens with
// latitude. Callers refine the box with Haversine afterwards.
func BoundingBox(lat, lon, radiusKm float64) (minLat, maxLat, minLon, maxLon float64) {
	latDelta := radiusKm / 111.0
	lonDelta := radiusKm / (111.0 * math.Cos(toRadians(lat)))

	return lat - latDelta, lat + latDelta, lon - lonDelta, lon + lonDelta
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
