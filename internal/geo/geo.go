// Package geo provides great-circle distance math for route planning.
package geo

import "math"

// earthRadiusMiles is the mean Earth radius.
const earthRadiusMiles = 3958.7613

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Miles returns the haversine distance between two points in miles.
func Miles(from, to Point) float64 {
	lat1 := radians(from.Latitude)
	lat2 := radians(to.Latitude)
	dLat := radians(to.Latitude - from.Latitude)
	dLon := radians(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
