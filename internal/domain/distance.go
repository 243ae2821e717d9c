package domain

import "math"

// earthRadiusKM is the mean Earth radius used for great-circle distances.
const earthRadiusKM = 6371.0

// Distance returns the Haversine great-circle distance between two locations
// in kilometers. It is symmetric and zero for identical points.
func Distance(a, b Location) float64 {
	lat1 := radians(a.Latitude)
	lon1 := radians(a.Longitude)
	lat2 := radians(b.Latitude)
	lon2 := radians(b.Longitude)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKM * c
}

// TravelMinutes converts a distance at an average speed into minutes.
// Returns 0 when the speed is not positive.
func TravelMinutes(distanceKM, speedKMH float64) float64 {
	if speedKMH <= 0 {
		return 0
	}
	return distanceKM / speedKMH * 60
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
