package geo

import "math"

const (
	earthRadiusKM = 6371.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func radiansToDegree(angle float64) float64 {
	return angle * (180.0 / math.Pi)
}

// CalculateHaversineDistance great-circle distance between two coordinates in
// kilometers.
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = degreeToRadians(latOne)
	longOne = degreeToRadians(longOne)
	latTwo = degreeToRadians(latTwo)
	longTwo = degreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// GetDestinationPoint coordinate reached when travelling distKm kilometers
// from (lat, lon) on the given bearing (degrees, clockwise from north).
func GetDestinationPoint(lat, lon, bearing, distKm float64) (float64, float64) {
	latRad := degreeToRadians(lat)
	lonRad := degreeToRadians(lon)
	bearingRad := degreeToRadians(bearing)
	angular := distKm / earthRadiusKM

	dstLat := math.Asin(math.Sin(latRad)*math.Cos(angular) +
		math.Cos(latRad)*math.Sin(angular)*math.Cos(bearingRad))
	dstLon := lonRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(angular)*math.Cos(latRad),
		math.Cos(angular)-math.Sin(latRad)*math.Sin(dstLat),
	)

	return radiansToDegree(dstLat), radiansToDegree(dstLon)
}
