package guidance

import (
	"math"

	"github.com/flickmobile/navigation-backend/pkg/routing"
)

// earthRadiusM is the mean Earth radius in meters
const earthRadiusM = 6371000.0

// Distance returns the great-circle distance between two points in meters,
// computed with the haversine formula. Symmetric, and zero for identical points.
func Distance(a, b routing.Point) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
