package geo

import (
	"math"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// DistanceKm calculates the great-circle distance between two coordinates using the Haversine formula.
func DistanceKm(a, b types.Location) float64 {
	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180

	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlon := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// Within reports whether distanceKm lies inside the radius. The boundary is inclusive.
func Within(distanceKm, radiusKm float64) bool {
	return distanceKm <= radiusKm
}

// Valid reports whether loc holds finite coordinates inside the degree ranges.
func Valid(loc types.Location) bool {
	if math.IsNaN(loc.Lat) || math.IsNaN(loc.Lng) || math.IsInf(loc.Lat, 0) || math.IsInf(loc.Lng, 0) {
		return false
	}
	return loc.Lat >= -90 && loc.Lat <= 90 && loc.Lng >= -180 && loc.Lng <= 180
}
