package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

func TestDistanceKm(t *testing.T) {
	paris := types.Location{Lat: 48.8566, Lng: 2.3522}
	london := types.Location{Lat: 51.5074, Lng: -0.1278}

	assert.InDelta(t, 343.5, DistanceKm(paris, london), 1.0)
	assert.InDelta(t, DistanceKm(paris, london), DistanceKm(london, paris), 1e-9)
	assert.Zero(t, DistanceKm(paris, paris))
}

func TestDistanceKm_AlongMeridian(t *testing.T) {
	origin := types.Location{Lat: 0, Lng: 0}
	// 20 km north along the meridian.
	north := types.Location{Lat: 20 / EarthRadiusKm * 180 / math.Pi, Lng: 0}

	assert.InDelta(t, 20.0, DistanceKm(origin, north), 1e-6)
}

func TestWithin_BoundaryIsInclusive(t *testing.T) {
	assert.True(t, Within(20, 20))
	assert.True(t, Within(19.999, 20))
	assert.False(t, Within(20.001, 20))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(types.Location{Lat: 48.85, Lng: 2.35}))
	assert.False(t, Valid(types.Location{Lat: math.NaN(), Lng: 2.35}))
	assert.False(t, Valid(types.Location{Lat: 10, Lng: math.Inf(1)}))
	assert.False(t, Valid(types.Location{Lat: 91, Lng: 0}))
}
