package events

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-itinerary/internal/geo"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

var paris = types.Location{Lat: 48.8566, Lng: 2.3522}

// northOf returns a point km kilometres due north of origin.
func northOf(origin types.Location, km float64) types.Location {
	return types.Location{Lat: origin.Lat + km/geo.EarthRadiusKm*180/math.Pi, Lng: origin.Lng}
}

func rawAt(id string, loc types.Location) phqEvent {
	return phqEvent{ID: id, Title: "Event " + id, Category: "concerts", Location: []float64{loc.Lng, loc.Lat}}
}

func TestCategoriesFor(t *testing.T) {
	tests := []struct {
		name       string
		activities []string
		want       []string
	}{
		{"nightlife", []string{"nightlife"}, []string{"concerts", "performing-arts"}},
		{"merged and deduplicated", []string{"museums", "cultural"}, []string{"expos", "community", "performing-arts", "festivals"}},
		{"case insensitive", []string{"  Adventure "}, []string{"sports"}},
		{"unknown falls back to defaults", []string{"knitting"}, DefaultCategories},
		{"empty falls back to defaults", nil, DefaultCategories},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoriesFor(tt.activities))
		})
	}
}

func TestCategoriesFor_DoesNotAliasDefaults(t *testing.T) {
	got := CategoriesFor(nil)
	got[0] = "mutated"
	assert.Equal(t, "concerts", DefaultCategories[0])
}

func TestFilterNearby_Distance(t *testing.T) {
	raw := []phqEvent{
		rawAt("near", northOf(paris, 5)),
		rawAt("inside", northOf(paris, 19.9)),
		rawAt("outside", northOf(paris, 20.1)),
		rawAt("far", northOf(paris, 300)),
		{ID: "no-location", Title: "Nowhere"},
	}

	events := filterNearby(paris, raw, 20)

	var ids []string
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"near", "inside"}, ids)
	assert.InDelta(t, 5.0, events[0].DistanceKm, 1e-6)
}

func TestFilterNearby_BoundaryIsInclusive(t *testing.T) {
	point := northOf(paris, 20)
	exact := geo.DistanceKm(paris, point)

	events := filterNearby(paris, []phqEvent{rawAt("edge", point)}, exact)
	require.Len(t, events, 1)
	assert.Equal(t, "edge", events[0].ID)

	events = filterNearby(paris, []phqEvent{rawAt("edge", point)}, math.Nextafter(exact, 0))
	assert.Empty(t, events)
}

func TestNormalize(t *testing.T) {
	loc := northOf(paris, 1)
	raw := phqEvent{
		ID:       "evt-1",
		Title:    "Jazz Night",
		Category: "concerts",
		Start:    "2024-04-02T19:00:00Z",
		End:      "2024-04-02T23:00:00Z",
		Location: []float64{loc.Lng, loc.Lat},
		Entities: []phqEntity{
			{Name: "Paris", Type: "locality"},
			{Name: "New Morning", Type: "venue"},
		},
		PlaceHierarchies: [][]string{{"6295630", "6255148", "3017382"}},
	}

	got := normalize(raw, loc, 1)

	assert.Equal(t, "Jazz Night - concerts", got.Description)
	assert.Equal(t, "New Morning", got.Venue.Name)
	assert.Equal(t, "6295630, 6255148, 3017382", got.Venue.Address)
	assert.Equal(t, loc, got.Location)

	bare := normalize(phqEvent{ID: "e2", Title: "Fair", Description: "Spring fair"}, loc, 1)
	assert.Equal(t, "Spring fair", bare.Description)
	assert.Equal(t, types.Venue{}, bare.Venue)
}
