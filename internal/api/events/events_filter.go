package events

import (
	"strings"

	"github.com/FACorreiaa/go-trip-itinerary/internal/geo"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

// DefaultCategories is searched when no activity preference maps to a category.
var DefaultCategories = []string{
	"concerts", "conferences", "expos", "festivals", "performing-arts",
	"sports", "community", "public-holidays",
}

var activityCategories = map[string][]string{
	"museums":     {"expos", "community"},
	"restaurants": {"food-and-drink"},
	"shopping":    {"expos", "community"},
	"nature":      {"community"},
	"nightlife":   {"concerts", "performing-arts"},
	"sightseeing": {"community", "expos"},
	"beach":       {"community"},
	"hiking":      {"community"},
	"adventure":   {"sports"},
	"cultural":    {"performing-arts", "community", "festivals"},
}

// CategoriesFor maps activity tags to event categories in first-seen order.
// Unknown tags are ignored; if nothing maps, the full default set is returned.
func CategoriesFor(activities []string) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, activity := range activities {
		for _, cat := range activityCategories[strings.ToLower(strings.TrimSpace(activity))] {
			if _, ok := seen[cat]; ok {
				continue
			}
			seen[cat] = struct{}{}
			categories = append(categories, cat)
		}
	}
	if len(categories) == 0 {
		return append([]string(nil), DefaultCategories...)
	}
	return categories
}

type phqEntity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type phqEvent struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Category         string      `json:"category"`
	Start            string      `json:"start"`
	End              string      `json:"end"`
	Location         []float64   `json:"location"` // [lon, lat]
	Entities         []phqEntity `json:"entities"`
	PlaceHierarchies [][]string  `json:"place_hierarchies"`
}

// coordinates reports the event location, or false if the source omitted it.
func (e phqEvent) coordinates() (types.Location, bool) {
	if len(e.Location) < 2 {
		return types.Location{}, false
	}
	loc := types.Location{Lat: e.Location[1], Lng: e.Location[0]}
	return loc, geo.Valid(loc)
}

// filterNearby keeps events within maxKm of origin and normalizes them.
// Events without coordinates are dropped.
func filterNearby(origin types.Location, raw []phqEvent, maxKm float64) []types.Event {
	out := make([]types.Event, 0, len(raw))
	for _, e := range raw {
		loc, ok := e.coordinates()
		if !ok {
			continue
		}
		d := geo.DistanceKm(origin, loc)
		if !geo.Within(d, maxKm) {
			continue
		}
		out = append(out, normalize(e, loc, d))
	}
	return out
}

func normalize(e phqEvent, loc types.Location, distanceKm float64) types.Event {
	description := e.Description
	if description == "" {
		description = e.Title + " - " + e.Category
	}

	var venue types.Venue
	for _, entity := range e.Entities {
		if entity.Type == "venue" {
			venue.Name = entity.Name
			break
		}
	}
	if len(e.PlaceHierarchies) > 0 {
		venue.Address = strings.Join(e.PlaceHierarchies[0], ", ")
	}

	return types.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: description,
		Start:       e.Start,
		End:         e.End,
		Category:    e.Category,
		Location:    loc,
		Venue:       venue,
		DistanceKm:  distanceKm,
	}
}
