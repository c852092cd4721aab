package itinerary

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

var parisLocation = types.Location{Lat: 48.8566, Lng: 2.3522}

func parisRequest() types.ItineraryRequest {
	return types.ItineraryRequest{
		Destination:       "Paris, France",
		StartDate:         "2024-04-01",
		EndDate:           "2024-04-07",
		Travelers:         2,
		Budget:            5000,
		TravelStyle:       []string{"cultural"},
		Activities:        []string{"museums"},
		AccommodationType: []string{"hotel"},
		Transport:         []string{"walking"},
	}
}

// generatedItinerary builds a plausible model answer with one day per date.
func generatedItinerary(start string, days int) types.GeneratedItinerary {
	first, err := time.Parse(DateLayout, start)
	if err != nil {
		panic(err)
	}
	it := types.GeneratedItinerary{
		Summary:   "A week of museums and cafés.",
		TotalCost: 4200,
		Tips:      []string{"Buy a Paris Museum Pass", "Book the Louvre in advance"},
	}
	for i := 0; i < days; i++ {
		date := first.AddDate(0, 0, i).Format(DateLayout)
		it.Days = append(it.Days, types.ItineraryDay{
			Date:        date,
			Theme:       fmt.Sprintf("Day %d", i+1),
			Description: "Exploring the city",
			Activities: []types.Activity{
				{Time: "10:00", Title: "Musée d'Orsay", Description: "Impressionists", Location: "Rue de Lille", Cost: 16},
			},
			Weather: types.DayWeather{Forecast: "Mild", BackupPlan: "Covered passages"},
		})
	}
	return it
}

func itineraryJSON(start string, days int) string {
	b, err := json.Marshal(generatedItinerary(start, days))
	if err != nil {
		panic(err)
	}
	return string(b)
}
