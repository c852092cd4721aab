package itinerary

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api/llm"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

// MaxPromptPOIs caps the places handed to the model, in fetch order.
const MaxPromptPOIs = 15

const systemMessage = `You are an expert travel planner with deep knowledge of destinations worldwide.
You'll create a personalized, realistic, and engaging travel itinerary using real data.
Follow these key principles:
1. Always include real events from the provided events list when available for specific dates
2. Create an authentic experience that respects the traveler's preferences
3. Ensure all activities are geographically sensible with travel time between locations
4. Provide specific venue names and locations, not generic suggestions`

const itinerarySchema = `{
  "summary": "Overall description of the trip",
  "totalCost": estimated total cost based on budget,
  "tips": [array of 5-7 specific tips for this destination],
  "days": [
    {
      "date": "YYYY-MM-DD",
      "theme": "Theme for this day",
      "description": "Brief engaging description",
      "activities": [
        {
          "time": "HH:MM",
          "title": "Activity name",
          "description": "Detailed description",
          "location": "Location name",
          "cost": estimated cost in USD,
          "isRealEvent": boolean indicating if this is from the events list
        }
      ],
      "weather": {
        "forecast": "Weather forecast based on the data provided",
        "backupPlan": "Plan for bad weather if needed"
      }
    }
  ]
}`

// promptEvent is the model-facing projection of an event.
type promptEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Category    string `json:"category"`
	Venue       string `json:"venue"`
	Address     string `json:"address"`
}

func projectEvents(events []types.Event) []promptEvent {
	out := make([]promptEvent, 0, len(events))
	for _, e := range events {
		venue := e.Venue.Name
		if venue == "" {
			venue = "Local venue"
		}
		description := e.Description
		if description == "" {
			description = e.Title
		}
		out = append(out, promptEvent{
			ID:          e.ID,
			Title:       e.Title,
			Description: description,
			Start:       e.Start,
			End:         e.End,
			Category:    e.Category,
			Venue:       venue,
			Address:     e.Venue.Address,
		})
	}
	return out
}

// topPOIs keeps the first n places.
func topPOIs(pois []types.PointOfInterest, n int) []types.PointOfInterest {
	if len(pois) <= n {
		return pois
	}
	return pois[:n]
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, ", ")
}

func getItineraryUserPrompt(in SynthesisInput) string {
	req := in.Request
	special := strings.TrimSpace(req.SpecialRequests)
	if special == "" {
		special = "None"
	}
	return fmt.Sprintf(`Create a detailed travel itinerary for %d travelers to %s.
Trip dates: %s to %s (%d days)
Budget: $%s
Travel style preferences: %s
Preferred accommodations: %s
Desired activities: %s
Transportation options: %s
Special requests: %s

I've gathered this information about the destination:

WEATHER:
%s

LOCAL EVENTS (must include these in the itinerary on their specific dates):
%s

POINTS OF INTEREST:
%s

Generate a comprehensive JSON itinerary with this structure:
%s

IMPORTANT INSTRUCTIONS:
1. Include at least one real event from the provided list for each day when available
2. Make the itinerary realistic and tailored to the preferences
3. Keep timing sensible (no back-to-back activities without travel time)
4. For real events, use their exact title, description, and timing
5. Make sure your response is valid JSON that can be parsed
6. Generate specific, location-relevant tips, not generic travel advice
7. Return exactly %d entries in "days", one per date from %s to %s`,
		req.Travelers, strings.TrimSpace(req.Destination),
		req.StartDate, req.EndDate, in.Days,
		formatBudget(req.Budget),
		joinOrNone(req.TravelStyle),
		joinOrNone(req.AccommodationType),
		joinOrNone(req.Activities),
		joinOrNone(req.Transport),
		special,
		indentJSON(in.Weather),
		indentJSON(projectEvents(in.Events)),
		indentJSON(topPOIs(in.POIs, MaxPromptPOIs)),
		itinerarySchema,
		in.Days, req.StartDate, req.EndDate,
	)
}

func formatBudget(b float64) string {
	return strconv.FormatFloat(b, 'f', -1, 64)
}

// buildPrompt frames the request as system instructions plus the user task.
func buildPrompt(in SynthesisInput, temperature float32) llm.Prompt {
	return llm.Prompt{
		System:      systemMessage,
		User:        getItineraryUserPrompt(in),
		Temperature: temperature,
		JSON:        true,
	}
}
