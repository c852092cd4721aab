package types

// ItineraryRequest is the body accepted by POST /api/generate-itinerary.
type ItineraryRequest struct {
	Destination       string   `json:"destination" validate:"required"`
	StartDate         string   `json:"startDate" validate:"required"`
	EndDate           string   `json:"endDate" validate:"required"`
	Travelers         int      `json:"travelers" validate:"min=1"`
	TravelStyle       []string `json:"travelStyle" validate:"min=1,dive,required"`
	AccommodationType []string `json:"accommodationType" validate:"min=1,dive,required"`
	Activities        []string `json:"activities" validate:"min=1,dive,required"`
	Transport         []string `json:"transport" validate:"min=1,dive,required"`
	Budget            float64  `json:"budget" validate:"gt=0"`
	SpecialRequests   string   `json:"specialRequests,omitempty"`
	ForceRefresh      bool     `json:"forceRefresh,omitempty"`
}

// Location is a point in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// WeatherDay is one day of the forecast horizon.
type WeatherDay struct {
	Date      string  `json:"date"`
	MaxTemp   float64 `json:"max_temp"`
	MinTemp   float64 `json:"min_temp"`
	Condition string  `json:"condition"`
}

// Venue is where an event takes place. Both fields may be empty.
type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Event is a real, scheduled happening near the destination.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Category    string   `json:"category"`
	Location    Location `json:"location"`
	Venue       Venue    `json:"venue"`
	DistanceKm  float64  `json:"distanceKm"`
}

// PointOfInterest is a nearby place returned by the places search.
type PointOfInterest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Address  string  `json:"address"`
	Distance float64 `json:"distance"`
}

// Activity is one slot of an itinerary day.
type Activity struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Cost        Cost   `json:"cost"`
	IsRealEvent bool   `json:"isRealEvent"`
}

type DayWeather struct {
	Forecast   string `json:"forecast"`
	BackupPlan string `json:"backupPlan,omitempty"`
}

type ItineraryDay struct {
	Date        string     `json:"date"`
	Theme       string     `json:"theme"`
	Description string     `json:"description"`
	Activities  []Activity `json:"activities"`
	Weather     DayWeather `json:"weather"`
}

// GeneratedItinerary is the structured output of the model.
type GeneratedItinerary struct {
	Summary   string         `json:"summary"`
	TotalCost Cost           `json:"totalCost"`
	Tips      []string       `json:"tips"`
	Days      []ItineraryDay `json:"days"`
}

type TripDates struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ItineraryResponse is the payload returned to callers and stored in the cache.
type ItineraryResponse struct {
	Destination      string             `json:"destination"`
	Coordinates      Location           `json:"coordinates"`
	Dates            TripDates          `json:"dates"`
	Itinerary        GeneratedItinerary `json:"itinerary"`
	Weather          []WeatherDay       `json:"weather"`
	Events           []Event            `json:"events"`
	PointsOfInterest []PointOfInterest  `json:"pointsOfInterest"`
	FromCache        bool               `json:"fromCache"`
}
