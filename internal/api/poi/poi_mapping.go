package poi

import (
	"strings"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

// DefaultCategory labels places the source did not categorize.
const DefaultCategory = "Point of Interest"

type searchResponse struct {
	Results []place `json:"results"`
}

type place struct {
	FsqID      string  `json:"fsq_id"`
	Name       string  `json:"name"`
	Distance   float64 `json:"distance"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Location struct {
		FormattedAddress string `json:"formatted_address"`
		Address          string `json:"address"`
		Locality         string `json:"locality"`
		Region           string `json:"region"`
		Postcode         string `json:"postcode"`
		Country          string `json:"country"`
	} `json:"location"`
}

func (p place) toPOI() types.PointOfInterest {
	category := DefaultCategory
	if len(p.Categories) > 0 && strings.TrimSpace(p.Categories[0].Name) != "" {
		category = p.Categories[0].Name
	}
	return types.PointOfInterest{
		Name:     p.Name,
		Category: category,
		Address:  p.address(),
		Distance: p.Distance,
	}
}

// address prefers the provider's formatted address and otherwise joins the
// parts that are present.
func (p place) address() string {
	if p.Location.FormattedAddress != "" {
		return p.Location.FormattedAddress
	}
	var parts []string
	for _, part := range []string{p.Location.Address, p.Location.Locality, p.Location.Region, p.Location.Postcode, p.Location.Country} {
		if s := strings.TrimSpace(part); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
