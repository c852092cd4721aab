package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

// DefaultTTL is how long a generated itinerary stays servable.
const DefaultTTL = 24 * time.Hour

// Store memoizes full itinerary responses by request fingerprint.
// Expired entries are reported as absent; nothing sweeps them in the background.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, bool)
	Set(ctx context.Context, key string, payload types.ItineraryResponse) error
	Flush(ctx context.Context) error
	Close() error
}

type Entry struct {
	Payload   types.ItineraryResponse `json:"payload"`
	CreatedAt time.Time               `json:"createdAt"`
}

// Fresh reports whether the entry is still within ttl at now.
func (e *Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt) < ttl
}

// Clock is injected so expiry can be tested without sleeping.
type Clock func() time.Time

type fingerprintFields struct {
	Destination       string   `json:"destination"`
	StartDate         string   `json:"startDate"`
	EndDate           string   `json:"endDate"`
	Travelers         int      `json:"travelers"`
	TravelStyle       []string `json:"travelStyle"`
	AccommodationType []string `json:"accommodationType"`
	Activities        []string `json:"activities"`
	Transport         []string `json:"transport"`
	Budget            float64  `json:"budget"`
	SpecialRequests   string   `json:"specialRequests"`
}

// Fingerprint returns the cache key of a request: the sha256 of its canonical
// JSON form. ForceRefresh is not part of the key, list fields are sorted and
// the destination is trimmed, so semantically equal requests share an entry.
func Fingerprint(req types.ItineraryRequest) string {
	canonical := fingerprintFields{
		Destination:       strings.TrimSpace(req.Destination),
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Travelers:         req.Travelers,
		TravelStyle:       sorted(req.TravelStyle),
		AccommodationType: sorted(req.AccommodationType),
		Activities:        sorted(req.Activities),
		Transport:         sorted(req.Transport),
		Budget:            req.Budget,
		SpecialRequests:   req.SpecialRequests,
	}
	// marshalling a struct of strings, ints and floats cannot fail
	data, _ := json.Marshal(canonical)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func sorted(in []string) []string {
	out := slices.Clone(in)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return out
}
