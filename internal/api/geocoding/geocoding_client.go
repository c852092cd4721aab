package geocoding

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/upstream"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

const Source = "opencage"

var _ Geocoder = (*Client)(nil)

// Geocoder resolves a free-text destination to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, destination string) (types.Location, error)
}

// Strategy builds the query parameters of one geocoding attempt.
type Strategy struct {
	Name  string
	Query func(destination string) url.Values
}

type Config struct {
	BaseURL      string
	APIKey       string
	CountryCodes []string
}

type Client struct {
	http       *upstream.Client
	cfg        Config
	strategies []Strategy
	logger     *slog.Logger
}

func NewClient(httpClient *upstream.Client, cfg Config, logger *slog.Logger) *Client {
	return &Client{
		http:       httpClient,
		cfg:        cfg,
		strategies: DefaultStrategies(cfg.CountryCodes),
		logger:     logger.With(slog.String("component", "geocoder")),
	}
}

// DefaultStrategies returns the attempts in order: plain query, query biased
// towards cities, then a city-typed query scoped to countryCodes.
func DefaultStrategies(countryCodes []string) []Strategy {
	strategies := []Strategy{
		{
			Name: "plain",
			Query: func(destination string) url.Values {
				return url.Values{"q": {destination}}
			},
		},
		{
			Name: "city-suffix",
			Query: func(destination string) url.Values {
				return url.Values{"q": {destination + " city"}}
			},
		},
	}
	if len(countryCodes) > 0 {
		strategies = append(strategies, Strategy{
			Name: "country-scoped",
			Query: func(destination string) url.Values {
				return url.Values{
					"q":           {destination},
					"countrycode": {strings.Join(countryCodes, ",")},
					"type":        {"city"},
				}
			},
		})
	}
	return strategies
}

type openCageResponse struct {
	Results []struct {
		Formatted  string `json:"formatted"`
		Confidence int    `json:"confidence"`
		Geometry   struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode tries each strategy in order and returns the first result.
// A strategy that errors counts as "no result"; exhausting all of them
// yields *api.NotFoundError.
func (c *Client) Geocode(ctx context.Context, destination string) (types.Location, error) {
	ctx, span := otel.Tracer("Geocoder").Start(ctx, "Geocode", trace.WithAttributes(
		attribute.String("destination", destination),
	))
	defer span.End()

	l := c.logger.With(slog.String("destination", destination))

	for _, strategy := range c.strategies {
		loc, ok, err := c.attempt(ctx, strategy, destination)
		if err != nil {
			l.WarnContext(ctx, "Geocoding strategy failed", slog.String("strategy", strategy.Name), slog.Any("error", err))
			continue
		}
		if ok {
			l.InfoContext(ctx, "Geocoded destination",
				slog.String("strategy", strategy.Name),
				slog.Float64("lat", loc.Lat),
				slog.Float64("lng", loc.Lng))
			span.SetAttributes(attribute.String("geocoding.strategy", strategy.Name))
			span.SetStatus(codes.Ok, "Destination resolved")
			return loc, nil
		}
		l.DebugContext(ctx, "Geocoding strategy returned no result", slog.String("strategy", strategy.Name))
	}

	err := &api.NotFoundError{Query: destination}
	span.RecordError(err)
	span.SetStatus(codes.Error, "Destination not resolved")
	return types.Location{}, err
}

func (c *Client) attempt(ctx context.Context, strategy Strategy, destination string) (types.Location, bool, error) {
	if c.cfg.APIKey == "" {
		return types.Location{}, false, upstream.NewUpstreamDataError(Source, 0, upstream.ErrMissingCredentials)
	}

	query := strategy.Query(destination)
	query.Set("key", c.cfg.APIKey)
	query.Set("limit", "1")
	query.Set("no_annotations", "1")

	var resp openCageResponse
	if err := c.http.GetJSON(ctx, Source, c.cfg.BaseURL, query, nil, &resp); err != nil {
		return types.Location{}, false, err
	}
	if len(resp.Results) == 0 {
		return types.Location{}, false, nil
	}

	first := resp.Results[0]
	return types.Location{Lat: first.Geometry.Lat, Lng: first.Geometry.Lng}, true, nil
}
