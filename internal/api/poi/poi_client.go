package poi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api/upstream"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

const Source = "foursquare"

var _ Fetcher = (*Client)(nil)

// Fetcher lists places around a location. Failures degrade to an empty result.
type Fetcher interface {
	Nearby(ctx context.Context, loc types.Location) upstream.Result[types.PointOfInterest]
}

type Config struct {
	BaseURL      string
	APIKey       string
	RadiusMeters int
	Limit        int
}

type Client struct {
	http   *upstream.Client
	cfg    Config
	logger *slog.Logger
}

func NewClient(httpClient *upstream.Client, cfg Config, logger *slog.Logger) *Client {
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = 5000
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 50
	}
	return &Client{
		http:   httpClient,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "poi")),
	}
}

func (c *Client) Nearby(ctx context.Context, loc types.Location) upstream.Result[types.PointOfInterest] {
	ctx, span := otel.Tracer("POIFetcher").Start(ctx, "Nearby", trace.WithAttributes(
		attribute.Float64("location.lat", loc.Lat),
		attribute.Float64("location.lng", loc.Lng),
		attribute.Int("poi.radius_m", c.cfg.RadiusMeters),
	))
	defer span.End()

	pois, err := c.nearby(ctx, loc)
	if err != nil {
		c.logger.ErrorContext(ctx, "Error getting POIs", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "places unavailable")
		return upstream.Empty[types.PointOfInterest](err)
	}

	span.SetAttributes(attribute.Int("poi.count", len(pois)))
	span.SetStatus(codes.Ok, "places retrieved")
	return upstream.Ok(pois)
}

func (c *Client) nearby(ctx context.Context, loc types.Location) ([]types.PointOfInterest, error) {
	if c.cfg.APIKey == "" {
		return nil, upstream.NewUpstreamDataError(Source, 0, upstream.ErrMissingCredentials)
	}

	query := url.Values{
		"ll":     {fmt.Sprintf("%s,%s", formatCoord(loc.Lat), formatCoord(loc.Lng))},
		"radius": {strconv.Itoa(c.cfg.RadiusMeters)},
		"limit":  {strconv.Itoa(c.cfg.Limit)},
	}
	// Places v3 takes the raw key, no Bearer scheme.
	headers := http.Header{"Authorization": {c.cfg.APIKey}}

	var resp searchResponse
	if err := c.http.GetJSON(ctx, Source, c.cfg.BaseURL, query, headers, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, upstream.NewUpstreamDataError(Source, 0, fmt.Errorf("malformed body: missing results"))
	}

	pois := make([]types.PointOfInterest, 0, len(resp.Results))
	for _, p := range resp.Results {
		pois = append(pois, p.toPOI())
	}
	return pois, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
