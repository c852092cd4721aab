package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api/upstream"
	"github.com/FACorreiaa/go-trip-itinerary/internal/geo"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

const (
	Source = "predicthq"

	dateLayout = "2006-01-02"
)

var _ Fetcher = (*Client)(nil)

// Fetcher searches real events near a location. It never fails: any problem yields an empty, degraded result.
type Fetcher interface {
	Search(ctx context.Context, q Query) upstream.Result[types.Event]
}

type Query struct {
	Location   types.Location
	StartDate  string
	EndDate    string
	Activities []string
}

type Config struct {
	BaseURL        string
	APIKey         string
	SearchRadiusKm int
	MaxDistanceKm  float64
	Limit          int
}

type Client struct {
	http   *upstream.Client
	cfg    Config
	logger *slog.Logger
}

func NewClient(httpClient *upstream.Client, cfg Config, logger *slog.Logger) *Client {
	if cfg.SearchRadiusKm <= 0 {
		cfg.SearchRadiusKm = 10
	}
	if cfg.MaxDistanceKm <= 0 {
		cfg.MaxDistanceKm = 20
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 50
	}
	return &Client{
		http:   httpClient,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "events")),
	}
}

type searchResponse struct {
	Count   int        `json:"count"`
	Results []phqEvent `json:"results"`
}

func (c *Client) Search(ctx context.Context, q Query) upstream.Result[types.Event] {
	ctx, span := otel.Tracer("EventsFetcher").Start(ctx, "Search", trace.WithAttributes(
		attribute.Float64("location.lat", q.Location.Lat),
		attribute.Float64("location.lng", q.Location.Lng),
		attribute.String("events.start", q.StartDate),
		attribute.String("events.end", q.EndDate),
	))
	defer span.End()

	l := c.logger.With(slog.String("start", q.StartDate), slog.String("end", q.EndDate))

	events, err := c.search(ctx, l, q)
	if err != nil {
		l.ErrorContext(ctx, "Error getting events", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "events unavailable")
		return upstream.Empty[types.Event](err)
	}

	span.SetAttributes(attribute.Int("events.count", len(events)))
	span.SetStatus(codes.Ok, "events retrieved")
	return upstream.Ok(events)
}

func (c *Client) search(ctx context.Context, l *slog.Logger, q Query) ([]types.Event, error) {
	start, end, err := c.validate(q)
	if err != nil {
		return nil, err
	}

	categories := CategoriesFor(q.Activities)
	l.DebugContext(ctx, "Using event categories", slog.Any("categories", categories))

	origin := fmt.Sprintf("%s,%s", formatCoord(q.Location.Lat), formatCoord(q.Location.Lng))
	radius := strconv.Itoa(c.cfg.SearchRadiusKm) + "km"
	headers := http.Header{"Authorization": {"Bearer " + c.cfg.APIKey}}

	// preflight: a failing account or key aborts before the heavier search
	preflight := url.Values{
		"location_around.origin": {origin},
		"location_around.radius": {radius},
		"limit":                  {"1"},
	}
	var preflightResp searchResponse
	if err := c.http.GetJSON(ctx, Source, c.cfg.BaseURL, preflight, headers, &preflightResp); err != nil {
		return nil, fmt.Errorf("events preflight failed: %w", err)
	}

	query := url.Values{
		"location_around.origin": {origin},
		"location_around.radius": {radius},
		"active.gte":             {start.Format(dateLayout)},
		"active.lte":             {end.Format(dateLayout)},
		"category":               {strings.Join(categories, ",")},
		"limit":                  {strconv.Itoa(c.cfg.Limit)},
		"sort":                   {"rank"},
	}
	var resp searchResponse
	if err := c.http.GetJSON(ctx, Source, c.cfg.BaseURL, query, headers, &resp); err != nil {
		return nil, err
	}
	l.DebugContext(ctx, "Found events", slog.Int("count", len(resp.Results)))

	events := filterNearby(q.Location, resp.Results, c.cfg.MaxDistanceKm)
	l.DebugContext(ctx, "After distance filtering", slog.Int("count", len(events)))
	return events, nil
}

func (c *Client) validate(q Query) (time.Time, time.Time, error) {
	if c.cfg.APIKey == "" {
		return time.Time{}, time.Time{}, upstream.NewUpstreamDataError(Source, 0, upstream.ErrMissingCredentials)
	}
	if !geo.Valid(q.Location) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid location coordinates: %+v", q.Location)
	}
	start, err := time.Parse(dateLayout, q.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", q.StartDate, err)
	}
	end, err := time.Parse(dateLayout, q.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", q.EndDate, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end date before start date")
	}
	return start, end, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
