package weather

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api/upstream"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

const (
	Source = "weatherapi"

	// DefaultForecastDays is the horizon requested regardless of trip length.
	DefaultForecastDays = 14
)

var _ Fetcher = (*Client)(nil)

// Fetcher returns a daily forecast. It never fails: a broken source yields an empty, degraded result.
type Fetcher interface {
	Forecast(ctx context.Context, loc types.Location) upstream.Result[types.WeatherDay]
}

type Config struct {
	BaseURL      string
	APIKey       string
	ForecastDays int
}

type Client struct {
	http   *upstream.Client
	cfg    Config
	logger *slog.Logger
}

func NewClient(httpClient *upstream.Client, cfg Config, logger *slog.Logger) *Client {
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = DefaultForecastDays
	}
	return &Client{
		http:   httpClient,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "weather")),
	}
}

type forecastResponse struct {
	Forecast *struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC  float64 `json:"maxtemp_c"`
				MinTempC  float64 `json:"mintemp_c"`
				Condition struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (c *Client) Forecast(ctx context.Context, loc types.Location) upstream.Result[types.WeatherDay] {
	ctx, span := otel.Tracer("WeatherFetcher").Start(ctx, "Forecast", trace.WithAttributes(
		attribute.Float64("location.lat", loc.Lat),
		attribute.Float64("location.lng", loc.Lng),
	))
	defer span.End()

	days, err := c.forecast(ctx, loc)
	if err != nil {
		c.logger.ErrorContext(ctx, "Error getting weather", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "weather unavailable")
		return upstream.Empty[types.WeatherDay](err)
	}

	span.SetAttributes(attribute.Int("weather.days", len(days)))
	span.SetStatus(codes.Ok, "forecast retrieved")
	return upstream.Ok(days)
}

func (c *Client) forecast(ctx context.Context, loc types.Location) ([]types.WeatherDay, error) {
	if c.cfg.APIKey == "" {
		return nil, upstream.NewUpstreamDataError(Source, 0, upstream.ErrMissingCredentials)
	}

	query := url.Values{
		"key":  {c.cfg.APIKey},
		"q":    {fmt.Sprintf("%s,%s", formatCoord(loc.Lat), formatCoord(loc.Lng))},
		"days": {strconv.Itoa(c.cfg.ForecastDays)},
	}

	var resp forecastResponse
	if err := c.http.GetJSON(ctx, Source, c.cfg.BaseURL, query, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Forecast == nil {
		return nil, upstream.NewUpstreamDataError(Source, 0, fmt.Errorf("malformed body: missing forecast"))
	}

	days := make([]types.WeatherDay, 0, len(resp.Forecast.ForecastDay))
	for _, fd := range resp.Forecast.ForecastDay {
		days = append(days, types.WeatherDay{
			Date:      fd.Date,
			MaxTemp:   fd.Day.MaxTempC,
			MinTemp:   fd.Day.MinTempC,
			Condition: fd.Day.Condition.Text,
		})
	}
	return days, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
