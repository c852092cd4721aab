package metrics

import (
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "TripItinerary"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ItineraryRequestsTotal    metric.Int64Counter
	ItineraryDurationSeconds  metric.Float64Histogram
	CacheHitsTotal            metric.Int64Counter
	CacheMissesTotal          metric.Int64Counter
	UpstreamDegradedTotal     metric.Int64Counter
	GenerationDurationSeconds metric.Float64Histogram
	DaysWithoutRealEvent      metric.Int64Counter
	ChatRequestsTotal         metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// New creates the instruments on meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	if m.ItineraryRequestsTotal, err = meter.Int64Counter(
		"itinerary_requests_total",
		metric.WithDescription("Itinerary generation requests by outcome"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("itinerary_requests_total: %w", err)
	}

	if m.ItineraryDurationSeconds, err = meter.Float64Histogram(
		"itinerary_duration_seconds",
		metric.WithDescription("End-to-end duration of itinerary requests"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("itinerary_duration_seconds: %w", err)
	}

	if m.CacheHitsTotal, err = meter.Int64Counter(
		"itinerary_cache_hits_total",
		metric.WithDescription("Requests served from the response cache"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("itinerary_cache_hits_total: %w", err)
	}

	if m.CacheMissesTotal, err = meter.Int64Counter(
		"itinerary_cache_misses_total",
		metric.WithDescription("Requests that ran the full pipeline"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("itinerary_cache_misses_total: %w", err)
	}

	if m.UpstreamDegradedTotal, err = meter.Int64Counter(
		"upstream_degraded_total",
		metric.WithDescription("Data fetches that fell back to an empty result, by source"),
		metric.WithUnit("{fetch}"),
	); err != nil {
		return nil, fmt.Errorf("upstream_degraded_total: %w", err)
	}

	if m.GenerationDurationSeconds, err = meter.Float64Histogram(
		"itinerary_generation_duration_seconds",
		metric.WithDescription("Duration of the model call that synthesizes the itinerary"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("itinerary_generation_duration_seconds: %w", err)
	}

	if m.DaysWithoutRealEvent, err = meter.Int64Counter(
		"itinerary_days_without_real_event_total",
		metric.WithDescription("Generated days with no real event although one was available that date"),
		metric.WithUnit("{day}"),
	); err != nil {
		return nil, fmt.Errorf("itinerary_days_without_real_event_total: %w", err)
	}

	if m.ChatRequestsTotal, err = meter.Int64Counter(
		"chat_requests_total",
		metric.WithDescription("Chat requests by answer mode"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("chat_requests_total: %w", err)
	}

	return m, nil
}

// InitAppMetrics initializes the global instruments once, on the meter of the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		m, err := New(otel.GetMeterProvider().Meter(meterName))
		if err != nil {
			log.Fatalf("Metrics: %v", err)
		}
		appMetrics = m
	})
}

// Get returns the global instruments. Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
