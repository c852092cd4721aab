package itinerary

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-trip-itinerary/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/cache"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/events"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/geocoding"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/poi"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/upstream"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/weather"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service runs the itinerary pipeline.
type Service interface {
	Generate(ctx context.Context, req types.ItineraryRequest) (*types.ItineraryResponse, error)
	FlushCache(ctx context.Context) error
}

type ServiceImpl struct {
	geocoder    geocoding.Geocoder
	weather     weather.Fetcher
	events      events.Fetcher
	pois        poi.Fetcher
	synthesizer Synthesizer
	cache       cache.Store
	inflight    singleflight.Group
	metrics     *metrics.AppMetrics
	logger      *slog.Logger
}

func NewServiceImpl(
	geocoder geocoding.Geocoder,
	weatherFetcher weather.Fetcher,
	eventsFetcher events.Fetcher,
	poiFetcher poi.Fetcher,
	synthesizer Synthesizer,
	store cache.Store,
	m *metrics.AppMetrics,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		geocoder:    geocoder,
		weather:     weatherFetcher,
		events:      eventsFetcher,
		pois:        poiFetcher,
		synthesizer: synthesizer,
		cache:       store,
		metrics:     m,
		logger:      logger,
	}
}

// Generate validates req, serves it from the cache when possible and otherwise
// geocodes, gathers weather, events and places in parallel, synthesizes the
// itinerary and stores the result. Concurrent requests with the same
// fingerprint share one pipeline run.
func (s *ServiceImpl) Generate(ctx context.Context, req types.ItineraryRequest) (*types.ItineraryResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("destination", req.Destination),
		attribute.String("trip.start", req.StartDate),
		attribute.String("trip.end", req.EndDate),
		attribute.Bool("force_refresh", req.ForceRefresh),
	))
	defer span.End()

	started := time.Now()
	outcome := "error"
	defer func() {
		attrs := metric.WithAttributes(attribute.String("outcome", outcome))
		s.metrics.ItineraryRequestsTotal.Add(ctx, 1, attrs)
		s.metrics.ItineraryDurationSeconds.Record(ctx, time.Since(started).Seconds(), attrs)
	}()

	start, end, err := ValidateRequest(req)
	if err != nil {
		outcome = "invalid"
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}

	key := cache.Fingerprint(req)
	l := s.logger.With(slog.String("destination", req.Destination), slog.String("fingerprint", key[:12]))
	span.SetAttributes(attribute.String("cache.key", key))

	if !req.ForceRefresh {
		if entry, ok := s.cache.Get(ctx, key); ok {
			s.metrics.CacheHitsTotal.Add(ctx, 1)
			l.InfoContext(ctx, "Using cached itinerary result")
			outcome = "cache_hit"
			span.SetAttributes(attribute.Bool("cache.hit", true))
			span.SetStatus(codes.Ok, "served from cache")
			resp := entry.Payload
			resp.FromCache = true
			return &resp, nil
		}
	}
	s.metrics.CacheMissesTotal.Add(ctx, 1)
	span.SetAttributes(attribute.Bool("cache.hit", false))

	// the shared run outlives any single caller: a disconnect does not abort it
	runCtx := context.WithoutCancel(ctx)
	v, err, shared := s.inflight.Do(key, func() (any, error) {
		return s.run(runCtx, l, req, TripDuration(start, end), key)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pipeline failed")
		return nil, err
	}
	if shared {
		l.DebugContext(ctx, "Joined in-flight generation")
	}

	outcome = "generated"
	span.SetStatus(codes.Ok, "itinerary generated")
	resp := *v.(*types.ItineraryResponse)
	resp.FromCache = false
	return &resp, nil
}

func (s *ServiceImpl) run(ctx context.Context, l *slog.Logger, req types.ItineraryRequest, days int, key string) (*types.ItineraryResponse, error) {
	destination := strings.TrimSpace(req.Destination)

	location, err := s.geocoder.Geocode(ctx, destination)
	if err != nil {
		l.WarnContext(ctx, "Could not geocode destination", slog.Any("error", err))
		return nil, err
	}

	weatherDays, eventList, places := s.gather(ctx, l, req, location)
	places = topPOIs(places, MaxPromptPOIs)

	itinerary, err := s.synthesizer.Synthesize(ctx, SynthesisInput{
		Request: req,
		Days:    days,
		Weather: weatherDays,
		Events:  eventList,
		POIs:    places,
	})
	if err != nil {
		return nil, err
	}

	resp := &types.ItineraryResponse{
		Destination:      req.Destination,
		Coordinates:      location,
		Dates:            types.TripDates{Start: req.StartDate, End: req.EndDate},
		Itinerary:        *itinerary,
		Weather:          weatherDays,
		Events:           eventList,
		PointsOfInterest: places,
	}

	if err := s.cache.Set(ctx, key, *resp); err != nil {
		l.ErrorContext(ctx, "Failed to store itinerary in cache", slog.Any("error", err))
	}
	l.InfoContext(ctx, "Itinerary generated",
		slog.Int("days", len(itinerary.Days)),
		slog.Int("events", len(eventList)),
		slog.Int("pois", len(places)))
	return resp, nil
}

// gather fetches the auxiliary data concurrently. Fetchers are best-effort and
// never return an error, so all three always complete before synthesis.
func (s *ServiceImpl) gather(ctx context.Context, l *slog.Logger, req types.ItineraryRequest, loc types.Location) ([]types.WeatherDay, []types.Event, []types.PointOfInterest) {
	var (
		weatherRes upstream.Result[types.WeatherDay]
		eventsRes  upstream.Result[types.Event]
		poiRes     upstream.Result[types.PointOfInterest]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		weatherRes = s.weather.Forecast(gctx, loc)
		return nil
	})
	g.Go(func() error {
		eventsRes = s.events.Search(gctx, events.Query{
			Location:   loc,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			Activities: req.Activities,
		})
		return nil
	})
	g.Go(func() error {
		poiRes = s.pois.Nearby(gctx, loc)
		return nil
	})
	_ = g.Wait()

	s.recordDegraded(ctx, l, weather.Source, weatherRes.Err)
	s.recordDegraded(ctx, l, events.Source, eventsRes.Err)
	s.recordDegraded(ctx, l, poi.Source, poiRes.Err)

	return nonNil(weatherRes.Items), nonNil(eventsRes.Items), nonNil(poiRes.Items)
}

func (s *ServiceImpl) recordDegraded(ctx context.Context, l *slog.Logger, source string, err error) {
	if err == nil {
		return
	}
	l.WarnContext(ctx, "Continuing without upstream data", slog.String("source", source), slog.Any("error", err))
	s.metrics.UpstreamDegradedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (s *ServiceImpl) FlushCache(ctx context.Context) error {
	if err := s.cache.Flush(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to flush cache", slog.Any("error", err))
		return err
	}
	s.logger.InfoContext(ctx, "Itinerary cache flushed")
	return nil
}
