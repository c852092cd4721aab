package container

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	database "github.com/FACorreiaa/go-trip-itinerary/app/db"
	"github.com/FACorreiaa/go-trip-itinerary/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-itinerary/config"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/cache"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/chat"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/events"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/geocoding"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/llm"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/poi"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/upstream"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/weather"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Cache            cache.Store
	ItineraryService *itinerary.ServiceImpl
	ItineraryHandler *itinerary.HandlerImpl
	ChatHandler      *chat.HandlerImpl
}

// NewContainer builds clients, the response cache, services and handlers from cfg.
// httpClient is shared by every third-party data source; nil gets a default client.
func NewContainer(ctx context.Context, cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (*Container, error) {
	metrics.InitAppMetrics()
	m := metrics.Get()

	limiter := upstream.NewProviderLimiter()
	limiter.SetProviderLimit(geocoding.Source, cfg.Upstream.Geocoding.RequestsPerSecond, cfg.Upstream.Geocoding.Burst)
	limiter.SetProviderLimit(weather.Source, cfg.Upstream.Weather.RequestsPerSecond, cfg.Upstream.Weather.Burst)
	limiter.SetProviderLimit(events.Source, cfg.Upstream.Events.RequestsPerSecond, cfg.Upstream.Events.Burst)
	limiter.SetProviderLimit(poi.Source, cfg.Upstream.Places.RequestsPerSecond, cfg.Upstream.Places.Burst)
	client := upstream.NewClient(httpClient, limiter, cfg.Upstream.Timeout)

	geocoder := geocoding.NewClient(client, geocoding.Config{
		BaseURL:      cfg.Upstream.Geocoding.BaseURL,
		APIKey:       cfg.Upstream.Geocoding.APIKey,
		CountryCodes: cfg.Upstream.Geocoding.CountryCodes,
	}, logger)
	weatherFetcher := weather.NewClient(client, weather.Config{
		BaseURL:      cfg.Upstream.Weather.BaseURL,
		APIKey:       cfg.Upstream.Weather.APIKey,
		ForecastDays: cfg.Upstream.Weather.ForecastDays,
	}, logger)
	eventsFetcher := events.NewClient(client, events.Config{
		BaseURL:        cfg.Upstream.Events.BaseURL,
		APIKey:         cfg.Upstream.Events.APIKey,
		SearchRadiusKm: cfg.Upstream.Events.SearchRadiusKm,
		MaxDistanceKm:  cfg.Upstream.Events.MaxDistanceKm,
		Limit:          cfg.Upstream.Events.Limit,
	}, logger)
	poiFetcher := poi.NewClient(client, poi.Config{
		BaseURL:      cfg.Upstream.Places.BaseURL,
		APIKey:       cfg.Upstream.Places.APIKey,
		RadiusMeters: cfg.Upstream.Places.RadiusMeters,
		Limit:        cfg.Upstream.Places.Limit,
	}, logger)

	model, err := llm.New(ctx, cfg.LLM, logger)
	switch {
	case errors.Is(err, llm.ErrNoCredentials):
		logger.Warn("No model credentials configured: itinerary generation is disabled and chat runs in demo mode",
			slog.String("provider", cfg.LLM.Provider))
		model = nil
	case err != nil:
		return nil, err
	}

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	synthesizer := itinerary.NewSynthesizer(model, cfg.LLM.Temperature, m, logger)
	itineraryService := itinerary.NewServiceImpl(geocoder, weatherFetcher, eventsFetcher, poiFetcher, synthesizer, store, m, logger)
	chatService := chat.NewServiceImpl(model, cfg.LLM.ChatModel, m, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Cache:            store,
		ItineraryService: itineraryService,
		ItineraryHandler: itinerary.NewHandlerImpl(itineraryService, logger),
		ChatHandler:      chat.NewHandlerImpl(chatService, logger),
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Store, error) {
	switch strings.ToLower(cfg.Cache.Backend) {
	case "postgres":
		pool, err := database.Open(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Using postgres response cache", slog.String("host", cfg.Cache.Postgres.Host))
		return cache.NewPostgresStore(pool, cfg.Cache.TTL, logger), nil
	case "redis":
		store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:      cfg.Cache.Redis.Addr,
			Password:  cfg.Cache.Redis.Password,
			DB:        cfg.Cache.Redis.DB,
			KeyPrefix: cfg.Cache.Redis.KeyPrefix,
			TTL:       cfg.Cache.TTL,
		}, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Using redis response cache", slog.String("addr", cfg.Cache.Redis.Addr))
		return store, nil
	}
	logger.Info("Using in-memory response cache", slog.Duration("ttl", cfg.Cache.TTL))
	return cache.NewMemoryStore(cfg.Cache.TTL), nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Error("Failed to close cache", slog.Any("error", err))
		}
	}
}
