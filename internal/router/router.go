package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appMiddleware "github.com/FACorreiaa/go-trip-itinerary/app/middleware"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/chat"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/itinerary"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ItineraryHandler *itinerary.HandlerImpl
	ChatHandler      *chat.HandlerImpl
	AllowedOrigins   []string
	RateLimit        int
	RateWindow       time.Duration
	MetricsEnabled   bool
}

// SetupRouter builds the application routes. Server-wide middleware (request
// id, logging, recoverer) is applied by the caller before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(appMiddleware.RateLimit(cfg.RateLimit, cfg.RateWindow))
		}

		r.With(appMiddleware.RequireJSONBody).Post("/generate-itinerary", cfg.ItineraryHandler.GenerateItinerary)
		r.Delete("/cache", cfg.ItineraryHandler.FlushCache)

		r.Post("/chat", cfg.ChatHandler.Chat)
		r.Get("/test-model", cfg.ChatHandler.TestModel)
	})

	return r
}
