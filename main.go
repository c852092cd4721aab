package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	appLogger "github.com/FACorreiaa/go-trip-itinerary/app/logger"
	appMiddleware "github.com/FACorreiaa/go-trip-itinerary/app/middleware"
	"github.com/FACorreiaa/go-trip-itinerary/app/tracer"
	"github.com/FACorreiaa/go-trip-itinerary/config"
	"github.com/FACorreiaa/go-trip-itinerary/internal/container"
	"github.com/FACorreiaa/go-trip-itinerary/internal/router"
)

func main() {
	// --- Initial Loading ---
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	// --- Logger Setup ---
	logger := setupLogger(cfg.Mode)
	slog.SetDefault(logger)

	// --- Application Context & Shutdown ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	if cfg.Observability.MetricsEnabled {
		shutdownTelemetry, err := tracer.InitTracingAndMetrics(cfg.Observability.ServiceName)
		if err != nil {
			logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				logger.Error("Failed to shut down telemetry", slog.Any("error", err))
			}
		}()
	}

	// --- Dependency Injection ---
	c, err := container.NewContainer(ctx, &cfg, &http.Client{}, logger)
	if err != nil {
		logger.Error("Failed to build application container", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      newHTTPHandler(c, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// --- Start Server Goroutine ---
	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	// --- Wait for Shutdown Signal ---
	<-ctx.Done()

	// --- Graceful Shutdown ---
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// newHTTPHandler wraps the application routes in the server-wide middleware stack.
func newHTTPHandler(c *container.Container, logger *slog.Logger) http.Handler {
	cfg := c.Config
	mainRouter := router.SetupRouter(&router.Config{
		ItineraryHandler: c.ItineraryHandler,
		ChatHandler:      c.ChatHandler,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		RateLimit:        cfg.RateLimit.Requests,
		RateWindow:       cfg.RateLimit.Window,
		MetricsEnabled:   cfg.Observability.MetricsEnabled,
	})

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(appMiddleware.ClientIP(cfg.RateLimit.TrustProxyHeaders))
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if cfg.Server.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.Timeout))
	}
	r.Use(middleware.Compress(5, "application/json"))
	r.Mount("/", mainRouter)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Trip itinerary API"))
	})
	return r
}

// setupLogger configures and returns the application logger.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
