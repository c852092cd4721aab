package itinerary

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// GenerateItinerary handles POST /api/generate-itinerary.
func (h *HandlerImpl) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/generate-itinerary"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateItinerary"))
	l.DebugContext(ctx, "Generate itinerary handler invoked")

	var req types.ItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request body")
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	span.SetAttributes(attribute.String("destination", req.Destination))

	resp, err := h.service.Generate(ctx, req)
	if err != nil {
		err = classify(err)
		status := api.StatusFor(err)
		if status >= http.StatusInternalServerError {
			l.ErrorContext(ctx, "Error generating itinerary", slog.Any("error", err))
		} else {
			l.WarnContext(ctx, "Itinerary request rejected", slog.Any("error", err), slog.Int("status", status))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		api.WriteError(w, r, err)
		return
	}

	span.SetAttributes(attribute.Bool("from_cache", resp.FromCache))
	span.SetStatus(codes.Ok, "itinerary returned")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// FlushCache handles DELETE /api/cache.
func (h *HandlerImpl) FlushCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "FlushCache", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/cache"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "FlushCache"))

	if err := h.service.FlushCache(ctx); err != nil {
		l.ErrorContext(ctx, "Failed to flush cache", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "flush failed")
		api.ErrorResponseWithDetails(w, r, http.StatusInternalServerError, "Failed to flush cache", err.Error())
		return
	}

	span.SetStatus(codes.Ok, "cache flushed")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// classify wraps errors outside the known taxonomy so they surface as
// "Failed to generate itinerary" with the cause as details.
func classify(err error) error {
	var ve *api.ValidationError
	var nf *api.NotFoundError
	var ge *api.GenerationError
	var rl *api.RateLimitError
	var ue *api.UnexpectedError
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &ge) || errors.As(err, &rl) || errors.As(err, &ue) {
		return err
	}
	return &api.UnexpectedError{Message: generationFailedMessage, Err: err}
}
