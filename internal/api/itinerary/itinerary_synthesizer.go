package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itinerary/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/llm"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

const (
	DefaultTemperature = 0.7

	generationFailedMessage = "Failed to generate itinerary"
)

var errNoDays = errors.New("model returned an itinerary without days")

var _ Synthesizer = (*SynthesizerImpl)(nil)

// SynthesisInput is everything the model sees about a trip.
type SynthesisInput struct {
	Request types.ItineraryRequest
	Days    int
	Weather []types.WeatherDay
	Events  []types.Event
	POIs    []types.PointOfInterest
}

// Synthesizer turns aggregated trip data into a structured itinerary.
// Unlike the data fetchers it is not best-effort: any failure is a *api.GenerationError.
type Synthesizer interface {
	Synthesize(ctx context.Context, in SynthesisInput) (*types.GeneratedItinerary, error)
}

type SynthesizerImpl struct {
	client      llm.Client
	temperature float32
	metrics     *metrics.AppMetrics
	logger      *slog.Logger
}

func NewSynthesizer(client llm.Client, temperature float32, m *metrics.AppMetrics, logger *slog.Logger) *SynthesizerImpl {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	return &SynthesizerImpl{
		client:      client,
		temperature: temperature,
		metrics:     m,
		logger:      logger.With(slog.String("component", "synthesizer")),
	}
}

func (s *SynthesizerImpl) Synthesize(ctx context.Context, in SynthesisInput) (*types.GeneratedItinerary, error) {
	ctx, span := otel.Tracer("ItinerarySynthesizer").Start(ctx, "Synthesize", trace.WithAttributes(
		attribute.String("destination", in.Request.Destination),
		attribute.Int("trip.days", in.Days),
		attribute.Int("input.events", len(in.Events)),
		attribute.Int("input.pois", len(in.POIs)),
	))
	defer span.End()

	l := s.logger.With(slog.String("destination", in.Request.Destination))

	if s.client == nil {
		err := api.NewGenerationError(generationFailedMessage, llm.ErrNoCredentials)
		span.RecordError(err)
		span.SetStatus(codes.Error, "no model client")
		return nil, err
	}

	prompt := buildPrompt(in, s.temperature)

	start := time.Now()
	raw, err := s.client.Complete(ctx, prompt)
	s.metrics.GenerationDurationSeconds.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("model", s.client.Model())))
	if err != nil {
		l.ErrorContext(ctx, "Model call failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		return nil, api.NewGenerationError(generationFailedMessage, err)
	}

	itinerary, err := parseItinerary(raw)
	if err != nil {
		l.ErrorContext(ctx, "Unusable model output", slog.Any("error", err), slog.Int("raw_length", len(raw)))
		span.RecordError(err)
		span.SetStatus(codes.Error, "unusable model output")
		return nil, api.NewGenerationError(generationFailedMessage, err)
	}

	if len(itinerary.Days) != in.Days {
		l.WarnContext(ctx, "Itinerary day count differs from trip duration",
			slog.Int("expected", in.Days), slog.Int("got", len(itinerary.Days)))
	}

	if missing := reconcileRealEvents(itinerary, in.Events); len(missing) > 0 {
		l.WarnContext(ctx, "Days without a real event although one was available", slog.Any("dates", missing))
		s.metrics.DaysWithoutRealEvent.Add(ctx, int64(len(missing)))
		span.SetAttributes(attribute.Int("itinerary.days_without_real_event", len(missing)))
	}

	span.SetAttributes(attribute.Int("itinerary.days", len(itinerary.Days)))
	span.SetStatus(codes.Ok, "itinerary generated")
	return itinerary, nil
}

// parseItinerary strictly decodes the model text. Code fences and prose around
// the JSON object are tolerated; anything that is not an object with days is not.
func parseItinerary(raw string) (*types.GeneratedItinerary, error) {
	cleaned := cleanJSONResponse(raw)

	var itinerary types.GeneratedItinerary
	if err := json.Unmarshal([]byte(cleaned), &itinerary); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	if len(itinerary.Days) == 0 {
		return nil, errNoDays
	}

	if itinerary.Tips == nil {
		itinerary.Tips = []string{}
	}
	for i := range itinerary.Days {
		if itinerary.Days[i].Activities == nil {
			itinerary.Days[i].Activities = []types.Activity{}
		}
	}
	return &itinerary, nil
}

func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	// keep only the outermost object when the model wrapped it in prose
	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}
	lastBrace := strings.LastIndex(response, "}")
	if lastBrace <= firstBrace {
		return response
	}
	return strings.TrimSpace(response[firstBrace : lastBrace+1])
}

// reconcileRealEvents marks activities whose title names an aggregated event
// as real, then returns the dates of days that have no real activity although
// some event runs on that date.
func reconcileRealEvents(itinerary *types.GeneratedItinerary, events []types.Event) []string {
	if len(events) == 0 {
		return nil
	}

	var missing []string
	for d := range itinerary.Days {
		day := &itinerary.Days[d]
		hasReal := false
		for a := range day.Activities {
			act := &day.Activities[a]
			if !act.IsRealEvent && matchesEvent(act.Title, events) {
				act.IsRealEvent = true
			}
			hasReal = hasReal || act.IsRealEvent
		}
		if !hasReal && eventOn(day.Date, events) {
			missing = append(missing, day.Date)
		}
	}
	return missing
}

func matchesEvent(title string, events []types.Event) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return false
	}
	for _, e := range events {
		et := strings.ToLower(strings.TrimSpace(e.Title))
		if et != "" && strings.Contains(t, et) {
			return true
		}
	}
	return false
}

// eventOn reports whether any event is active on date (YYYY-MM-DD).
// Timestamps are compared by their calendar-date prefix.
func eventOn(date string, events []types.Event) bool {
	if len(date) < len(DateLayout) {
		return false
	}
	date = date[:len(DateLayout)]
	for _, e := range events {
		start := datePrefix(e.Start)
		if start == "" {
			continue
		}
		end := datePrefix(e.End)
		if end == "" {
			end = start
		}
		if start <= date && date <= end {
			return true
		}
	}
	return false
}

func datePrefix(ts string) string {
	if len(ts) < len(DateLayout) {
		return ""
	}
	return ts[:len(DateLayout)]
}
