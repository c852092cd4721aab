package chat

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itinerary/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/llm"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

const (
	DemoPrefix     = "[DEMO MODE] "
	FallbackPrefix = "[FALLBACK MODE] "

	assistantPrompt = "You are a knowledgeable travel assistant. Provide helpful, accurate, and engaging travel advice. Focus on practical recommendations, local insights, and personalized suggestions."
)

var sampleResponses = []string{
	"I'd be happy to help you plan your trip! Based on your interests, I recommend visiting during the shoulder season (April-May or September-October) when there are fewer tourists but the weather is still pleasant.",
	"That's a great destination choice! For accommodations, I suggest staying in the central district where you'll have easy access to major attractions. The public transportation there is excellent and will save you money on taxis.",
	"When visiting that region, don't miss the local cuisine! The street food markets offer authentic dishes at reasonable prices. I particularly recommend trying the regional specialties like the local seafood dishes and traditional desserts.",
	"For a family-friendly vacation, consider destinations with a mix of educational and fun activities. Many museums offer interactive exhibits for children, and beach destinations often have kid-friendly resorts with dedicated activity programs.",
	"If you're traveling on a budget, I recommend booking accommodations with kitchen facilities so you can prepare some of your meals. Also, look into city passes that bundle attractions for a discounted price, and consider free activities like hiking, visiting public parks, or self-guided walking tours.",
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	// Reply never fails: without a model, or when the model errors, a canned answer is returned.
	Reply(ctx context.Context, message string) types.ChatResponse
	CheckModel(ctx context.Context) (types.ModelCheckResponse, error)
}

type ServiceImpl struct {
	client    llm.Client
	chatModel string
	pick      func(n int) int
	metrics   *metrics.AppMetrics
	logger    *slog.Logger
}

// NewServiceImpl builds the chat service. A nil client puts it in demo mode.
func NewServiceImpl(client llm.Client, chatModel string, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		client:    client,
		chatModel: chatModel,
		pick:      rand.IntN,
		metrics:   m,
		logger:    logger,
	}
}

func (s *ServiceImpl) DemoMode() bool {
	return s.client == nil
}

func (s *ServiceImpl) sample() string {
	return sampleResponses[s.pick(len(sampleResponses))]
}

func (s *ServiceImpl) Reply(ctx context.Context, message string) types.ChatResponse {
	chatID := uuid.New()
	ctx, span := otel.Tracer("ChatService").Start(ctx, "Reply", trace.WithAttributes(
		attribute.String("chat.id", chatID.String()),
		attribute.Int("chat.message_length", len(message)),
	))
	defer span.End()

	l := s.logger.With(slog.String("chat_id", chatID.String()))

	if s.DemoMode() {
		l.InfoContext(ctx, "Using demo mode: model credentials not configured")
		s.count(ctx, "demo")
		span.SetAttributes(attribute.String("chat.mode", "demo"))
		return types.ChatResponse{Response: DemoPrefix + s.sample(), Success: true}
	}

	answer, err := s.client.Complete(ctx, llm.Prompt{
		System: assistantPrompt,
		User:   message,
		Model:  s.chatModel,
	})
	if err != nil || strings.TrimSpace(answer) == "" {
		l.ErrorContext(ctx, "Chat completion failed, using fallback", slog.Any("error", err))
		if err != nil {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "fallback answer")
		s.count(ctx, "fallback")
		return types.ChatResponse{Response: FallbackPrefix + s.sample(), Success: true}
	}

	s.count(ctx, "model")
	span.SetStatus(codes.Ok, "model answer")
	return types.ChatResponse{Response: answer, Success: true}
}

func (s *ServiceImpl) count(ctx context.Context, mode string) {
	s.metrics.ChatRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
}

// CheckModel sends a trivial prompt to check the model is reachable with the configured credentials.
func (s *ServiceImpl) CheckModel(ctx context.Context) (types.ModelCheckResponse, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "CheckModel")
	defer span.End()

	if s.DemoMode() {
		span.RecordError(llm.ErrNoCredentials)
		span.SetStatus(codes.Error, "no credentials")
		return types.ModelCheckResponse{Success: false, Error: llm.ErrNoCredentials.Error()}, llm.ErrNoCredentials
	}

	answer, err := s.client.Complete(ctx, llm.Prompt{
		System: "You are a helpful assistant.",
		User:   "Say hello world!",
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error testing model API", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "model check failed")
		return types.ModelCheckResponse{Success: false, Error: err.Error()}, err
	}

	span.SetStatus(codes.Ok, "model check succeeded")
	return types.ModelCheckResponse{Success: true, Response: answer, Model: s.client.Model()}, nil
}
