package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-itinerary/config"
)

const DefaultGeminiModel = "gemini-2.0-flash"

var _ Client = (*GeminiClient)(nil)

type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*GeminiClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	// the shared config defaults to OpenAI model names
	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "gpt") {
		model = DefaultGeminiModel
	}
	return &GeminiClient{
		client:  client,
		model:   model,
		timeout: cfg.Timeout,
		logger:  logger.With(slog.String("component", "gemini")),
	}, nil
}

func (c *GeminiClient) Model() string {
	return c.model
}

func (c *GeminiClient) Complete(ctx context.Context, p Prompt) (string, error) {
	model := c.model
	if p.Model != "" && !strings.HasPrefix(p.Model, "gpt") {
		model = p.Model
	}

	ctx, span := otel.Tracer("LLM").Start(ctx, "Gemini.Complete", trace.WithAttributes(
		attribute.String("llm.provider", "gemini"),
		attribute.String("llm.model", model),
		attribute.Float64("llm.temperature", float64(p.Temperature)),
	))
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{}
	if p.Temperature > 0 {
		cfg.Temperature = genai.Ptr[float32](p.Temperature)
	}
	if p.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: p.System}}}
	}
	if p.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, model, genai.Text(p.User), cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := result.Text()
	if text == "" {
		span.RecordError(ErrEmptyCompletion)
		span.SetStatus(codes.Error, "empty completion")
		return "", ErrEmptyCompletion
	}

	c.logger.DebugContext(ctx, "Completion received",
		slog.String("model", model),
		slog.Int("chars", len(text)),
		slog.Duration("latency", time.Since(start)))
	span.SetStatus(codes.Ok, "completion received")
	return text, nil
}
