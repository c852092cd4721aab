package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itinerary/config"
)

const DefaultOpenAIModel = "gpt-4"

var _ Client = (*OpenAIClient)(nil)

type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewOpenAIClient(cfg config.LLMConfig, logger *slog.Logger) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: cfg.Timeout,
		logger:  logger.With(slog.String("component", "openai")),
	}
}

func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete sends the prompt as a chat completion. The JSON flag is not
// forwarded: response_format is rejected by older chat models such as gpt-4,
// so JSON-only output is requested through the prompt text instead.
func (c *OpenAIClient) Complete(ctx context.Context, p Prompt) (string, error) {
	model := c.model
	if p.Model != "" {
		model = p.Model
	}

	ctx, span := otel.Tracer("LLM").Start(ctx, "OpenAI.Complete", trace.WithAttributes(
		attribute.String("llm.provider", "openai"),
		attribute.String("llm.model", model),
		attribute.Float64("llm.temperature", float64(p.Temperature)),
	))
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if p.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: p.User})

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: p.Temperature,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		span.RecordError(ErrEmptyCompletion)
		span.SetStatus(codes.Error, "empty completion")
		return "", ErrEmptyCompletion
	}

	c.logger.DebugContext(ctx, "Completion received",
		slog.String("model", model),
		slog.Int("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
		slog.Duration("latency", time.Since(start)))
	span.SetAttributes(attribute.Int("llm.completion_tokens", resp.Usage.CompletionTokens))
	span.SetStatus(codes.Ok, "completion received")
	return resp.Choices[0].Message.Content, nil
}
