package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/go-trip-itinerary/config"
)

// ErrNoCredentials is returned by New when the selected provider has no usable key.
var ErrNoCredentials = errors.New("no model credentials configured")

// ErrEmptyCompletion is returned when the provider answered without any text.
var ErrEmptyCompletion = errors.New("model returned no content")

// Prompt is one system+user exchange.
type Prompt struct {
	System      string
	User        string
	Temperature float32
	// Model overrides the client's default model when set.
	Model string
	// JSON asks for a JSON-only answer on providers that support it.
	JSON bool
}

// Client is a text-completion backend.
type Client interface {
	Complete(ctx context.Context, p Prompt) (string, error)
	Model() string
}

// New builds the client of the configured provider.
func New(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (Client, error) {
	if !cfg.HasCredentials() {
		return nil, ErrNoCredentials
	}
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		return NewGeminiClient(ctx, cfg, logger)
	case "", "openai":
		return NewOpenAIClient(cfg, logger), nil
	default:
		return nil, errors.New("unknown llm provider: " + cfg.Provider)
	}
}
