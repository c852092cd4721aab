package container

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-itinerary/config"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/cache"
)

func TestNewContainer_MemoryCacheWithoutCredentials(t *testing.T) {
	cfg, err := config.InitConfig()
	require.NoError(t, err)
	cfg.Cache.Backend = "memory"
	cfg.LLM.OpenAIKey = ""
	cfg.LLM.GeminiKey = ""

	c, err := NewContainer(context.Background(), &cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &cache.MemoryStore{}, c.Cache)
	assert.NotNil(t, c.ItineraryHandler)
	assert.NotNil(t, c.ChatHandler)
}

func TestNewContainer_UnknownProvider(t *testing.T) {
	cfg, err := config.InitConfig()
	require.NoError(t, err)
	cfg.LLM.Provider = "anthropic"
	cfg.LLM.OpenAIKey = "sk-test-0123456789"

	_, err = NewContainer(context.Background(), &cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
