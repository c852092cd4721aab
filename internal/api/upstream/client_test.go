package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Value string `json:"value"`
}

func TestClient_GetJSON(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "bar", r.URL.Query().Get("foo"))
			assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Write([]byte(`{"value":"hello"}`))
		case "/teapot":
			w.WriteHeader(http.StatusTeapot)
			w.Write([]byte(`{"error":"short and stout"}`))
		case "/garbage":
			w.Write([]byte(`not json`))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"value":"late"}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil, 100*time.Millisecond)
	ctx := context.Background()

	t.Run("success decodes body", func(t *testing.T) {
		var dst samplePayload
		headers := http.Header{"Authorization": []string{"Bearer token"}}
		err := client.GetJSON(ctx, "sample", server.URL+"/ok", url.Values{"foo": {"bar"}}, headers, &dst)
		require.NoError(t, err)
		assert.Equal(t, "hello", dst.Value)
	})

	t.Run("non-2xx is an upstream error with status", func(t *testing.T) {
		var dst samplePayload
		err := client.GetJSON(ctx, "sample", server.URL+"/teapot", nil, nil, &dst)
		var ue *UpstreamDataError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, http.StatusTeapot, ue.Status)
		assert.Equal(t, "sample", ue.Source)
		assert.Contains(t, ue.Error(), "short and stout")
	})

	t.Run("malformed body", func(t *testing.T) {
		var dst samplePayload
		err := client.GetJSON(ctx, "sample", server.URL+"/garbage", nil, nil, &dst)
		var ue *UpstreamDataError
		require.True(t, errors.As(err, &ue))
		assert.Contains(t, ue.Error(), "malformed body")
	})

	t.Run("per-call timeout", func(t *testing.T) {
		var dst samplePayload
		err := client.GetJSON(ctx, "sample", server.URL+"/slow", nil, nil, &dst)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("single attempt per call", func(t *testing.T) {
		before := calls.Load()
		var dst samplePayload
		_ = client.GetJSON(ctx, "sample", server.URL+"/teapot", nil, nil, &dst)
		assert.Equal(t, before+1, calls.Load())
	})
}

func TestProviderLimiter_Wait(t *testing.T) {
	limiter := NewProviderLimiter()
	limiter.SetProviderLimit("slow", 1, 1)
	limiter.SetProviderLimit("free", 0, 0)

	ctx := context.Background()
	require.NoError(t, limiter.Wait(ctx, "slow"))
	require.NoError(t, limiter.Wait(ctx, "free"))
	require.NoError(t, limiter.Wait(ctx, "unknown"))

	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(short, "slow"), "second call inside the same second must wait past the deadline")

	var nilLimiter *ProviderLimiter
	assert.NoError(t, nilLimiter.Wait(ctx, "anything"))
}

func TestResult(t *testing.T) {
	ok := Ok[string](nil)
	assert.NotNil(t, ok.Items)
	assert.False(t, ok.Degraded())

	failed := Empty[int](errors.New("down"))
	assert.Empty(t, failed.Items)
	assert.NotNil(t, failed.Items)
	assert.True(t, failed.Degraded())
}
