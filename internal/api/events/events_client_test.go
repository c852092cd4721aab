package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api/upstream"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newClient(t *testing.T, apiKey string, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	client := NewClient(upstream.NewClient(server.Client(), nil, time.Second), Config{
		BaseURL: server.URL,
		APIKey:  apiKey,
	}, testLogger)
	return client, &calls
}

func validQuery() Query {
	return Query{
		Location:   paris,
		StartDate:  "2024-04-01",
		EndDate:    "2024-04-07",
		Activities: []string{"nightlife"},
	}
}

func TestSearch_PreflightThenSearch(t *testing.T) {
	near := northOf(paris, 3)
	far := northOf(paris, 45)
	payload, err := json.Marshal(map[string]any{
		"count": 2,
		"results": []map[string]any{
			{"id": "a", "title": "Concert A", "category": "concerts", "location": []float64{near.Lng, near.Lat},
				"entities": []map[string]string{{"name": "Olympia", "type": "venue"}}},
			{"id": "b", "title": "Concert B", "category": "concerts", "location": []float64{far.Lng, far.Lat}},
		},
	})
	require.NoError(t, err)

	client, calls := newClient(t, "phq-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer phq-key", r.Header.Get("Authorization"))
		assert.Equal(t, "48.8566,2.3522", r.URL.Query().Get("location_around.origin"))
		assert.Equal(t, "10km", r.URL.Query().Get("location_around.radius"))
		if r.URL.Query().Get("active.gte") == "" {
			w.Write([]byte(`{"count":0,"results":[]}`))
			return
		}
		assert.Equal(t, "2024-04-01", r.URL.Query().Get("active.gte"))
		assert.Equal(t, "2024-04-07", r.URL.Query().Get("active.lte"))
		assert.Equal(t, "concerts,performing-arts", r.URL.Query().Get("category"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "rank", r.URL.Query().Get("sort"))
		w.Write(payload)
	})

	result := client.Search(context.Background(), validQuery())
	require.False(t, result.Degraded())
	require.Len(t, result.Items, 1)
	assert.Equal(t, "a", result.Items[0].ID)
	assert.Equal(t, "Olympia", result.Items[0].Venue.Name)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearch_PreflightFailureSkipsSearch(t *testing.T) {
	client, calls := newClient(t, "phq-key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid token"}`))
	})

	result := client.Search(context.Background(), validQuery())
	assert.True(t, result.Degraded())
	assert.Empty(t, result.Items)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSearch_SearchFailureDegrades(t *testing.T) {
	client, _ := newClient(t, "phq-key", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("active.gte") == "" {
			w.Write([]byte(`{"results":[]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	result := client.Search(context.Background(), validQuery())
	assert.True(t, result.Degraded())
	assert.NotNil(t, result.Items)
}

func TestSearch_ValidationFailuresMakeNoCalls(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		mutate func(q *Query)
	}{
		{"missing key", "", func(q *Query) {}},
		{"NaN latitude", "k", func(q *Query) { q.Location = types.Location{Lat: math.NaN(), Lng: 2} }},
		{"bad start date", "k", func(q *Query) { q.StartDate = "April 1st" }},
		{"bad end date", "k", func(q *Query) { q.EndDate = "2024-13-40" }},
		{"reversed dates", "k", func(q *Query) { q.StartDate, q.EndDate = q.EndDate, q.StartDate }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, calls := newClient(t, tt.apiKey, func(w http.ResponseWriter, r *http.Request) {})
			q := validQuery()
			tt.mutate(&q)

			result := client.Search(context.Background(), q)
			assert.True(t, result.Degraded())
			assert.Empty(t, result.Items)
			assert.Zero(t, calls.Load())
		})
	}
}
