package geocoding

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/upstream"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordedQuery struct {
	q           string
	countryCode string
	typ         string
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recordedQuery) {
	t.Helper()
	var mu sync.Mutex
	var queries []recordedQuery
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, recordedQuery{
			q:           r.URL.Query().Get("q"),
			countryCode: r.URL.Query().Get("countrycode"),
			typ:         r.URL.Query().Get("type"),
		})
		mu.Unlock()
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	httpClient := upstream.NewClient(server.Client(), nil, time.Second)
	client := NewClient(httpClient, Config{
		BaseURL:      server.URL,
		APIKey:       "test-key",
		CountryCodes: []string{"ng", "gh", "eg", "ke", "za"},
	}, testLogger)
	return client, &queries
}

const parisResult = `{"results":[{"formatted":"Paris, France","confidence":7,"geometry":{"lat":48.8566,"lng":2.3522}}]}`

func TestGeocode_FirstStrategyWins(t *testing.T) {
	client, queries := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(parisResult))
	})

	loc, err := client.Geocode(context.Background(), "Paris, France")
	require.NoError(t, err)
	assert.InDelta(t, 48.8566, loc.Lat, 1e-9)
	assert.InDelta(t, 2.3522, loc.Lng, 1e-9)
	require.Len(t, *queries, 1)
	assert.Equal(t, "Paris, France", (*queries)[0].q)
}

func TestGeocode_FallsThroughStrategies(t *testing.T) {
	client, queries := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("countrycode") != "":
			w.Write([]byte(`{"results":[{"geometry":{"lat":6.5244,"lng":3.3792}}]}`))
		case r.URL.Query().Get("q") == "Lagos city":
			// errors count as "no result"
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.Write([]byte(`{"results":[]}`))
		}
	})

	loc, err := client.Geocode(context.Background(), "Lagos")
	require.NoError(t, err)
	assert.InDelta(t, 6.5244, loc.Lat, 1e-9)

	require.Len(t, *queries, 3)
	assert.Equal(t, "Lagos", (*queries)[0].q)
	assert.Equal(t, "Lagos city", (*queries)[1].q)
	assert.Equal(t, "ng,gh,eg,ke,za", (*queries)[2].countryCode)
	assert.Equal(t, "city", (*queries)[2].typ)
}

func TestGeocode_NotFound(t *testing.T) {
	client, queries := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})

	_, err := client.Geocode(context.Background(), "Qwxyz123NotAPlace")
	var nf *api.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Location not found: Qwxyz123NotAPlace", err.Error())
	assert.Len(t, *queries, 3)
}

func TestGeocode_MissingCredentials(t *testing.T) {
	client := NewClient(upstream.NewClient(nil, nil, time.Second), Config{BaseURL: "http://127.0.0.1:0"}, testLogger)

	_, err := client.Geocode(context.Background(), "Paris")
	var nf *api.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestDefaultStrategies(t *testing.T) {
	assert.Len(t, DefaultStrategies(nil), 2)

	strategies := DefaultStrategies([]string{"ke"})
	require.Len(t, strategies, 3)
	assert.Equal(t, "Nairobi city", strategies[1].Query("Nairobi").Get("q"))
	assert.Equal(t, "ke", strategies[2].Query("Nairobi").Get("countrycode"))
}
