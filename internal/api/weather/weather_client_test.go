package weather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api/upstream"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

var (
	testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	paris      = types.Location{Lat: 48.8566, Lng: 2.3522}
)

func newClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(upstream.NewClient(server.Client(), nil, time.Second), Config{
		BaseURL: server.URL,
		APIKey:  apiKey,
	}, testLogger)
}

func TestForecast_Success(t *testing.T) {
	client := newClient(t, "weather-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "14", r.URL.Query().Get("days"))
		assert.Equal(t, "48.8566,2.3522", r.URL.Query().Get("q"))
		assert.Equal(t, "weather-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{"forecast":{"forecastday":[
			{"date":"2024-04-01","day":{"maxtemp_c":16.2,"mintemp_c":7.1,"condition":{"text":"Partly cloudy","icon":"x"}}},
			{"date":"2024-04-02","day":{"maxtemp_c":14.0,"mintemp_c":6.5,"condition":{"text":"Light rain"}}}
		]}}`))
	})

	result := client.Forecast(context.Background(), paris)
	require.False(t, result.Degraded())
	require.Len(t, result.Items, 2)
	assert.Equal(t, types.WeatherDay{Date: "2024-04-01", MaxTemp: 16.2, MinTemp: 7.1, Condition: "Partly cloudy"}, result.Items[0])
	assert.Equal(t, "Light rain", result.Items[1].Condition)
}

func TestForecast_FailuresDegradeToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		handler http.HandlerFunc
	}{
		{"non-2xx", "k", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) }},
		{"malformed body", "k", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("<html>")) }},
		{"missing forecast", "k", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{}`)) }},
		{"missing key", "", func(w http.ResponseWriter, r *http.Request) { t.Fatal("no call expected without credentials") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, tt.apiKey, tt.handler)
			result := client.Forecast(context.Background(), paris)
			assert.True(t, result.Degraded())
			assert.NotNil(t, result.Items)
			assert.Empty(t, result.Items)
		})
	}
}
