package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testRouter(metricsEnabled bool) http.Handler {
	return SetupRouter(&Config{
		AllowedOrigins: []string{"http://localhost:5173"},
		RateLimit:      10,
		RateWindow:     time.Minute,
		MetricsEnabled: metricsEnabled,
	})
}

func TestSetupRouter_Ping(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(false).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestSetupRouter_Metrics(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(false).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	testRouter(true).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSetupRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/generate-itinerary", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()

	testRouter(false).ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRouter_RequiresBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/generate-itinerary", nil)
	rr := httptest.NewRecorder()

	testRouter(false).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Request body is required")
}
