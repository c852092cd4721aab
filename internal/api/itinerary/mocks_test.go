package itinerary

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/FACorreiaa/go-trip-itinerary/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/events"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/llm"
	"github.com/FACorreiaa/go-trip-itinerary/internal/api/upstream"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testMetrics(t *testing.T) *metrics.AppMetrics {
	t.Helper()
	m, err := metrics.New(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	return m
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, destination string) (types.Location, error) {
	args := m.Called(ctx, destination)
	return args.Get(0).(types.Location), args.Error(1)
}

type MockWeatherFetcher struct {
	mock.Mock
}

func (m *MockWeatherFetcher) Forecast(ctx context.Context, loc types.Location) upstream.Result[types.WeatherDay] {
	args := m.Called(ctx, loc)
	return args.Get(0).(upstream.Result[types.WeatherDay])
}

type MockEventsFetcher struct {
	mock.Mock
}

func (m *MockEventsFetcher) Search(ctx context.Context, q events.Query) upstream.Result[types.Event] {
	args := m.Called(ctx, q)
	return args.Get(0).(upstream.Result[types.Event])
}

type MockPOIFetcher struct {
	mock.Mock
}

func (m *MockPOIFetcher) Nearby(ctx context.Context, loc types.Location) upstream.Result[types.PointOfInterest] {
	args := m.Called(ctx, loc)
	return args.Get(0).(upstream.Result[types.PointOfInterest])
}

type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, in SynthesisInput) (*types.GeneratedItinerary, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GeneratedItinerary), args.Error(1)
}

type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockLLMClient) Model() string {
	return "gpt-4"
}

type MockService struct {
	mock.Mock
}

func (m *MockService) Generate(ctx context.Context, req types.ItineraryRequest) (*types.ItineraryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ItineraryResponse), args.Error(1)
}

func (m *MockService) FlushCache(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
