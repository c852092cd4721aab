package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(r *types.ItineraryRequest)
		wantMsg    string
		wantFields []string
	}{
		{"missing destination", func(r *types.ItineraryRequest) { r.Destination = "" }, MissingFieldsMessage, []string{"destination"}},
		{"blank destination", func(r *types.ItineraryRequest) { r.Destination = "   " }, MissingFieldsMessage, []string{"destination"}},
		{"missing both dates", func(r *types.ItineraryRequest) { r.StartDate, r.EndDate = "", "" }, MissingFieldsMessage, []string{"startDate", "endDate"}},
		{"bad start format", func(r *types.ItineraryRequest) { r.StartDate = "01/04/2024" }, "Invalid date format, expected YYYY-MM-DD", []string{"startDate"}},
		{"impossible end date", func(r *types.ItineraryRequest) { r.EndDate = "2024-02-30" }, "Invalid date format, expected YYYY-MM-DD", []string{"endDate"}},
		{"end before start", func(r *types.ItineraryRequest) { r.EndDate = "2024-03-31" }, "End date must be on or after start date", []string{"endDate"}},
		{"no travelers", func(r *types.ItineraryRequest) { r.Travelers = 0 }, "Invalid request fields", []string{"travelers (min)"}},
		{"empty activities", func(r *types.ItineraryRequest) { r.Activities = nil }, "Invalid request fields", []string{"activities (min)"}},
		{"zero budget", func(r *types.ItineraryRequest) { r.Budget = 0 }, "Invalid request fields", []string{"budget (gt)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := parisRequest()
			tt.mutate(&req)

			_, _, err := ValidateRequest(req)
			require.Error(t, err)

			var ve *api.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantMsg, ve.Message)
			assert.Equal(t, tt.wantFields, ve.Fields)
		})
	}
}

func TestValidateRequest_Valid(t *testing.T) {
	start, end, err := ValidateRequest(parisRequest())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC), end)

	sameDay := parisRequest()
	sameDay.EndDate = sameDay.StartDate
	_, _, err = ValidateRequest(sameDay)
	assert.NoError(t, err)
}

func TestTripDuration(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse(DateLayout, s)
		require.NoError(t, err)
		return d
	}
	assert.Equal(t, 7, TripDuration(day("2024-04-01"), day("2024-04-07")))
	assert.Equal(t, 1, TripDuration(day("2024-04-01"), day("2024-04-01")))
	assert.Equal(t, 3, TripDuration(day("2024-02-28"), day("2024-03-01")))
	assert.Equal(t, 2, TripDuration(day("2024-12-31"), day("2025-01-01")))
}
