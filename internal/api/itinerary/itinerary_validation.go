package itinerary

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

const DateLayout = "2006-01-02"

const MissingFieldsMessage = "Missing required fields"

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest checks req and returns its parsed trip dates.
// Destination, startDate and endDate are mandatory; the remaining tags on
// types.ItineraryRequest are checked afterwards.
func ValidateRequest(req types.ItineraryRequest) (time.Time, time.Time, error) {
	var missing []string
	if strings.TrimSpace(req.Destination) == "" {
		missing = append(missing, "destination")
	}
	if strings.TrimSpace(req.StartDate) == "" {
		missing = append(missing, "startDate")
	}
	if strings.TrimSpace(req.EndDate) == "" {
		missing = append(missing, "endDate")
	}
	if len(missing) > 0 {
		return time.Time{}, time.Time{}, api.NewValidationError(MissingFieldsMessage, missing...)
	}

	start, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, api.NewValidationError("Invalid date format, expected YYYY-MM-DD", "startDate")
	}
	end, err := time.Parse(DateLayout, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, api.NewValidationError("Invalid date format, expected YYYY-MM-DD", "endDate")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, api.NewValidationError("End date must be on or after start date", "endDate")
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fieldName(fe))
			}
			return time.Time{}, time.Time{}, api.NewValidationError("Invalid request fields", fields...)
		}
		return time.Time{}, time.Time{}, api.NewValidationError("Invalid request fields", err.Error())
	}

	return start, end, nil
}

// fieldName renders a validator failure using the JSON field name.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name != "" {
		name = strings.ToLower(name[:1]) + name[1:]
	}
	return name + " (" + fe.Tag() + ")"
}

// TripDuration is the number of calendar days from start to end, both included.
func TripDuration(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1
}
