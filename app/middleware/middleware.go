package appMiddleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/FACorreiaa/go-trip-itinerary/internal/api"
)

// ClientIP rewrites RemoteAddr from proxy headers only when trustProxy is set.
// Otherwise the TCP peer address is kept, so forwarded headers sent by the
// client cannot change its throttle key.
func ClientIP(trustProxy bool) func(http.Handler) http.Handler {
	if trustProxy {
		return middleware.RealIP
	}
	return func(next http.Handler) http.Handler {
		return next
	}
}

// RateLimit throttles each client address to requests per window and answers
// 429 {"error":"Too many requests"} once the budget is spent.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			err := &api.RateLimitError{}
			api.ErrorResponse(w, r, api.StatusFor(err), err.Error())
		}),
	)
}

// RequireJSONBody rejects requests that carry no body at all.
func RequireJSONBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Request body is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
