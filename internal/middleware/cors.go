// Package middleware provides reusable HTTP middleware for the trip planner API.
package middleware

import (
	"net/http"
	"time"

	"github.com/rs/cors"
)

// corsMaxAge is how long browsers may cache a preflight answer.
const corsMaxAge = 10 * time.Minute

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash);
// "*" allows any origin. Trips are reached by share token, so no credentials are allowed.
//
// Exposed headers let browser clients read the download filename of exports,
// the location of a created trip, the back-off of a 429 and the request ID
// to quote in bug reports.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "Location", "Retry-After", "X-Request-Id"},
		MaxAge:         int(corsMaxAge.Seconds()),
	})
	return c.Handler
}
