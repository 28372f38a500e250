package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. unparseable amount, date outside the trip).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrStorage is returned by service functions when the store rejected or
// could not perform a write. The underlying error is logged, never exposed.
// Handlers should map this to HTTP 503 Service Unavailable.
var ErrStorage = errors.New("could not save, check your input and try again")
