package adapter

import (
	"errors"
	"time"
)

var (
	ErrBadRequest        = errors.New("bad request")
	ErrUnauthorized      = errors.New("client unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrTooManyRequests   = errors.New("too many requests")
	ErrServerUnavailable = errors.New("server unavailable")
	ErrServerError       = errors.New("server error")
)

// APIError is a non-2xx answer of the server. Its text is the message the
// server sent, so it can be shown to the user as is.
type APIError struct {
	Status  int
	Message string

	// RetryAfter is the server's Retry-After hint; zero when absent.
	RetryAfter time.Duration

	// Err is the sentinel matching Status.
	Err error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}
