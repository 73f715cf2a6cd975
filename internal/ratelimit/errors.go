package ratelimit

import "errors"

var (
	// ErrLimiterUnavailable is returned when the counter backend cannot be
	// reached. Callers reject the request rather than let it through.
	ErrLimiterUnavailable = errors.New("rate limiter unavailable")

	ErrInvalidPolicy = errors.New("rate limit policy must have a positive limit and window")
)
