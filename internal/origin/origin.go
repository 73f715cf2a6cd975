// Package origin decides whether a browser origin may call the API.
package origin

import (
	"errors"
	"strings"
)

// ErrRejected is reported when a production server refuses an origin.
var ErrRejected = errors.New("origin not allowed")

// Decision is the outcome of [Decide].
type Decision int

const (
	// NoOrigin means the request carried no Origin header, as non-browser
	// clients and same-origin navigations do.
	NoOrigin Decision = iota

	// Allowed means the origin is on the allow-list.
	Allowed

	// RelaxedDevelopment means the origin is not on the allow-list but the
	// server does not run in production, so it is admitted and logged.
	RelaxedDevelopment

	// RejectedProduction means the origin is refused.
	RejectedProduction
)

func (d Decision) String() string {
	switch d {
	case NoOrigin:
		return "no_origin"
	case Allowed:
		return "allowed"
	case RelaxedDevelopment:
		return "relaxed_development"
	case RejectedProduction:
		return "rejected_production"
	}
	return "unknown"
}

// Admits reports whether the request may proceed with CORS headers.
func (d Decision) Admits() bool {
	return d == Allowed || d == RelaxedDevelopment
}

// Policy is a normalised allow-list.
type Policy struct {
	allowed map[string]struct{}

	// Strict disables the non-production relaxation.
	Strict bool
}

func NewPolicy(origins []string, strict bool) Policy {
	p := Policy{
		allowed: make(map[string]struct{}, len(origins)),
		Strict:  strict,
	}
	for _, o := range origins {
		if o = normalize(o); o != "" {
			p.allowed[o] = struct{}{}
		}
	}
	return p
}

// Contains reports whether origin is on the allow-list.
func (p Policy) Contains(origin string) bool {
	_, ok := p.allowed[normalize(origin)]
	return ok
}

// Decide classifies origin. It has no side effects.
func Decide(origin string, policy Policy, production bool) Decision {
	if strings.TrimSpace(origin) == "" {
		return NoOrigin
	}
	if policy.Contains(origin) {
		return Allowed
	}
	if production || policy.Strict {
		return RejectedProduction
	}
	return RelaxedDevelopment
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}
