package ratelimit

import (
	"context"
	"time"

	"github.com/MKhiriev/go-taskpro/internal/config"
)

//go:generate mockgen -source=limiter.go -destination=../mock/limiter_mock.go -package=mock

// Limiter decides whether one more request from key fits in the current
// window of policy. Every call counts, including rejected ones.
type Limiter interface {
	Check(ctx context.Context, key string, policy Policy) (Decision, error)
}

// Policy is a request ceiling per window.
type Policy struct {
	// Name separates counters of different policies for the same client.
	Name   string
	Limit  int
	Window time.Duration
}

func (p Policy) valid() bool {
	return p.Limit > 0 && p.Window > 0
}

// Decision is the outcome of one [Limiter.Check].
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int

	// ResetAt is when the current window closes.
	ResetAt time.Time

	// RetryAfter is set only on rejection.
	RetryAfter time.Duration
}

// Policies holds the two policies of the HTTP API.
type Policies struct {
	// General applies to every /api route except health.
	General Policy

	// Auth applies to login and registration on top of General.
	Auth Policy
}

// NewPolicies builds the API policies from the security settings.
func NewPolicies(cfg config.Security) Policies {
	return Policies{
		General: Policy{Name: "general", Limit: cfg.GeneralRateLimit, Window: cfg.GeneralRateWindow},
		Auth:    Policy{Name: "auth", Limit: cfg.AuthRateLimit, Window: cfg.AuthRateWindow},
	}
}

// decide turns a counter value into a Decision.
func decide(policy Policy, count int, now, resetAt time.Time) Decision {
	d := Decision{
		Allowed:   count <= policy.Limit,
		Limit:     policy.Limit,
		Remaining: max(policy.Limit-count, 0),
		ResetAt:   resetAt,
	}
	if !d.Allowed {
		d.RetryAfter = max(resetAt.Sub(now), 0)
	}
	return d
}

func counterKey(policy Policy, key string) string {
	return policy.Name + ":" + key
}
