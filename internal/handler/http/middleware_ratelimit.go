package http

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/ratelimit"
)

// policiesFor returns the rate-limit policies that apply to r, in the order
// they are checked. Health checks and routes outside /api are not limited.
func (h *Handler) policiesFor(r *http.Request) []ratelimit.Policy {
	path := r.URL.Path
	if !strings.HasPrefix(path, "/api/") || path == "/api/health" {
		return nil
	}

	policies := []ratelimit.Policy{h.policies.General}
	if r.Method == http.MethodPost && (path == "/api/users/login" || path == "/api/users/register") {
		policies = append(policies, h.policies.Auth)
	}
	return policies
}

// withRateLimit counts the request against every policy that applies and
// rejects it with 429 once one of them is exhausted. A limiter failure
// rejects the request with 503.
func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		policies := h.policiesFor(r)
		if len(policies) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		client := clientAddress(r)
		for _, policy := range policies {
			decision, err := h.limiter.Check(r.Context(), client, policy)
			if err != nil {
				writeError(w, r, err)
				return
			}

			setRateLimitHeaders(w, decision)

			if !decision.Allowed {
				logger.FromRequest(r).Warn().
					Str("client", client).
					Str("policy", policy.Name).
					Msg("rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(ceilSeconds(decision.RetryAfter)))
				writeError(w, r, ErrTooManyRequests)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func setRateLimitHeaders(w http.ResponseWriter, d ratelimit.Decision) {
	header := w.Header()
	header.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
	header.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
	header.Set("RateLimit-Reset", strconv.Itoa(ceilSeconds(time.Until(d.ResetAt))))
}

// clientAddress is the host part of RemoteAddr. With a trusted proxy,
// middleware.RealIP has already replaced RemoteAddr by the forwarded
// address, which carries no port.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
