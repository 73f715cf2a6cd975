package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/origin"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, PATCH, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, X-Requested-With"
	corsMaxAge       = 24 * time.Hour
)

// withOriginCheck applies the origin allow-list to every request.
//
// Admitted origins get the CORS response headers and a preflight
// (OPTIONS with Access-Control-Request-Method) is answered with 204 here.
// A rejected origin gets 403 and no CORS headers. Requests without an
// Origin header pass through untouched.
func (h *Handler) withOriginCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestOrigin := r.Header.Get("Origin")
		decision := origin.Decide(requestOrigin, h.origins, h.production)

		switch decision {
		case origin.NoOrigin:
			next.ServeHTTP(w, r)
			return
		case origin.RejectedProduction:
			logger.FromRequest(r).Warn().Str("origin", requestOrigin).Msg("origin rejected")
			writeError(w, r, origin.ErrRejected)
			return
		case origin.RelaxedDevelopment:
			logger.FromRequest(r).Warn().Str("origin", requestOrigin).Msg("origin not on the allow-list, admitted outside production")
		}

		header := w.Header()
		header.Set("Access-Control-Allow-Origin", requestOrigin)
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Add("Vary", "Origin")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			header.Set("Access-Control-Allow-Methods", corsAllowMethods)
			header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			header.Set("Access-Control-Max-Age", strconv.Itoa(int(corsMaxAge.Seconds())))
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
