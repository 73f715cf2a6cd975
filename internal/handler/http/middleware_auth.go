package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/utils"
)

// auth is an HTTP middleware that enforces bearer-token authentication.
//
// It extracts the access token from the "Authorization: Bearer <token>"
// header and verifies it via [service.TokenService.VerifyAccess]. On
// success the user id ("sub") and the session id ("sid") are stored in the
// request context under [utils.UserIDCtxKey] and [utils.SessionIDCtxKey].
//
// Every failure answers 401 through the error table: a missing header, a
// header that is not a bearer token, and any token error (expired,
// malformed, bad signature, refresh token presented as access token).
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, r, ErrEmptyAuthorizationHeader)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidAuthorizationHeader, err))
			return
		}

		ctx := r.Context()
		claims, err := h.services.TokenService.VerifyAccess(ctx, tokenString)
		if err != nil {
			log.Info().Err(err).Msg("access token rejected")
			writeError(w, r, err)
			return
		}

		ctx = context.WithValue(ctx, utils.UserIDCtxKey, claims.Subject)
		ctx = context.WithValue(ctx, utils.SessionIDCtxKey, claims.SessionID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
