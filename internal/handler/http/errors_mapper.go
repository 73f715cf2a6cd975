package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/origin"
	"github.com/MKhiriev/go-taskpro/internal/ratelimit"
	"github.com/MKhiriev/go-taskpro/internal/service"
	"github.com/MKhiriev/go-taskpro/internal/store"
	"github.com/MKhiriev/go-taskpro/internal/utils"
)

const (
	unavailableMessage = "service temporarily unavailable"
	internalMessage    = "internal server error"

	// unavailableRetryAfter is the Retry-After hint, in seconds, sent
	// with every 503.
	unavailableRetryAfter = 5
)

// errorResponse is one row of the error table. An empty message means the
// text of the matched error is shown to the caller.
type errorResponse struct {
	target  error
	status  int
	message string
}

// errorTable is checked top to bottom; the first match wins. Rows with a
// 5xx status carry a fixed message so internals never leak.
var errorTable = []errorResponse{
	{target: service.ErrValidation, status: http.StatusBadRequest},
	{target: ErrInvalidJSON, status: http.StatusBadRequest},
	{target: ErrInvalidForm, status: http.StatusBadRequest},
	{target: ErrInvalidEncoding, status: http.StatusBadRequest},
	{target: ErrBodyTooLarge, status: http.StatusRequestEntityTooLarge},
	{target: service.ErrEmailAlreadyExists, status: http.StatusConflict},
	{target: service.ErrInvalidCredentials, status: http.StatusUnauthorized},
	{target: service.ErrEmailNotConfirmed, status: http.StatusForbidden},

	{target: ErrEmptyAuthorizationHeader, status: http.StatusUnauthorized},
	{target: ErrInvalidAuthorizationHeader, status: http.StatusUnauthorized},
	{target: service.ErrTokenExpired, status: http.StatusUnauthorized},
	{target: service.ErrTokenMalformed, status: http.StatusUnauthorized},
	{target: service.ErrTokenInvalidSignature, status: http.StatusUnauthorized},
	{target: service.ErrTokenReplay, status: http.StatusUnauthorized},
	{target: service.ErrTokenRevoked, status: http.StatusUnauthorized},

	{target: service.ErrUserNotFound, status: http.StatusNotFound},
	{target: errRouteNotFound, status: http.StatusNotFound},
	{target: errMethodNotAllowed, status: http.StatusMethodNotAllowed},
	{target: ErrTooManyRequests, status: http.StatusTooManyRequests},
	{target: origin.ErrRejected, status: http.StatusForbidden, message: "forbidden"},

	{target: service.ErrNotificationFailed, status: http.StatusBadGateway, message: "notification service is unavailable"},
	{target: store.ErrStorageUnavailable, status: http.StatusServiceUnavailable, message: unavailableMessage},
	{target: ratelimit.ErrLimiterUnavailable, status: http.StatusServiceUnavailable, message: unavailableMessage},
}

// responseFromError resolves the status and the public message for err.
func responseFromError(err error) (int, string) {
	for _, row := range errorTable {
		if !errors.Is(err, row.target) {
			continue
		}
		if row.message != "" {
			return row.status, row.message
		}
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			return row.status, vErr.Error()
		}
		return row.status, row.target.Error()
	}
	return http.StatusInternalServerError, internalMessage
}

// writeError logs err and writes the matching JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := responseFromError(err)

	log := logger.FromRequest(r)
	switch {
	case status >= http.StatusInternalServerError:
		log.Err(err).Int("status", status).Msg("request failed")
	default:
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(unavailableRetryAfter))
	}

	utils.WriteMessage(w, message, status)
}
