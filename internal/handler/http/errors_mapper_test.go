package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-taskpro/internal/origin"
	"github.com/MKhiriev/go-taskpro/internal/ratelimit"
	"github.com/MKhiriev/go-taskpro/internal/service"
	"github.com/MKhiriev/go-taskpro/internal/store"
	"github.com/MKhiriev/go-taskpro/internal/validators"
	"github.com/stretchr/testify/assert"
)

func TestResponseFromError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"validation keeps its text", &service.ValidationError{Err: validators.ErrInvalidName}, http.StatusBadRequest, validators.ErrInvalidName.Error()},
		{"wrapped validation", fmt.Errorf("register: %w", &service.ValidationError{Err: validators.ErrInvalidName}), http.StatusBadRequest, validators.ErrInvalidName.Error()},
		{"invalid json", fmt.Errorf("%w: eof", ErrInvalidJSON), http.StatusBadRequest, ErrInvalidJSON.Error()},
		{"invalid gzip", ErrInvalidEncoding, http.StatusBadRequest, ErrInvalidEncoding.Error()},
		{"too large", ErrBodyTooLarge, http.StatusRequestEntityTooLarge, ErrBodyTooLarge.Error()},
		{"duplicate", service.ErrEmailAlreadyExists, http.StatusConflict, "email in use"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "email or password is wrong"},
		{"unconfirmed", service.ErrEmailNotConfirmed, http.StatusForbidden, "email is not confirmed"},
		{"expired", fmt.Errorf("verify: %w", service.ErrTokenExpired), http.StatusUnauthorized, "token is expired"},
		{"replay", service.ErrTokenReplay, http.StatusUnauthorized, service.ErrTokenReplay.Error()},
		{"not found", service.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"rate limited", ErrTooManyRequests, http.StatusTooManyRequests, ErrTooManyRequests.Error()},
		{"origin", origin.ErrRejected, http.StatusForbidden, "forbidden"},
		{"notification", fmt.Errorf("smtp down: %w", service.ErrNotificationFailed), http.StatusBadGateway, "notification service is unavailable"},
		{"storage", fmt.Errorf("dial tcp 10.0.0.3:5432: %w", store.ErrStorageUnavailable), http.StatusServiceUnavailable, unavailableMessage},
		{"limiter", fmt.Errorf("redis: %w", ratelimit.ErrLimiterUnavailable), http.StatusServiceUnavailable, unavailableMessage},
		{"unknown", errors.New("pq: relation users does not exist"), http.StatusInternalServerError, internalMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := responseFromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestWriteError_RetryAfterOnlyOn503(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	writeError(rec, req, store.ErrStorageUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))
	assert.Equal(t, unavailableMessage, messageOf(t, rec))

	rec = httptest.NewRecorder()
	writeError(rec, req, service.ErrUserNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Retry-After"))
}
