package adapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{
		Status:     resp.StatusCode(),
		Message:    serverMessage(resp),
		RetryAfter: retryAfter(resp.Header().Get("Retry-After")),
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized:
		apiErr.Err = ErrUnauthorized
	case code == http.StatusForbidden:
		apiErr.Err = ErrForbidden
	case code == http.StatusNotFound:
		apiErr.Err = ErrNotFound
	case code == http.StatusConflict:
		apiErr.Err = ErrConflict
	case code == http.StatusTooManyRequests:
		apiErr.Err = ErrTooManyRequests
	case code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		apiErr.Err = ErrServerUnavailable
	case code >= http.StatusInternalServerError:
		apiErr.Err = ErrServerError
	default:
		apiErr.Err = ErrBadRequest
	}

	return apiErr
}

// serverMessage prefers the "message" field of a JSON error body.
func serverMessage(resp *resty.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		return body.Message
	}

	if text := strings.TrimSpace(string(resp.Body())); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode())
}

func retryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
