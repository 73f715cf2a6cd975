package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/sanitize"
)

// withBodyLimit caps every request body at the configured size.
func (h *Handler) withBodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.maxBodyBytes > 0 {
			if r.ContentLength > h.maxBodyBytes {
				writeError(w, r, ErrBodyTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// withSanitizer removes operator keys from the query string and from every
// body that holds JSON, whatever its declared type, before any handler sees
// them. Multipart forms are left to the profile form reader.
func (h *Handler) withSanitizer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		if r.URL.RawQuery != "" {
			query, removed := sanitize.Query(r.URL.Query())
			if removed > 0 {
				log.Warn().Int("removed_keys", removed).Msg("operator keys removed from query")
				r.URL.RawQuery = query.Encode()
			}
		}

		if r.Body != nil && r.Body != http.NoBody && !isMultipart(r) {
			body, removed, err := sanitizeJSONBody(r.Body, isJSON(r))
			if err != nil {
				writeError(w, r, err)
				return
			}
			if removed > 0 {
				log.Warn().Int("removed_keys", removed).Msg("operator keys removed from body")
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
		}

		next.ServeHTTP(w, r)
	})
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// sanitizeJSONBody reads the whole body. An empty body is returned as is
// so handlers report it themselves, as is a body that is not JSON unless
// declared is set.
func sanitizeJSONBody(body io.Reader, declared bool) ([]byte, int, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, 0, ErrBodyTooLarge
		}
		return nil, 0, ErrInvalidJSON
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return raw, 0, nil
	}

	var value any
	if err = json.Unmarshal(raw, &value); err != nil {
		if !declared {
			return raw, 0, nil
		}
		return nil, 0, ErrInvalidJSON
	}

	cleaned, removed := sanitize.Value(value)
	if removed == 0 {
		return raw, 0, nil
	}

	out, err := json.Marshal(cleaned)
	if err != nil {
		return nil, 0, ErrInvalidJSON
	}
	return out, removed, nil
}
