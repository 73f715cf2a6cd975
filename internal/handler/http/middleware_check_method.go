// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/utils"
	"github.com/MKhiriev/go-taskpro/models"
	"github.com/go-chi/chi/v5"
)

// routeMethods are the methods probed when building the Allow header.
var routeMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// CheckHTTPMethod returns the handler registered as the router's
// MethodNotAllowed handler via [chi.Mux.MethodNotAllowed].
//
// It probes router for every method of routeMethods on the requested path.
// When at least one matches, the response is 405 with an Allow header
// listing them. Otherwise the path is unknown and the response is the
// regular 404 body.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, method := range routeMethods {
			if router.Match(chi.NewRouteContext(), method, r.URL.Path) {
				allowed = append(allowed, method)
			}
		}

		if len(allowed) == 0 {
			writeNotFound(w, r)
			return
		}

		w.Header().Set("Allow", strings.Join(allowed, ", "))
		writeError(w, r, errMethodNotAllowed)
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeNotFound(w, r)
}

func writeNotFound(w http.ResponseWriter, r *http.Request) {
	logger.FromRequest(r).Debug().Str("path", r.URL.Path).Msg("route not found")

	_, _ = utils.WriteJSON(w, models.NotFoundResponse{
		Message: errRouteNotFound.Error(),
		Error:   r.Method + " " + r.URL.Path,
	}, http.StatusNotFound)
}
