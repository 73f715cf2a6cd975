package http

import (
	"net/http"

	"github.com/MKhiriev/go-taskpro/internal/utils"
	"github.com/MKhiriev/go-taskpro/models"
)

const welcomeMessage = "Welcome to TaskPro API"

func (h *Handler) welcome(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, models.WelcomeResponse{
		Message: welcomeMessage,
		Version: h.services.HealthService.GetAppVersion(r.Context()),
		Health:  "/api/health",
	}, http.StatusOK)
}

// health answers 200 while storage is reachable and 503 otherwise. The
// body is the same report in both cases.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	report := h.services.HealthService.Check(r.Context())

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}

	_, _ = utils.WriteJSON(w, report, status)
}
