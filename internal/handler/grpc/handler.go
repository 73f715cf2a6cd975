package grpc

import (
	"context"

	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/service"
	"github.com/MKhiriev/go-taskpro/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name under which the auth server reports its status
// in addition to the overall "" entry.
const ServiceName = "taskpro.auth"

// Handler is the root gRPC transport handler. It serves the standard
// grpc.health.v1 protocol, fed by the same check as GET /api/health.
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	health *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler]. Both entries start as NOT_SERVING
// until the first [Handler.RefreshHealth].
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Handler{
		services: services,
		health:   hs,
		logger:   logger,
	}
}

// Register attaches the handler's services to server.
func (h *Handler) Register(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, h.health)
}

// RefreshHealth runs the health check and publishes its outcome to watchers.
func (h *Handler) RefreshHealth(ctx context.Context) models.Health {
	report := h.services.HealthService.Check(ctx)

	status := healthpb.HealthCheckResponse_SERVING
	if !report.Healthy() {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		h.logger.Warn().Str("database", report.Database).Msg("health check failed")
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)

	return report
}

// Shutdown marks every service NOT_SERVING so clients drain before the
// listener closes.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
