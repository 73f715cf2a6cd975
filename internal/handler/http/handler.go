package http

import (
	"time"

	"github.com/MKhiriev/go-taskpro/internal/config"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/origin"
	"github.com/MKhiriev/go-taskpro/internal/ratelimit"
	"github.com/MKhiriev/go-taskpro/internal/service"
)

type Handler struct {
	services *service.Services
	limiter  ratelimit.Limiter
	policies ratelimit.Policies

	origins    origin.Policy
	production bool
	trustProxy bool

	maxBodyBytes   int64
	requestTimeout time.Duration
	avatarDir      string
	version        string

	logger *logger.Logger
}

func NewHandler(services *service.Services, limiter ratelimit.Limiter, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		limiter:        limiter,
		policies:       ratelimit.NewPolicies(cfg.Security),
		origins:        origin.NewPolicy(cfg.Security.Origins(), cfg.Security.StrictOrigins),
		production:     cfg.App.IsProduction(),
		trustProxy:     cfg.Security.TrustProxy,
		maxBodyBytes:   cfg.Security.MaxBodyBytes,
		requestTimeout: cfg.Server.RequestTimeout,
		avatarDir:      cfg.Storage.Files.AvatarDir,
		version:        cfg.App.Version,
		logger:         logger,
	}
}
