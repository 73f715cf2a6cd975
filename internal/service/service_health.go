package service

import (
	"context"
	"runtime"
	"time"

	"github.com/MKhiriev/go-taskpro/internal/config"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/models"
)

// Pinger is implemented by storages that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

const bytesInMB = 1 << 20

type healthService struct {
	appVersion  string
	environment string
	startedAt   time.Time

	db  Pinger
	now func() time.Time

	logger *logger.Logger
}

func NewHealthService(cfg config.App, db Pinger, logger *logger.Logger) (HealthService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &healthService{
		appVersion:  cfg.Version,
		environment: cfg.Environment,
		startedAt:   time.Now(),
		db:          db,
		now:         time.Now,
		logger:      logger,
	}, nil
}

func (s *healthService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

// Check pings the database and collects runtime statistics. The report is
// degraded when the database does not answer.
func (s *healthService) Check(ctx context.Context) models.Health {
	now := s.now()

	health := models.Health{
		Status:      models.HealthStatusOK,
		Timestamp:   now.UTC(),
		Uptime:      now.Sub(s.startedAt).Seconds(),
		Environment: s.environment,
		Version:     s.appVersion,
		Database:    models.DatabaseConnected,
		Memory:      memoryStats(),
	}

	if err := s.db.Ping(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*healthService.Check").Msg("database ping failed")
		health.Status = models.HealthStatusDegraded
		health.Database = models.DatabaseDisconnected
	}

	return health
}

func memoryStats() models.HealthMemory {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return models.HealthMemory{
		HeapAllocMB:  float64(m.HeapAlloc) / bytesInMB,
		HeapSysMB:    float64(m.HeapSys) / bytesInMB,
		NumGoroutine: runtime.NumGoroutine(),
	}
}
