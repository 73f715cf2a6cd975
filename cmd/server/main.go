package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-taskpro/internal/config"
	"github.com/MKhiriev/go-taskpro/internal/handler"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/ratelimit"
	"github.com/MKhiriev/go-taskpro/internal/server"
	"github.com/MKhiriev/go-taskpro/internal/service"
	"github.com/MKhiriev/go-taskpro/internal/store"
	"github.com/MKhiriev/go-taskpro/internal/workers"
	"github.com/MKhiriev/go-taskpro/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(buildInfo.String())

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("taskpro-server").Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildInfo.BuildVersion()
	}

	log, err := logger.NewServerLogger("taskpro-server", cfg.App.LogLevel, !cfg.App.IsProduction())
	if err != nil {
		logger.NewLogger("taskpro-server").Fatal().Err(err).Msg("error creating logger")
	}

	if err = run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.StructuredConfig, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer storages.Close()

	services, err := service.NewServices(storages, *cfg, log)
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}

	limiter, err := ratelimit.NewBackend(ctx, cfg.Storage.Redis, log)
	if err != nil {
		return fmt.Errorf("error creating rate limiter: %w", err)
	}
	defer limiter.Close()

	handlers, err := handler.NewHandlers(services, limiter, *cfg, log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	jobs := []workers.Worker{
		workers.NewTokenPurger(services.TokenService, cfg.Workers.TokenPurgeInterval, log),
	}
	if limiter.Memory != nil {
		jobs = append(jobs, workers.NewLimiterSweeper(limiter.Memory, cfg.Workers.LimiterSweepInterval, log))
	}
	if handlers.GRPC != nil {
		jobs = append(jobs, workers.NewHealthRefresher(handlers.GRPC, cfg.Workers.HealthInterval, log))
	}
	background := workers.New(jobs...)

	background.Run(ctx)
	defer background.Stop()

	log.Info().Int("workers", background.Len()).Msg("server is starting")
	return srv.Run(ctx)
}
