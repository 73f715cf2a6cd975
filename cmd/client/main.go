package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-taskpro/internal/adapter"
	"github.com/MKhiriev/go-taskpro/internal/client"
	"github.com/MKhiriev/go-taskpro/internal/config"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/session"
	"github.com/MKhiriev/go-taskpro/internal/store"
	"github.com/MKhiriev/go-taskpro/internal/tui"
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

	log := logger.NewClientLogger("taskpro-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	localStorages, err := store.NewClientStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer localStorages.Close()

	machine := session.NewMachine(serverAdapter, localStorages.TokenStore, log)
	ui := tui.New(machine, buildInfo, log)
	jobs := workers.New(workers.NewTokenRotator(machine, cfg.Workers.RefreshInterval, log))

	app, err := client.NewApp(machine, ui, jobs, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}
