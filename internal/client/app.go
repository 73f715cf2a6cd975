package client

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/session"
	"github.com/MKhiriev/go-taskpro/internal/tui"
	"github.com/MKhiriev/go-taskpro/internal/workers"
)

var errNilDependency = errors.New("client app dependency is nil")

var _ Client = (*App)(nil)

type App struct {
	session Session
	ui      UI
	workers *workers.Workers
	logger  *logger.Logger
}

func NewApp(s Session, ui UI, w *workers.Workers, logger *logger.Logger) (*App, error) {
	if s == nil || ui == nil || w == nil {
		return nil, errNilDependency
	}
	return &App{session: s, ui: ui, workers: w, logger: logger}, nil
}

// Run restores the persisted session in the background, starts the workers
// and hands the terminal to the UI. Leaving the UI with ctrl+c is a normal
// exit.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.session.Start(ctx); err != nil && !errors.Is(err, session.ErrSuperseded) {
			a.logger.Warn().Err(err).Msg("session was not restored")
		}
	}()

	a.workers.Run(ctx)

	err := a.ui.Run(ctx)

	cancel()
	a.workers.Stop()
	wg.Wait()

	if errors.Is(err, tui.ErrUserQuit) {
		return nil
	}
	return err
}
