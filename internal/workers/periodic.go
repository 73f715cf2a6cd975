package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-taskpro/internal/logger"
)

// periodic calls task every interval on its own goroutine.
type periodic struct {
	name      string
	interval  time.Duration
	immediate bool
	task      func(ctx context.Context) error

	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newPeriodic(name string, interval time.Duration, task func(ctx context.Context) error, logger *logger.Logger) *periodic {
	return &periodic{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger,
	}
}

// Run stops a previous run first, so a worker never has two goroutines.
func (p *periodic) Run(ctx context.Context) {
	if p.interval <= 0 {
		p.logger.Warn().Str("worker", p.name).Msg("worker disabled, interval is not positive")
		return
	}

	p.Stop()

	p.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		if p.immediate {
			p.tick(jobCtx)
		}

		t := time.NewTicker(p.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				p.tick(jobCtx)
			}
		}
	}()

	p.logger.Debug().Str("worker", p.name).Dur("interval", p.interval).Msg("worker started")
}

func (p *periodic) tick(ctx context.Context) {
	if err := p.task(ctx); err != nil && ctx.Err() == nil {
		p.logger.Err(err).Str("worker", p.name).Msg("worker run failed")
	}
}

func (p *periodic) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}
