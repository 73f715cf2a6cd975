package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-taskpro/internal/logger"
)

// NewLimiterSweeper drops closed windows of the in-memory rate limiter.
func NewLimiterSweeper(limiter Sweeper, interval time.Duration, logger *logger.Logger) Worker {
	return newPeriodic("limiter-sweep", interval, func(context.Context) error {
		if removed := limiter.Sweep(time.Now()); removed > 0 {
			logger.Debug().Int("removed", removed).Msg("rate limit windows swept")
		}
		return nil
	}, logger)
}

// NewTokenPurger deletes expired refresh token records.
func NewTokenPurger(tokens TokenPurger, interval time.Duration, logger *logger.Logger) Worker {
	return newPeriodic("token-purge", interval, func(ctx context.Context) error {
		purged, err := tokens.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		if purged > 0 {
			logger.Info().Int64("purged", purged).Msg("expired refresh tokens purged")
		}
		return nil
	}, logger)
}

// NewHealthRefresher publishes the health status right away and then on
// every tick.
func NewHealthRefresher(reporter HealthReporter, interval time.Duration, logger *logger.Logger) Worker {
	p := newPeriodic("health", interval, func(ctx context.Context) error {
		reporter.RefreshHealth(ctx)
		return nil
	}, logger)
	p.immediate = true
	return p
}

// NewTokenRotator rotates the client's token pair in the background.
func NewTokenRotator(session Rotator, interval time.Duration, logger *logger.Logger) Worker {
	return newPeriodic("token-rotation", interval, session.Rotate, logger)
}
