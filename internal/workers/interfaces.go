// Package workers runs the periodic background jobs of the server and the
// client. Each job is a [Worker]; [Workers] starts and stops a set of them
// together.
package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-taskpro/models"
)

// Worker is a background job. Run starts it and returns immediately; the
// job lives until ctx is done or Stop is called. Stop blocks until the job
// goroutine exited and is safe to call on a worker that is not running.
type Worker interface {
	Run(ctx context.Context)
	Stop()
}

// Rotator is implemented by the client session, which rotates its token
// pair while signed in.
type Rotator interface {
	Rotate(ctx context.Context) error
}

// HealthReporter refreshes the published health status.
type HealthReporter interface {
	RefreshHealth(ctx context.Context) models.Health
}

// Sweeper drops expired rate limit windows.
type Sweeper interface {
	Sweep(now time.Time) int
}

// TokenPurger deletes refresh tokens past their expiry.
type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
