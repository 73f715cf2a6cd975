package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authPolicy = Policy{Name: "auth", Limit: 5, Window: 15 * time.Minute}

func newTestMemoryLimiter(start time.Time) (*MemoryLimiter, *time.Time) {
	now := start
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }
	return l, &now
}

func TestMemoryLimiter_SixthRequestRejected(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l, _ := newTestMemoryLimiter(start)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		d, err := l.Check(ctx, "10.0.0.1", authPolicy)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, 5-i, d.Remaining)
		assert.Equal(t, 5, d.Limit)
		assert.Equal(t, start.Add(15*time.Minute), d.ResetAt)
		assert.Zero(t, d.RetryAfter)
	}

	d, err := l.Check(ctx, "10.0.0.1", authPolicy)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 15*time.Minute, d.RetryAfter)

	// another address has its own window
	d, err = l.Check(ctx, "10.0.0.2", authPolicy)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// and so does another policy for the same address
	d, err = l.Check(ctx, "10.0.0.1", Policy{Name: "general", Limit: 100, Window: 15 * time.Minute})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l, now := newTestMemoryLimiter(start)
	ctx := context.Background()

	for range 6 {
		_, err := l.Check(ctx, "10.0.0.1", authPolicy)
		require.NoError(t, err)
	}

	*now = start.Add(10 * time.Minute)
	d, err := l.Check(ctx, "10.0.0.1", authPolicy)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 5*time.Minute, d.RetryAfter)

	*now = start.Add(15 * time.Minute)
	d, err = l.Check(ctx, "10.0.0.1", authPolicy)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
	assert.Equal(t, start.Add(30*time.Minute), d.ResetAt)
}

func TestMemoryLimiter_Sweep(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l, now := newTestMemoryLimiter(start)
	ctx := context.Background()

	_, err := l.Check(ctx, "a", authPolicy)
	require.NoError(t, err)
	_, err = l.Check(ctx, "b", authPolicy)
	require.NoError(t, err)

	*now = start.Add(time.Minute)
	_, err = l.Check(ctx, "c", Policy{Name: "short", Limit: 1, Window: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, 3, l.Len())

	assert.Equal(t, 0, l.Sweep(start.Add(time.Minute)))
	assert.Equal(t, 1, l.Sweep(start.Add(2*time.Minute)))
	assert.Equal(t, 2, l.Sweep(start.Add(15*time.Minute)))
	assert.Equal(t, 0, l.Len())
}

func TestMemoryLimiter_InvalidPolicy(t *testing.T) {
	l := NewMemoryLimiter()

	_, err := l.Check(context.Background(), "a", Policy{Name: "x", Limit: 0, Window: time.Minute})
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = l.Check(context.Background(), "a", Policy{Name: "x", Limit: 1})
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestMemoryLimiter_CanceledContext(t *testing.T) {
	l := NewMemoryLimiter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Check(ctx, "a", authPolicy)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, l.Len())
}

func TestMemoryLimiter_ConcurrentCeiling(t *testing.T) {
	l := NewMemoryLimiter()
	policy := Policy{Name: "general", Limit: 10, Window: time.Minute}

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.Check(context.Background(), "10.0.0.1", policy)
			if err == nil && d.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), allowed.Load())
}

func TestNewPolicies(t *testing.T) {
	policies := NewPolicies(configForTest())

	assert.Equal(t, Policy{Name: "general", Limit: 100, Window: 15 * time.Minute}, policies.General)
	assert.Equal(t, Policy{Name: "auth", Limit: 5, Window: 15 * time.Minute}, policies.Auth)
}
