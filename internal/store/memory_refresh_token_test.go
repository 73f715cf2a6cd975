package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-taskpro/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRefresh_RotateChain(t *testing.T) {
	repo := NewMemoryRefreshTokenRepository()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, repo.Create(ctx, models.RefreshToken{ID: "r1", SessionID: "s1", UserID: "u1", ExpiresAt: exp}))

	require.NoError(t, repo.Rotate(ctx, "r1", models.RefreshToken{ID: "r2", UserID: "u1", ExpiresAt: exp}))
	assert.ErrorIs(t, repo.Rotate(ctx, "r1", models.RefreshToken{ID: "r3", UserID: "u1", ExpiresAt: exp}), ErrRefreshTokenAlreadyUsed)

	// the successor inherits the family and rotates normally
	require.NoError(t, repo.Rotate(ctx, "r2", models.RefreshToken{ID: "r4", UserID: "u1", ExpiresAt: exp}))

	assert.ErrorIs(t, repo.Rotate(ctx, "unknown", models.RefreshToken{ID: "r5"}), ErrRefreshTokenNotFound)
}

func TestMemoryRefresh_RevokeSession(t *testing.T) {
	repo := NewMemoryRefreshTokenRepository()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, repo.Create(ctx, models.RefreshToken{ID: "r1", SessionID: "s1", ExpiresAt: exp}))
	require.NoError(t, repo.Create(ctx, models.RefreshToken{ID: "other", SessionID: "s2", ExpiresAt: exp}))
	require.NoError(t, repo.Rotate(ctx, "r1", models.RefreshToken{ID: "r2", ExpiresAt: exp}))

	require.NoError(t, repo.RevokeSession(ctx, "s1"))

	assert.ErrorIs(t, repo.Rotate(ctx, "r2", models.RefreshToken{ID: "r3", ExpiresAt: exp}), ErrRefreshTokenRevoked)
	// r1 was exchanged before the revocation, so it is still a replay
	assert.ErrorIs(t, repo.Rotate(ctx, "r1", models.RefreshToken{ID: "r3", ExpiresAt: exp}), ErrRefreshTokenAlreadyUsed)
	assert.NoError(t, repo.Rotate(ctx, "other", models.RefreshToken{ID: "other2", ExpiresAt: exp}))
}

func TestMemoryRefresh_ConcurrentRotateSingleWinner(t *testing.T) {
	repo := NewMemoryRefreshTokenRepository()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, repo.Create(ctx, models.RefreshToken{ID: "r1", SessionID: "s1", ExpiresAt: exp}))

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			next := models.RefreshToken{ID: "next-" + string(rune('a'+i)), ExpiresAt: exp}
			if repo.Rotate(ctx, "r1", next) == nil {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestMemoryRefresh_DeleteExpired(t *testing.T) {
	repo := NewMemoryRefreshTokenRepository()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, models.RefreshToken{ID: "old", SessionID: "s1", ExpiresAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, repo.Create(ctx, models.RefreshToken{ID: "live", SessionID: "s1", ExpiresAt: now.Add(time.Hour)}))

	n, err := repo.DeleteExpired(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, repo.Rotate(ctx, "old", models.RefreshToken{ID: "x"}), ErrRefreshTokenNotFound)
	assert.NoError(t, repo.Rotate(ctx, "live", models.RefreshToken{ID: "y", ExpiresAt: now.Add(time.Hour)}))
}
