package store

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-taskpro/models"
)

// memoryRefreshTokenRepository keeps rotation records in process memory.
type memoryRefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
	now    func() time.Time
}

func NewMemoryRefreshTokenRepository() RefreshTokenRepository {
	return &memoryRefreshTokenRepository{
		tokens: make(map[string]models.RefreshToken),
		now:    time.Now,
	}
}

func (m *memoryRefreshTokenRepository) Create(_ context.Context, token models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token.CreatedAt.IsZero() {
		token.CreatedAt = m.now().UTC()
	}
	m.tokens[token.ID] = token
	return nil
}

func (m *memoryRefreshTokenRepository) Rotate(_ context.Context, consumedID string, next models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.tokens[consumedID]
	switch {
	case !ok:
		return ErrRefreshTokenNotFound
	case current.ConsumedAt != nil:
		return ErrRefreshTokenAlreadyUsed
	case current.RevokedAt != nil:
		return ErrRefreshTokenRevoked
	}

	now := m.now().UTC()
	current.ConsumedAt = &now
	m.tokens[consumedID] = current

	if next.SessionID == "" {
		next.SessionID = current.SessionID
	}
	if next.CreatedAt.IsZero() {
		next.CreatedAt = now
	}
	m.tokens[next.ID] = next

	return nil
}

func (m *memoryRefreshTokenRepository) RevokeSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	for id, token := range m.tokens {
		if token.SessionID == sessionID && token.RevokedAt == nil {
			token.RevokedAt = &now
			m.tokens[id] = token
		}
	}
	return nil
}

func (m *memoryRefreshTokenRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, token := range m.tokens {
		if token.ExpiresAt.Before(before) {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}
