package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/models"
)

// localTokenStore is the SQLite-backed [TokenStore]. The table holds at most
// one row.
type localTokenStore struct {
	*DB
	logger *logger.Logger
}

func NewLocalTokenStore(db *DB, logger *logger.Logger) TokenStore {
	return &localTokenStore{
		DB:     db,
		logger: logger,
	}
}

func (l *localTokenStore) Load(ctx context.Context) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	var pair models.TokenPair
	err := l.DB.QueryRowContext(ctx, loadSession).Scan(&pair.AccessToken, &pair.RefreshToken)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TokenPair{}, ErrNoPersistedSession
	}
	if err != nil {
		log.Err(err).Str("func", "localTokenStore.Load").Msg("failed to load persisted session")
		return models.TokenPair{}, fmt.Errorf("failed to load persisted session: %w", err)
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return models.TokenPair{}, ErrNoPersistedSession
	}

	return pair, nil
}

func (l *localTokenStore) Save(ctx context.Context, pair models.TokenPair) error {
	log := logger.FromContext(ctx)

	if _, err := l.DB.ExecContext(ctx, saveSession, pair.AccessToken, pair.RefreshToken, time.Now().UTC()); err != nil {
		log.Err(err).Str("func", "localTokenStore.Save").Msg("failed to save session")
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (l *localTokenStore) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := l.DB.ExecContext(ctx, clearSession); err != nil {
		log.Err(err).Str("func", "localTokenStore.Clear").Msg("failed to clear session")
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}
