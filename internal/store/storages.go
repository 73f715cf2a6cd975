package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-taskpro/internal/config"
	"github.com/MKhiriev/go-taskpro/internal/logger"
)

// Storages groups the server-side repositories.
type Storages struct {
	UserRepository         UserRepository
	RefreshTokenRepository RefreshTokenRepository
	AvatarStorage          AvatarStorage

	db *DB
}

// NewStorages connects the configured backends. An empty DSN selects the
// in-memory repositories; otherwise PostgreSQL is opened and migrated.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	avatars := NewAvatarFileStorage(cfg.Files.AvatarDir)

	if cfg.DB.DSN == "" {
		logger.Warn().Msg("no database DSN configured, using in-memory storages")
		return &Storages{
			UserRepository:         NewMemoryUserRepository(),
			RefreshTokenRepository: NewMemoryRefreshTokenRepository(),
			AvatarStorage:          avatars,
		}, nil
	}

	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		UserRepository:         NewUserRepository(db, logger),
		RefreshTokenRepository: NewRefreshTokenRepository(db, logger),
		AvatarStorage:          avatars,
		db:                     db,
	}, nil
}

// Close releases the database connection, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
