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

// refreshTokenRepository is the PostgreSQL-backed [RefreshTokenRepository].
type refreshTokenRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewRefreshTokenRepository(db *DB, logger *logger.Logger) RefreshTokenRepository {
	logger.Debug().Msg("creating refresh token repository")
	return &refreshTokenRepository{
		db:     db,
		logger: logger,
	}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token models.RefreshToken) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, createRefreshToken, token.ID, token.SessionID, token.UserID, token.ExpiresAt); err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.Create").Msg("error inserting refresh token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapError(err))
	}

	return nil
}

// Rotate consumes consumedID and inserts next inside one transaction.
//
// The conditional UPDATE is the single point of serialization: of two
// concurrent exchanges of the same identifier exactly one sees a row.
func (r *refreshTokenRepository) Rotate(ctx context.Context, consumedID string, next models.RefreshToken) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.Rotate").Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, r.db.wrapError(err))
	}
	defer tx.Rollback()

	var sessionID string
	err = tx.QueryRowContext(ctx, consumeRefreshToken, consumedID).Scan(&sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return r.rejectionReason(ctx, tx, consumedID)
	}
	if err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.Rotate").Msg("error consuming refresh token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapError(err))
	}

	if next.SessionID == "" {
		next.SessionID = sessionID
	}

	if _, err = tx.ExecContext(ctx, createRefreshToken, next.ID, next.SessionID, next.UserID, next.ExpiresAt); err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.Rotate").Msg("error inserting successor refresh token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapError(err))
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.Rotate").Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, r.db.wrapError(err))
	}

	return nil
}

// rejectionReason tells apart the three ways a conditional consume can miss.
// A consumed identifier stays a replay after its family is revoked.
func (r *refreshTokenRepository) rejectionReason(ctx context.Context, tx *sql.Tx, id string) error {
	var consumed, revoked bool
	err := tx.QueryRowContext(ctx, refreshTokenState, id).Scan(&consumed, &revoked)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrRefreshTokenNotFound
	case err != nil:
		return fmt.Errorf("%w: %w", ErrScanningRow, r.db.wrapError(err))
	case consumed:
		return ErrRefreshTokenAlreadyUsed
	case revoked:
		return ErrRefreshTokenRevoked
	}

	return ErrRefreshTokenNotFound
}

func (r *refreshTokenRepository) RevokeSession(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, revokeRefreshSession, sessionID); err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.RevokeSession").Msg("error revoking session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapError(err))
	}

	return nil
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredRefreshTokens, before)
	if err != nil {
		r.logger.Err(err).Str("func", "*refreshTokenRepository.DeleteExpired").Msg("error deleting expired refresh tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapError(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, r.db.wrapError(err)
	}

	return n, nil
}
