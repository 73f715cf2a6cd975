package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRefreshRepo(t *testing.T) (*refreshTokenRepository, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	return &refreshTokenRepository{db: db, logger: logger.Nop()}, mock
}

func nextToken() models.RefreshToken {
	return models.RefreshToken{
		ID:        "next-id",
		SessionID: "sid-1",
		UserID:    "user-1",
		ExpiresAt: time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC),
	}
}

func TestRefreshCreate(t *testing.T) {
	repo, mock := newTestRefreshRepo(t)
	tok := nextToken()

	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(tok.ID, tok.SessionID, tok.UserID, tok.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), tok))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshCreate_Error(t *testing.T) {
	repo, mock := newTestRefreshRepo(t)

	mock.ExpectExec("INSERT INTO refresh_tokens").
		WillReturnError(pgError(pgerrcode.ForeignKeyViolation))

	err := repo.Create(context.Background(), nextToken())
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NotErrorIs(t, err, ErrStorageUnavailable)
}

func TestRotate_Success(t *testing.T) {
	repo, mock := newTestRefreshRepo(t)
	tok := nextToken()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE refresh_tokens SET consumed_at = NOW\\(\\) WHERE id = \\$1 AND consumed_at IS NULL AND revoked_at IS NULL").
		WithArgs("old-id").
		WillReturnRows(sqlmock.NewRows([]string{"session_id"}).AddRow("sid-1"))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(tok.ID, tok.SessionID, tok.UserID, tok.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Rotate(context.Background(), "old-id", tok))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRotate_InheritsSessionID(t *testing.T) {
	repo, mock := newTestRefreshRepo(t)
	tok := nextToken()
	tok.SessionID = ""

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE refresh_tokens").
		WillReturnRows(sqlmock.NewRows([]string{"session_id"}).AddRow("sid-from-db"))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(tok.ID, "sid-from-db", tok.UserID, tok.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Rotate(context.Background(), "old-id", tok))
}

func TestRotate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		stateRow *sqlmock.Rows
		stateErr error
		want     error
	}{
		{
			name:     "already consumed",
			stateRow: sqlmock.NewRows([]string{"consumed", "revoked"}).AddRow(true, false),
			want:     ErrRefreshTokenAlreadyUsed,
		},
		{
			name:     "consumed in a revoked family",
			stateRow: sqlmock.NewRows([]string{"consumed", "revoked"}).AddRow(true, true),
			want:     ErrRefreshTokenAlreadyUsed,
		},
		{
			name:     "revoked family",
			stateRow: sqlmock.NewRows([]string{"consumed", "revoked"}).AddRow(false, true),
			want:     ErrRefreshTokenRevoked,
		},
		{
			name:     "unknown id",
			stateErr: sql.ErrNoRows,
			want:     ErrRefreshTokenNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRefreshRepo(t)

			mock.ExpectBegin()
			mock.ExpectQuery("UPDATE refresh_tokens").
				WithArgs("old-id").
				WillReturnRows(sqlmock.NewRows([]string{"session_id"}))
			q := mock.ExpectQuery("SELECT consumed_at IS NOT NULL, revoked_at IS NOT NULL FROM refresh_tokens").
				WithArgs("old-id")
			if tt.stateErr != nil {
				q.WillReturnError(tt.stateErr)
			} else {
				q.WillReturnRows(tt.stateRow)
			}
			mock.ExpectRollback()

			err := repo.Rotate(context.Background(), "old-id", nextToken())
			assert.ErrorIs(t, err, tt.want)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRotate_BeginError(t *testing.T) {
	repo, mock := newTestRefreshRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	err := repo.Rotate(context.Background(), "old-id", nextToken())
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

func TestRotate_InsertErrorRollsBack(t *testing.T) {
	repo, mock := newTestRefreshRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE refresh_tokens").
		WillReturnRows(sqlmock.NewRows([]string{"session_id"}).AddRow("sid-1"))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WillReturnError(pgError(pgerrcode.DeadlockDetected))
	mock.ExpectRollback()

	err := repo.Rotate(context.Background(), "old-id", nextToken())
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRotate_CommitError(t *testing.T) {
	repo, mock := newTestRefreshRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE refresh_tokens").
		WillReturnRows(sqlmock.NewRows([]string{"session_id"}).AddRow("sid-1"))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err := repo.Rotate(context.Background(), "old-id", nextToken())
	assert.ErrorIs(t, err, ErrCommitingTransaction)
}

func TestRevokeSession(t *testing.T) {
	repo, mock := newTestRefreshRepo(t)

	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at = NOW\\(\\) WHERE session_id = \\$1").
		WithArgs("sid-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.RevokeSession(context.Background(), "sid-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExpired(t *testing.T) {
	repo, mock := newTestRefreshRepo(t)
	before := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM refresh_tokens WHERE expires_at < \\$1").
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteExpired(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestDeleteExpired_Error(t *testing.T) {
	repo, mock := newTestRefreshRepo(t)

	mock.ExpectExec("DELETE FROM refresh_tokens").
		WillReturnError(errors.New("boom"))

	_, err := repo.DeleteExpired(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrExecutingStatement)
}
