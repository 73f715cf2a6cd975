package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &DB{DB: db, logger: logger.Nop(), errorClassificator: NewPostgresErrorClassifier()}, mock
}

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	return &userRepository{db: db, logger: logger.Nop()}, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

var testUserColumns = []string{"id", "email", "name", "password_hash", "theme", "avatar_url", "verified", "verification_token", "created_at", "updated_at"}

func userRow(u models.User) *sqlmock.Rows {
	var token any
	if u.VerificationToken != "" {
		token = u.VerificationToken
	}
	return sqlmock.NewRows(testUserColumns).
		AddRow(u.ID, u.Email, u.Name, u.PasswordHash, string(u.Theme), u.AvatarURL, u.Verified, token, u.CreatedAt, u.UpdatedAt)
}

func sampleUser() models.User {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return models.User{
		ID:                "0195f0c2-0000-7000-8000-000000000001",
		Email:             "ann@example.com",
		Name:              "Ann",
		PasswordHash:      "$2a$10$hash",
		Theme:             models.ThemeLight,
		VerificationToken: "verify-me",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// ─── CreateUser ──────────────────────────────────────────────────────────────

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	user := sampleUser()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.ID, "ann@example.com", user.Name, user.PasswordHash, "light", "", false, sqlmock.AnyArg()).
		WillReturnRows(userRow(user))

	in := user
	in.Email = "  Ann@Example.COM "
	created, err := repo.CreateUser(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, user.ID, created.ID)
	assert.Equal(t, "ann@example.com", created.Email)
	assert.Equal(t, "verify-me", created.VerificationToken)
	assert.Equal(t, models.ThemeLight, created.Theme)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(context.Background(), sampleUser())
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(context.Background(), sampleUser())
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestCreateUser_ConnectionFailureIsUnavailable(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.ConnectionFailure))

	_, err := repo.CreateUser(context.Background(), sampleUser())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestCreateUser_ScanError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	rows := sqlmock.
		NewRows([]string{"id"}). // intentionally wrong shape → scan error
		AddRow("x")

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(rows)

	_, err := repo.CreateUser(context.Background(), sampleUser())
	if err == nil {
		t.Fatal("expected scan error, got nil")
	}
}

// ─── Find ────────────────────────────────────────────────────────────────────

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	user := sampleUser()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE lower\\(email\\) = lower\\(\\$1\\)").
		WithArgs("ANN@example.com").
		WillReturnRows(userRow(user))

	found, err := repo.FindUserByEmail(context.Background(), " ANN@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, user.PasswordHash, found.PasswordHash)
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestFindUserByID_NoRows(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(testUserColumns))

	_, err := repo.FindUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestFindUserByVerificationToken_NullToken(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	user := sampleUser()
	user.VerificationToken = ""
	user.Verified = true

	mock.ExpectQuery("SELECT (.+) FROM users WHERE verification_token = \\$1").
		WithArgs("tok").
		WillReturnRows(userRow(user))

	found, err := repo.FindUserByVerificationToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, found.VerificationToken)
	assert.True(t, found.Verified)
}

// ─── Update ──────────────────────────────────────────────────────────────────

func TestUpdateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	user := sampleUser()
	user.Name = "Anna"
	user.Theme = models.ThemeDark

	name := "Anna"
	theme := models.ThemeDark

	mock.ExpectQuery("UPDATE users SET name = \\$1, theme = \\$2, updated_at = NOW\\(\\) WHERE id = \\$3 RETURNING").
		WithArgs("Anna", "dark", user.ID).
		WillReturnRows(userRow(user))

	updated, err := repo.UpdateUser(context.Background(), user.ID, models.UserUpdate{Name: &name, Theme: &theme})
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.Name)
	assert.Equal(t, models.ThemeDark, updated.Theme)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_NormalizesEmail(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	user := sampleUser()
	email := " New@Example.com"

	mock.ExpectQuery("UPDATE users SET email = \\$1").
		WithArgs("new@example.com", user.ID).
		WillReturnRows(userRow(user))

	_, err := repo.UpdateUser(context.Background(), user.ID, models.UserUpdate{Email: &email})
	require.NoError(t, err)
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	email := "taken@example.com"

	mock.ExpectQuery("UPDATE users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.UpdateUser(context.Background(), "id", models.UserUpdate{Email: &email})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestUpdateUser_Empty(t *testing.T) {
	repo, _ := newTestUserRepo(t)

	_, err := repo.UpdateUser(context.Background(), "id", models.UserUpdate{})
	assert.ErrorIs(t, err, ErrBuildingSQLQuery)
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	name := "Anna"

	mock.ExpectQuery("UPDATE users").
		WillReturnRows(sqlmock.NewRows(testUserColumns))

	_, err := repo.UpdateUser(context.Background(), "missing", models.UserUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestMarkVerified(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	user := sampleUser()
	user.Verified = true
	user.VerificationToken = ""

	mock.ExpectQuery("UPDATE users SET verified = TRUE, verification_token = NULL").
		WithArgs(user.ID).
		WillReturnRows(userRow(user))

	verified, err := repo.MarkVerified(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, verified.Verified)
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	repo := &userRepository{db: &DB{DB: db, logger: logger.Nop()}, logger: logger.Nop()}

	mock.ExpectPing()
	require.NoError(t, repo.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(context.DeadlineExceeded)
	assert.ErrorIs(t, repo.Ping(context.Background()), ErrStorageUnavailable)
}
