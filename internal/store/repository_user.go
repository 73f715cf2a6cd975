package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookup and partial updates against the
// "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns it as stored.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) on lower(email) → [ErrEmailAlreadyExists].
//   - Connection-class failures → [ErrStorageUnavailable].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser,
		user.ID,
		strings.ToLower(strings.TrimSpace(user.Email)),
		user.Name,
		user.PasswordHash,
		string(user.Theme),
		user.AvatarURL,
		user.Verified,
		nullString(user.VerificationToken),
	)

	created, err := scanUser(row)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")
		return models.User{}, r.userError(err)
	}

	return created, nil
}

// FindUserByEmail looks a user up by email, ignoring letter case.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByEmail", findUserByEmail, strings.TrimSpace(email))
}

// FindUserByID looks a user up by identifier.
func (r *userRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByID", findUserByID, id)
}

// FindUserByVerificationToken looks up the user whose confirmation link
// carries token.
func (r *userRepository) FindUserByVerificationToken(ctx context.Context, token string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByVerificationToken", findUserByVerificationToken, token)
}

// UpdateUser writes the non-nil fields of update and returns the updated
// row. A changed email colliding with another account fails with
// [ErrEmailAlreadyExists].
func (r *userRepository) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	if update.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*update.Email))
		update.Email = &normalized
	}

	query, args, err := buildUpdateUserQuery(id, update)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error building update query")
		return models.User{}, err
	}

	updated, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error updating user")
		return models.User{}, r.userError(err)
	}

	return updated, nil
}

// MarkVerified confirms the user's email and clears the verification token.
func (r *userRepository) MarkVerified(ctx context.Context, id string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.MarkVerified", markUserVerified, id)
}

func (r *userRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *userRepository) findOne(ctx context.Context, funcName, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Err(err).Str("func", funcName).Msg("error querying user")
		}
		return models.User{}, r.userError(err)
	}

	return user, nil
}

func (r *userRepository) userError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoUserWasFound
	}

	switch r.db.classify(err) {
	case Duplicate:
		return ErrEmailAlreadyExists
	case Missing:
		return ErrNoUserWasFound
	}

	return r.db.wrapError(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user              models.User
		theme             string
		verificationToken sql.NullString
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&theme,
		&user.AvatarURL,
		&user.Verified,
		&verificationToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	user.Theme = models.Theme(theme)
	user.VerificationToken = verificationToken.String

	return user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
