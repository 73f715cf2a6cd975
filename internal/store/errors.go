package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when a user with the same email
	// (compared case-insensitively) is already registered.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoUserWasFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrRefreshTokenNotFound is returned when a refresh rotation identifier
	// is unknown to the store.
	ErrRefreshTokenNotFound = errors.New("refresh token was not found")

	// ErrRefreshTokenAlreadyUsed is returned when a rotation identifier that
	// has already been exchanged is presented again.
	ErrRefreshTokenAlreadyUsed = errors.New("refresh token was already used")

	// ErrRefreshTokenRevoked is returned when the rotation identifier belongs
	// to a revoked session.
	ErrRefreshTokenRevoked = errors.New("refresh token was revoked")

	// ErrNoPersistedSession is returned by the client token store when no
	// token pair has been saved.
	ErrNoPersistedSession = errors.New("no persisted session")

	// ErrAvatarNotSaved is returned when an avatar file could not be written.
	ErrAvatarNotSaved = errors.New("avatar was not saved")

	// ErrStorageUnavailable wraps transient backend failures (lost
	// connection, deadlock, server starting up).
	ErrStorageUnavailable = errors.New("storage is unavailable")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a result
	// row fails.
	ErrScanningRow = errors.New("failed to scan row")
)
