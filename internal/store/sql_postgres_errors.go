package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification is what a repository needs to know about a failed
// statement to pick the error it returns.
type ErrorClassification int

const (
	// Unexpected covers everything not listed below.
	Unexpected ErrorClassification = iota

	// Transient failures may succeed later: lost connections, deadlocks,
	// serialization conflicts and server shutdowns. They surface as
	// [ErrStorageUnavailable].
	Transient

	// Duplicate is a unique-constraint violation.
	Duplicate

	// Missing means the statement referenced a row that does not exist.
	Missing
)

// PostgresErrorClassifier implements [ErrorClassificator] for errors of the
// pgx driver.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify unwraps err to a *pgconn.PgError and maps its SQLSTATE. Errors
// of other drivers are [Unexpected].
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return Unexpected
	}
	return classifyCode(pgErr.Code)
}

// classifyCode follows
// https://www.postgresql.org/docs/current/errcodes-appendix.html.
func classifyCode(code string) ErrorClassification {
	switch code {
	case pgerrcode.UniqueViolation:
		return Duplicate
	case pgerrcode.NoDataFound, pgerrcode.ForeignKeyViolation:
		return Missing
	case pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected,
		pgerrcode.AdminShutdown,
		pgerrcode.CrashShutdown,
		pgerrcode.CannotConnectNow:
		return Transient
	}

	if pgerrcode.IsConnectionException(code) || pgerrcode.IsTransactionRollback(code) {
		return Transient
	}
	return Unexpected
}
