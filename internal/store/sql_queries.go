package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-taskpro/models"
)

const userColumns = `id, email, name, password_hash, theme, avatar_url, verified, verification_token, created_at, updated_at`

const (
	createUser = `INSERT INTO users (id, email, name, password_hash, theme, avatar_url, verified, verification_token)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING ` + userColumns + `;`

	findUserByEmail = `SELECT ` + userColumns + `
    FROM users
    WHERE lower(email) = lower($1);`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE id = $1;`

	findUserByVerificationToken = `SELECT ` + userColumns + `
    FROM users
    WHERE verification_token = $1;`

	markUserVerified = `UPDATE users
    SET verified = TRUE, verification_token = NULL, updated_at = NOW()
    WHERE id = $1
    RETURNING ` + userColumns + `;`
)

const (
	createRefreshToken = `INSERT INTO refresh_tokens (id, session_id, user_id, expires_at)
    VALUES ($1, $2, $3, $4);`

	consumeRefreshToken = `UPDATE refresh_tokens
    SET consumed_at = NOW()
    WHERE id = $1 AND consumed_at IS NULL AND revoked_at IS NULL
    RETURNING session_id;`

	refreshTokenState = `SELECT consumed_at IS NOT NULL, revoked_at IS NOT NULL
    FROM refresh_tokens
    WHERE id = $1;`

	revokeRefreshSession = `UPDATE refresh_tokens
    SET revoked_at = NOW()
    WHERE session_id = $1 AND revoked_at IS NULL;`

	deleteExpiredRefreshTokens = `DELETE FROM refresh_tokens
    WHERE expires_at < $1;`
)

// buildUpdateUserQuery builds the partial UPDATE for the non-nil fields of
// update. The statement returns the full row.
func buildUpdateUserQuery(id string, update models.UserUpdate) (string, []any, error) {
	if update.IsEmpty() {
		return "", nil, fmt.Errorf("%w: nothing to update", ErrBuildingSQLQuery)
	}

	set := make(map[string]any, 5)
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.PasswordHash != nil {
		set["password_hash"] = *update.PasswordHash
	}
	if update.Theme != nil {
		set["theme"] = string(*update.Theme)
	}
	if update.AvatarURL != nil {
		set["avatar_url"] = *update.AvatarURL
	}

	query, args, err := sq.Update(models.User{}.TableName()).
		SetMap(set).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
