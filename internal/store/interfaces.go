package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-taskpro/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists TaskPro accounts.
//
// Emails are stored trimmed and lower-cased; lookups by email are
// case-insensitive. CreateUser fails with [ErrEmailAlreadyExists] when the
// email is taken, lookups fail with [ErrNoUserWasFound].
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByVerificationToken(ctx context.Context, token string) (models.User, error)
	UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error)
	MarkVerified(ctx context.Context, id string) (models.User, error)
	Ping(ctx context.Context) error
}

// RefreshTokenRepository keeps the server-side record of refresh rotations.
type RefreshTokenRepository interface {
	// Create stores the first rotation identifier of a new session.
	Create(ctx context.Context, token models.RefreshToken) error

	// Rotate atomically marks consumedID as used and stores next in its place.
	// It fails with [ErrRefreshTokenAlreadyUsed] when consumedID was
	// exchanged before, [ErrRefreshTokenRevoked] when its session was revoked
	// and [ErrRefreshTokenNotFound] when it is unknown.
	Rotate(ctx context.Context, consumedID string, next models.RefreshToken) error

	// RevokeSession revokes every rotation of the session.
	RevokeSession(ctx context.Context, sessionID string) error

	// DeleteExpired removes records that expired before the given instant.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// AvatarStorage stores uploaded avatar images.
type AvatarStorage interface {
	// SaveAvatar writes the image and returns the public path under which it
	// is served (e.g. "/avatars/<file>").
	SaveAvatar(ctx context.Context, userID string, avatar models.Avatar) (string, error)

	// Dir is the directory served under "/avatars".
	Dir() string
}
