package service

import (
	"context"

	"github.com/MKhiriev/go-taskpro/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService owns the account lifecycle: registration, email confirmation,
// login and the refresh-token session.
type AuthService interface {
	// Register creates an unconfirmed account and sends the confirmation
	// link. No tokens are issued.
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)

	// Login checks credentials and opens a new session.
	Login(ctx context.Context, req models.LoginRequest) (models.User, models.TokenPair, error)

	// Verify confirms the account owning verificationToken.
	Verify(ctx context.Context, verificationToken string) (models.User, error)

	// ResendVerification sends the confirmation link again. It succeeds
	// whether or not the email belongs to an unconfirmed account.
	ResendVerification(ctx context.Context, req models.VerifyEmailRequest) error

	// Refresh exchanges a refresh token for a new pair.
	Refresh(ctx context.Context, req models.RefreshRequest) (models.TokenPair, error)

	// Logout revokes the session.
	Logout(ctx context.Context, sessionID string) error

	// Current returns the account of the authenticated user.
	Current(ctx context.Context, userID string) (models.User, error)
}

// UserService changes profile data of an authenticated user.
type UserService interface {
	// UpdateProfile applies the non-nil fields of req and, when avatar is not
	// nil, stores the new avatar.
	UpdateProfile(ctx context.Context, userID string, req models.ProfileUpdateRequest, avatar *models.Avatar) (models.User, error)

	ChangeTheme(ctx context.Context, userID string, req models.ThemeRequest) (models.User, error)

	// RequestHelp forwards the user's comment to support.
	RequestHelp(ctx context.Context, userID string, req models.HelpRequest) error
}

// TokenService issues and verifies the JWT pair and keeps refresh rotation
// single-use.
type TokenService interface {
	// Issue starts a new session for userID.
	Issue(ctx context.Context, userID string) (models.TokenPair, error)

	// VerifyAccess validates an access token and returns its claims.
	VerifyAccess(ctx context.Context, accessToken string) (models.Claims, error)

	// RotateRefresh consumes refreshToken and returns its successor pair.
	// Presenting a consumed token fails with ErrTokenReplay and revokes the
	// session.
	RotateRefresh(ctx context.Context, refreshToken string) (models.TokenPair, error)

	// RevokeSession makes every refresh token of the session unusable.
	RevokeSession(ctx context.Context, sessionID string) error

	// PurgeExpired deletes refresh records that are long expired.
	PurgeExpired(ctx context.Context) (int64, error)
}

// HealthService reports the liveness of the server and its storage.
type HealthService interface {
	Check(ctx context.Context) models.Health
	GetAppVersion(ctx context.Context) string
}

// Notifier delivers messages to users and to support.
type Notifier interface {
	SendNotification(ctx context.Context, to, subject, body string) error
}

// AuthServiceWrapper defines middleware composition for AuthService.
// Implementations wrap an existing AuthService to add behavior such as
// validation.
type AuthServiceWrapper interface {
	Wrap(AuthService) AuthService
}

// UserServiceWrapper defines middleware composition for UserService.
type UserServiceWrapper interface {
	Wrap(UserService) UserService
}
