// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the client's typed view of the TaskPro auth API.
//
// [ServerAdapter] hides the transport from the session layer. The package
// ships an HTTP implementation on resty ([NewHTTPServerAdapter]). Failed
// responses come back as [*APIError] values that carry the server message
// and match the sentinels in errors.go with [errors.Is] (for example
// [ErrUnauthorized] for 401 and [ErrConflict] for 409).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-taskpro/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// Authorizer holds the bearer token attached to authenticated requests. It
// is safe for concurrent use.
type Authorizer interface {
	// SetToken replaces the token. An empty token disables the header.
	SetToken(token string)

	// Token returns the current token, or "" when none is set.
	Token() string
}

// ServerAdapter is the transport-agnostic client of the auth API. Calls
// marked authenticated send the [Authorizer] token as a bearer header.
// None of the methods change the token by themselves; the caller decides
// when a new pair takes effect.
type ServerAdapter interface {
	Authorizer

	// Register creates an account and returns the server's confirmation
	// message. No tokens are issued.
	Register(ctx context.Context, req models.RegisterRequest) (string, error)

	// Login exchanges credentials for the user and a token pair.
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)

	// Logout revokes the session that accessToken belongs to. It sends
	// accessToken instead of the [Authorizer] token, so a pair that never
	// became current can still be signed out.
	Logout(ctx context.Context, accessToken string) error

	// Current returns the signed-in user. Authenticated.
	Current(ctx context.Context) (models.User, error)

	// Refresh rotates refreshToken into a new pair.
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)

	// UpdateProfile changes the non-nil fields and, when avatar is set,
	// uploads it as a multipart form. Authenticated.
	UpdateProfile(ctx context.Context, req models.ProfileUpdateRequest, avatar *models.Avatar) (models.User, error)

	// ChangeTheme switches the UI theme. Authenticated.
	ChangeTheme(ctx context.Context, theme models.Theme) (models.User, error)

	// NeedHelp sends a support request and returns the server's
	// acknowledgement. Authenticated.
	NeedHelp(ctx context.Context, req models.HelpRequest) (string, error)

	// Health fetches the server report. A degraded server returns the
	// report together with an [ErrServerUnavailable] error.
	Health(ctx context.Context) (models.Health, error)
}
