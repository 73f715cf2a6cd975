package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes access tokens from refresh tokens.
// A token of one kind is never accepted where the other is expected.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenPair is the credential pair handed to a client on login and on every
// refresh rotation.
type TokenPair struct {
	// AccessToken is the short-lived bearer credential.
	AccessToken string `json:"accessToken"`

	// RefreshToken is the single-use credential exchanged for a new pair.
	RefreshToken string `json:"refreshToken"`
}

// Claims is the JWT claim set of both token kinds.
//
// Subject holds the user id. For refresh tokens ID ("jti") is the rotation
// identifier that is consumed on exchange. SessionID ties every token of one
// login to the same rotation family.
type Claims struct {
	jwt.RegisteredClaims

	Kind      TokenKind `json:"kind"`
	SessionID string    `json:"sid"`
}

// RefreshToken is the server-side record of one refresh rotation identifier.
type RefreshToken struct {
	// ID is the rotation identifier, equal to the "jti" claim of the token.
	ID string

	// SessionID groups all rotations descending from one login.
	SessionID string

	UserID    string
	ExpiresAt time.Time

	// ConsumedAt is set when the token has been exchanged.
	ConsumedAt *time.Time

	// RevokedAt is set on logout or when replay revoked the family.
	RevokedAt *time.Time

	CreatedAt time.Time
}

// TableName returns the name of the database table
// associated with the RefreshToken model.
func (t RefreshToken) TableName() string {
	return "refresh_tokens"
}
