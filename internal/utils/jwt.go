package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-taskpro/models"
	"github.com/golang-jwt/jwt/v5"
)

// JWTParams describes one token to be signed.
type JWTParams struct {
	Issuer    string
	UserID    string
	SessionID string
	TokenID   string
	Kind      models.TokenKind
	IssuedAt  time.Time
	Duration  time.Duration
	SignKey   string
}

// GenerateJWTToken creates a signed HMAC-SHA256 JWT with the claims described
// by p: iss, sub (user id), jti, iat, exp, kind and sid.
//
// All fields except IssuedAt are required; a zero IssuedAt means now.
func GenerateJWTToken(p JWTParams) (string, error) {
	if p.Issuer == "" || p.UserID == "" || p.SessionID == "" || p.TokenID == "" || p.Kind == "" || p.Duration <= 0 || p.SignKey == "" {
		return "", errors.New("invalid params for generating JWT Token")
	}

	now := p.IssuedAt
	if now.IsZero() {
		now = time.Now()
	}

	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.UserID,
			ID:        p.TokenID,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.Duration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Kind:      p.Kind,
		SessionID: p.SessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(p.SignKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return tokenString, nil
}

// JWTValidation holds the checks applied by ValidateAndParseJWTToken.
type JWTValidation struct {
	SignKey string
	Issuer  string
	Kind    models.TokenKind
	Leeway  time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// ErrWrongTokenKind is returned when an access token is presented where a
// refresh token is expected or vice versa.
var ErrWrongTokenKind = errors.New("wrong token kind")

// ValidateAndParseJWTToken validates tokenString and extracts its claims.
//
// Validation includes the HS256 signature, the issuer, a required exp (with
// v.Leeway tolerance), a non-empty subject, jti and sid, and the token kind.
// jwt sentinel errors (jwt.ErrTokenExpired, jwt.ErrTokenMalformed,
// jwt.ErrTokenSignatureInvalid, ...) are preserved in the error chain.
func ValidateAndParseJWTToken(tokenString string, v JWTValidation) (models.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.Leeway),
	}
	if v.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(v.Now))
	}

	var claims models.Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(v.SignKey), nil
	}, opts...)
	if err != nil {
		return models.Claims{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Subject == "" || claims.ID == "" || claims.SessionID == "" {
		return models.Claims{}, fmt.Errorf("%w: missing sub, jti or sid", jwt.ErrTokenMalformed)
	}
	if claims.Kind != v.Kind {
		return models.Claims{}, fmt.Errorf("%w: got %q, want %q", ErrWrongTokenKind, claims.Kind, v.Kind)
	}

	return claims, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
