package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-taskpro/internal/config"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/store"
	"github.com/MKhiriev/go-taskpro/internal/utils"
	"github.com/MKhiriev/go-taskpro/models"
	"github.com/golang-jwt/jwt/v5"
)

// tokenService is the JWT implementation of [TokenService].
//
// Access and refresh tokens are signed with separate keys. Every login gets
// a session id ("sid"); every refresh token carries a rotation id ("jti")
// recorded in the refresh repository and consumed exactly once.
type tokenService struct {
	refreshTokens store.RefreshTokenRepository

	accessKey  string
	refreshKey string
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration

	ids *utils.UUIDGenerator
	now func() time.Time

	logger *logger.Logger
}

func NewTokenService(refreshTokens store.RefreshTokenRepository, cfg config.Auth, logger *logger.Logger) TokenService {
	return &tokenService{
		refreshTokens: refreshTokens,
		accessKey:     cfg.AccessTokenKey,
		refreshKey:    cfg.RefreshTokenKey,
		issuer:        cfg.TokenIssuer,
		accessTTL:     cfg.AccessTokenDuration,
		refreshTTL:    cfg.RefreshTokenDuration,
		leeway:        cfg.ClockSkew,
		ids:           utils.NewUUIDGenerator(),
		now:           time.Now,
		logger:        logger,
	}
}

func (s *tokenService) Issue(ctx context.Context, userID string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	sessionID := s.ids.Generate()
	pair, record, err := s.mint(userID, sessionID)
	if err != nil {
		return models.TokenPair{}, err
	}

	if err = s.refreshTokens.Create(ctx, record); err != nil {
		log.Err(err).Str("func", "*tokenService.Issue").Str("user_id", userID).Msg("error storing refresh token")
		return models.TokenPair{}, fmt.Errorf("error storing refresh token: %w", err)
	}

	return pair, nil
}

func (s *tokenService) VerifyAccess(_ context.Context, accessToken string) (models.Claims, error) {
	claims, err := utils.ValidateAndParseJWTToken(accessToken, s.validation(s.accessKey, models.TokenKindAccess))
	if err != nil {
		return models.Claims{}, tokenError(err)
	}

	return claims, nil
}

func (s *tokenService) RotateRefresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	claims, err := utils.ValidateAndParseJWTToken(refreshToken, s.validation(s.refreshKey, models.TokenKindRefresh))
	if err != nil {
		return models.TokenPair{}, tokenError(err)
	}

	pair, next, err := s.mint(claims.Subject, claims.SessionID)
	if err != nil {
		return models.TokenPair{}, err
	}

	err = s.refreshTokens.Rotate(ctx, claims.ID, next)
	switch {
	case err == nil:
		return pair, nil

	case errors.Is(err, store.ErrRefreshTokenAlreadyUsed):
		log.Warn().
			Str("func", "*tokenService.RotateRefresh").
			Str("user_id", claims.Subject).
			Str("session_id", claims.SessionID).
			Msg("refresh token replay detected, revoking session")
		if revokeErr := s.refreshTokens.RevokeSession(ctx, claims.SessionID); revokeErr != nil {
			log.Err(revokeErr).Str("func", "*tokenService.RotateRefresh").Msg("error revoking replayed session")
		}
		return models.TokenPair{}, ErrTokenReplay

	case errors.Is(err, store.ErrRefreshTokenRevoked), errors.Is(err, store.ErrRefreshTokenNotFound):
		return models.TokenPair{}, ErrTokenRevoked
	}

	log.Err(err).Str("func", "*tokenService.RotateRefresh").Msg("error rotating refresh token")
	return models.TokenPair{}, fmt.Errorf("error rotating refresh token: %w", err)
}

func (s *tokenService) RevokeSession(ctx context.Context, sessionID string) error {
	if err := s.refreshTokens.RevokeSession(ctx, sessionID); err != nil {
		return fmt.Errorf("error revoking session: %w", err)
	}
	return nil
}

// PurgeExpired keeps records for one extra refresh lifetime so that a late
// replay is still reported as revoked rather than unknown.
func (s *tokenService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.refreshTokens.DeleteExpired(ctx, s.now().Add(-s.refreshTTL))
}

// mint signs an access/refresh pair for the session and returns the
// refresh record to persist.
func (s *tokenService) mint(userID, sessionID string) (models.TokenPair, models.RefreshToken, error) {
	now := s.now()
	refreshID := s.ids.Generate()

	access, err := utils.GenerateJWTToken(utils.JWTParams{
		Issuer:    s.issuer,
		UserID:    userID,
		SessionID: sessionID,
		TokenID:   s.ids.Generate(),
		Kind:      models.TokenKindAccess,
		IssuedAt:  now,
		Duration:  s.accessTTL,
		SignKey:   s.accessKey,
	})
	if err != nil {
		return models.TokenPair{}, models.RefreshToken{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	refresh, err := utils.GenerateJWTToken(utils.JWTParams{
		Issuer:    s.issuer,
		UserID:    userID,
		SessionID: sessionID,
		TokenID:   refreshID,
		Kind:      models.TokenKindRefresh,
		IssuedAt:  now,
		Duration:  s.refreshTTL,
		SignKey:   s.refreshKey,
	})
	if err != nil {
		return models.TokenPair{}, models.RefreshToken{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	record := models.RefreshToken{
		ID:        refreshID,
		SessionID: sessionID,
		UserID:    userID,
		// jwt NumericDate truncates to seconds
		ExpiresAt: now.Add(s.refreshTTL).Truncate(time.Second),
		CreatedAt: now,
	}

	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, record, nil
}

func (s *tokenService) validation(key string, kind models.TokenKind) utils.JWTValidation {
	return utils.JWTValidation{
		SignKey: key,
		Issuer:  s.issuer,
		Kind:    kind,
		Leeway:  s.leeway,
		Now:     s.now,
	}
}

// tokenError collapses jwt validation failures into the three token
// failure kinds.
func tokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenInvalidSignature
	default:
		return ErrTokenMalformed
	}
}
