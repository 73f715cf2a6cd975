package service

import (
	"fmt"

	"github.com/MKhiriev/go-taskpro/internal/config"
	"github.com/MKhiriev/go-taskpro/internal/crypto"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/store"
)

type Services struct {
	AuthService   AuthService
	UserService   UserService
	TokenService  TokenService
	HealthService HealthService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	hasher, err := crypto.NewPasswordHasher(cfg.Auth.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("error creating password hasher: %w", err)
	}

	healthService, err := NewHealthService(cfg.App, storages.UserRepository, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating health service: %w", err)
	}

	notifier := NewLogNotifier(logger)
	tokenService := NewTokenService(storages.RefreshTokenRepository, cfg.Auth, logger)

	authService := NewAuthValidationService().Wrap(
		NewAuthService(storages.UserRepository, tokenService, hasher, notifier, cfg, logger),
	)
	userService := NewUserValidationService().Wrap(
		NewUserService(storages.UserRepository, storages.AvatarStorage, hasher, notifier, cfg.App, logger),
	)

	return &Services{
		AuthService:   authService,
		UserService:   userService,
		TokenService:  tokenService,
		HealthService: healthService,
	}, nil
}
