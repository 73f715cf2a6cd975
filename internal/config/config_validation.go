// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// validate checks that the final merged [StructuredConfig] can run the
// server.
func (cfg *StructuredConfig) validate() error {
	switch cfg.App.Environment {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("%w: unknown environment %q", ErrInvalidAppConfigs, cfg.App.Environment)
	}

	a := cfg.Auth
	if a.AccessTokenKey == "" || a.RefreshTokenKey == "" {
		return fmt.Errorf("%w: access and refresh token keys are required", ErrInvalidAuthConfigs)
	}
	if a.AccessTokenKey == a.RefreshTokenKey {
		return fmt.Errorf("%w: access and refresh token keys must differ", ErrInvalidAuthConfigs)
	}
	if a.AccessTokenDuration <= 0 || a.RefreshTokenDuration <= a.AccessTokenDuration {
		return fmt.Errorf("%w: refresh token must outlive access token", ErrInvalidAuthConfigs)
	}
	if a.ClockSkew < 0 || a.ClockSkew >= a.AccessTokenDuration {
		return fmt.Errorf("%w: clock skew out of range", ErrInvalidAuthConfigs)
	}
	if a.PasswordHashCost < bcrypt.MinCost || a.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: password hash cost %d", ErrInvalidAuthConfigs, a.PasswordHashCost)
	}

	s := cfg.Security
	if s.GeneralRateLimit <= 0 || s.AuthRateLimit <= 0 || s.GeneralRateWindow <= 0 || s.AuthRateWindow <= 0 {
		return ErrInvalidSecurityConfigs
	}
	if s.MaxBodyBytes <= 0 {
		return ErrInvalidSecurityConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Workers.TokenPurgeInterval <= 0 || cfg.Workers.LimiterSweepInterval <= 0 || cfg.Workers.HealthInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.RefreshInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
