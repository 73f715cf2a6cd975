// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net"

	"github.com/caarlos0/env/v11"
)

// legacyEnv holds the variable names older TaskPro deployments set. Each
// one only fills a field the structured variables left empty.
type legacyEnv struct {
	// Env: NODE_ENV
	Environment string `env:"NODE_ENV"`
	// Env: PORT
	Port string `env:"PORT"`
	// Env: FRONTEND_URL
	FrontendURL string `env:"FRONTEND_URL"`
}

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Struct fields are mapped via their `env` and `envPrefix` tags
// defined on [StructuredConfig] and its nested types; the legacy names are
// applied afterwards.
//
// Returns a wrapped error if env.Parse fails (e.g. a value cannot be
// converted to the target type).
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	legacy, err := env.ParseAs[legacyEnv]()
	if err != nil {
		return fmt.Errorf("error getting legacy env configs: %w", err)
	}
	applyLegacyEnv(cfg, legacy)

	return nil
}

func applyLegacyEnv(cfg *StructuredConfig, legacy legacyEnv) {
	if cfg.App.Environment == "" {
		cfg.App.Environment = legacy.Environment
	}
	if cfg.Server.HTTPAddress == "" && legacy.Port != "" {
		cfg.Server.HTTPAddress = net.JoinHostPort("", legacy.Port)
	}
	if cfg.Security.FrontendURL == "" {
		cfg.Security.FrontendURL = legacy.FrontendURL
	}
}
