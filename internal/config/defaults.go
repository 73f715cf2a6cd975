package config

import "time"

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"https://taskpro-frontend.vercel.app",
}

// defaults returns the values used for every field no other source set.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Environment:  EnvDevelopment,
			Version:      "1.0.0",
			LogLevel:     "info",
			PublicURL:    "http://localhost:8080",
			SupportEmail: "taskpro.project@gmail.com",
		},
		Auth: Auth{
			TokenIssuer:          "taskpro",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
			ClockSkew:            5 * time.Second,
			PasswordHashCost:     10,
		},
		Security: Security{
			GeneralRateLimit:  100,
			GeneralRateWindow: 15 * time.Minute,
			AuthRateLimit:     5,
			AuthRateWindow:    15 * time.Minute,
			MaxBodyBytes:      10 << 20,
		},
		Storage: Storage{
			Files: Files{AvatarDir: "public/avatars"},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Adapter: Adapter{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		Workers: Workers{
			LimiterSweepInterval: time.Minute,
			TokenPurgeInterval:   time.Hour,
			HealthInterval:       15 * time.Second,
			TokenRefreshInterval: 10 * time.Minute,
		},
	}
}
