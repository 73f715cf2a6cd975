package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk shape of the optional JSON config file.
type StructuredJSONConfig struct {
	App struct {
		Environment  string `json:"environment"`
		Version      string `json:"version"`
		LogLevel     string `json:"log_level"`
		PublicURL    string `json:"public_url"`
		SupportEmail string `json:"support_email"`
	} `json:"app,omitempty"`

	Auth struct {
		AccessTokenKey        string   `json:"access_token_key"`
		RefreshTokenKey       string   `json:"refresh_token_key"`
		TokenIssuer           string   `json:"token_issuer"`
		AccessTokenDuration   Duration `json:"access_token_duration"`
		RefreshTokenDuration  Duration `json:"refresh_token_duration"`
		ClockSkew             Duration `json:"clock_skew"`
		PasswordHashCost      int      `json:"password_hash_cost"`
		AllowUnconfirmedLogin bool     `json:"allow_unconfirmed_login"`
	} `json:"auth,omitempty"`

	Security struct {
		FrontendURL       string   `json:"frontend_url"`
		AllowedOrigins    []string `json:"allowed_origins"`
		StrictOrigins     bool     `json:"strict_origins"`
		TrustProxy        bool     `json:"trust_proxy"`
		GeneralRateLimit  int      `json:"general_rate_limit"`
		GeneralRateWindow Duration `json:"general_rate_window"`
		AuthRateLimit     int      `json:"auth_rate_limit"`
		AuthRateWindow    Duration `json:"auth_rate_window"`
		MaxBodyBytes      int64    `json:"max_body_bytes"`
	} `json:"security,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Redis struct {
			Address  string `json:"address"`
			Password string `json:"password"`
			DB       int    `json:"db"`
		} `json:"redis,omitempty"`

		Files struct {
			AvatarDir string `json:"avatar_dir"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		LimiterSweepInterval Duration `json:"limiter_sweep_interval"`
		TokenPurgeInterval   Duration `json:"token_purge_interval"`
		HealthInterval       Duration `json:"health_interval"`
		TokenRefreshInterval Duration `json:"token_refresh_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var j StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&j); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Environment:  j.App.Environment,
			Version:      j.App.Version,
			LogLevel:     j.App.LogLevel,
			PublicURL:    j.App.PublicURL,
			SupportEmail: j.App.SupportEmail,
		},
		Auth: Auth{
			AccessTokenKey:        j.Auth.AccessTokenKey,
			RefreshTokenKey:       j.Auth.RefreshTokenKey,
			TokenIssuer:           j.Auth.TokenIssuer,
			AccessTokenDuration:   time.Duration(j.Auth.AccessTokenDuration),
			RefreshTokenDuration:  time.Duration(j.Auth.RefreshTokenDuration),
			ClockSkew:             time.Duration(j.Auth.ClockSkew),
			PasswordHashCost:      j.Auth.PasswordHashCost,
			AllowUnconfirmedLogin: j.Auth.AllowUnconfirmedLogin,
		},
		Security: Security{
			FrontendURL:       j.Security.FrontendURL,
			AllowedOrigins:    j.Security.AllowedOrigins,
			StrictOrigins:     j.Security.StrictOrigins,
			TrustProxy:        j.Security.TrustProxy,
			GeneralRateLimit:  j.Security.GeneralRateLimit,
			GeneralRateWindow: time.Duration(j.Security.GeneralRateWindow),
			AuthRateLimit:     j.Security.AuthRateLimit,
			AuthRateWindow:    time.Duration(j.Security.AuthRateWindow),
			MaxBodyBytes:      j.Security.MaxBodyBytes,
		},
		Storage: Storage{
			DB: DB{
				DSN: j.Storage.DB.DSN,
			},
			Redis: Redis{
				Address:  j.Storage.Redis.Address,
				Password: j.Storage.Redis.Password,
				DB:       j.Storage.Redis.DB,
			},
			Files: Files{
				AvatarDir: j.Storage.Files.AvatarDir,
			},
		},
		Server: Server{
			HTTPAddress:    j.Server.HTTPAddress,
			GRPCAddress:    j.Server.GRPCAddress,
			RequestTimeout: time.Duration(j.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    j.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(j.Adapter.RequestTimeout),
		},
		Workers: Workers{
			LimiterSweepInterval: time.Duration(j.Workers.LimiterSweepInterval),
			TokenPurgeInterval:   time.Duration(j.Workers.TokenPurgeInterval),
			HealthInterval:       time.Duration(j.Workers.HealthInterval),
			TokenRefreshInterval: time.Duration(j.Workers.TokenRefreshInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
