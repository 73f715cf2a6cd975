package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// validServerConfig returns defaults plus the keys validation requires.
func validServerConfig() *StructuredConfig {
	cfg := defaults()
	cfg.Auth.AccessTokenKey = "access-key"
	cfg.Auth.RefreshTokenKey = "refresh-key"
	return cfg
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no configs returns a
// zero-value StructuredConfig.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_MergesMultipleConfigs verifies that fields from multiple configs
// are merged into a single result.
func TestBuild_MergesMultipleConfigs(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Version: "1.0.0"}},
		&StructuredConfig{Auth: Auth{TokenIssuer: "issuer"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, "issuer", cfg.Auth.TokenIssuer)
}

// TestBuild_FirstSourceWins verifies that an earlier source is not
// overwritten by a later one.
func TestBuild_FirstSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Server: Server{HTTPAddress: "env:1"}},
		&StructuredConfig{Server: Server{HTTPAddress: "flag:2"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "env:1", cfg.Server.HTTPAddress)
}

// ── withDefaults ──────────────────────────────────────────────────────────────

// TestWithDefaults_FillsOnlyZeroFields verifies that defaults never override
// configured values and fill everything else.
func TestWithDefaults_FillsOnlyZeroFields(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		Security: Security{AuthRateLimit: 3},
	})
	b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Security.AuthRateLimit)
	assert.Equal(t, 100, cfg.Security.GeneralRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.Security.AuthRateWindow)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 10, cfg.Auth.PasswordHashCost)
	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.False(t, cfg.Auth.AllowUnconfirmedLogin)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())
}

// TestWithEnv_ReadsEnvVars verifies that environment variables are picked up.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("APP_VERSION", "env-version")
	t.Setenv("AUTH_TOKEN_ISSUER", "env-issuer")

	b := newConfigBuilder()
	b.withEnv()

	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-version", b.configs[0].App.Version)
	assert.Equal(t, "env-issuer", b.configs[0].Auth.TokenIssuer)
}

// TestWithEnv_SetsErrorOnBadValue verifies that a malformed variable is
// collected into b.err.
func TestWithEnv_SetsErrorOnBadValue(t *testing.T) {
	t.Setenv("SECURITY_AUTH_RATE_LIMIT", "five")

	b := newConfigBuilder()
	b.withEnv()

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_NoOp_WhenNoPathSet verifies that withJSON does nothing when
// no config has a JSONFilePath.
func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithJSON_AppendsConfig_WhenValidFile verifies that a valid JSON file is
// parsed and appended.
func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.App.Version = "json-version"
	payload.Auth.TokenIssuer = "json-issuer"
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "json-version", b.configs[1].App.Version)
	assert.Equal(t, "json-issuer", b.configs[1].Auth.TokenIssuer)
}

// TestWithJSON_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: "/nonexistent/config.json",
	})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_UsesFirstPath verifies that the env path beats the flag path.
func TestWithJSON_UsesFirstPath(t *testing.T) {
	first := StructuredJSONConfig{}
	first.App.Version = "first"
	second := StructuredJSONConfig{}
	second.App.Version = "second"

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, first)},
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, second)},
	)
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 3)
	assert.Equal(t, "first", b.configs[2].App.Version)
}

// ── validate ──────────────────────────────────────────────────────────────────

// TestValidate_AcceptsDefaultsWithKeys verifies the happy path.
func TestValidate_AcceptsDefaultsWithKeys(t *testing.T) {
	assert.NoError(t, validServerConfig().validate())
}

// TestValidate_Rejects covers every server validation rule.
func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{"unknown environment", func(c *StructuredConfig) { c.App.Environment = "staging" }, ErrInvalidAppConfigs},
		{"missing access key", func(c *StructuredConfig) { c.Auth.AccessTokenKey = "" }, ErrInvalidAuthConfigs},
		{"missing refresh key", func(c *StructuredConfig) { c.Auth.RefreshTokenKey = "" }, ErrInvalidAuthConfigs},
		{"same keys", func(c *StructuredConfig) { c.Auth.RefreshTokenKey = c.Auth.AccessTokenKey }, ErrInvalidAuthConfigs},
		{"refresh shorter than access", func(c *StructuredConfig) { c.Auth.RefreshTokenDuration = time.Minute }, ErrInvalidAuthConfigs},
		{"skew too large", func(c *StructuredConfig) { c.Auth.ClockSkew = time.Hour }, ErrInvalidAuthConfigs},
		{"bcrypt cost too low", func(c *StructuredConfig) { c.Auth.PasswordHashCost = 1 }, ErrInvalidAuthConfigs},
		{"zero auth limit", func(c *StructuredConfig) { c.Security.AuthRateLimit = 0 }, ErrInvalidSecurityConfigs},
		{"zero body cap", func(c *StructuredConfig) { c.Security.MaxBodyBytes = 0 }, ErrInvalidSecurityConfigs},
		{"no http address", func(c *StructuredConfig) { c.Server.HTTPAddress = "" }, ErrInvalidServerConfigs},
		{"zero purge interval", func(c *StructuredConfig) { c.Workers.TokenPurgeInterval = 0 }, ErrInvalidWorkerConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validServerConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.validate(), tt.wantErr)
		})
	}
}

// TestClientValidate covers the client rules.
func TestClientValidate(t *testing.T) {
	valid := ClientConfig{
		Adapter: ClientAdapter{HTTPAddress: "localhost:8080", RequestTimeout: time.Second},
		Storage: ClientStorage{DB: ClientDB{DSN: "taskpro.db"}},
		Workers: ClientWorkers{RefreshInterval: time.Minute},
	}
	assert.NoError(t, valid.validate())

	memory := valid
	memory.Storage.DB.DSN = ":memory:"
	assert.ErrorIs(t, memory.validate(), ErrInvalidStorageConfigs)

	noAddr := valid
	noAddr.Adapter.HTTPAddress = ""
	assert.ErrorIs(t, noAddr.validate(), ErrInvalidAdapterConfigs)

	noInterval := valid
	noInterval.Workers.RefreshInterval = 0
	assert.ErrorIs(t, noInterval.validate(), ErrInvalidWorkerConfigs)
}

// ── Security.Origins ──────────────────────────────────────────────────────────

// TestOrigins_DefaultList verifies the built-in allow-list.
func TestOrigins_DefaultList(t *testing.T) {
	assert.Equal(t, defaultOrigins, Security{}.Origins())
}

// TestOrigins_FrontendURLReplacesDefaults verifies that FrontendURL replaces
// the defaults while AllowedOrigins are appended.
func TestOrigins_FrontendURLReplacesDefaults(t *testing.T) {
	s := Security{
		FrontendURL:    "https://board.example",
		AllowedOrigins: []string{"https://admin.example"},
	}
	assert.Equal(t, []string{"https://board.example", "https://admin.example"}, s.Origins())
}
