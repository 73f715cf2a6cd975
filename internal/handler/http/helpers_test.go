package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-taskpro/internal/config"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/ratelimit"
	"github.com/MKhiriev/go-taskpro/internal/service"
	"github.com/MKhiriev/go-taskpro/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Fake services
// ─────────────────────────────────────────────

// fakeAuthService implements service.AuthService. Each method field can be
// overridden per test case; an unset field panics if called.
type fakeAuthService struct {
	registerFn func(ctx context.Context, req models.RegisterRequest) (models.User, error)
	loginFn    func(ctx context.Context, req models.LoginRequest) (models.User, models.TokenPair, error)
	verifyFn   func(ctx context.Context, token string) (models.User, error)
	resendFn   func(ctx context.Context, req models.VerifyEmailRequest) error
	refreshFn  func(ctx context.Context, req models.RefreshRequest) (models.TokenPair, error)
	logoutFn   func(ctx context.Context, sessionID string) error
	currentFn  func(ctx context.Context, userID string) (models.User, error)
}

func (f *fakeAuthService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	return f.registerFn(ctx, req)
}

func (f *fakeAuthService) Login(ctx context.Context, req models.LoginRequest) (models.User, models.TokenPair, error) {
	return f.loginFn(ctx, req)
}

func (f *fakeAuthService) Verify(ctx context.Context, token string) (models.User, error) {
	return f.verifyFn(ctx, token)
}

func (f *fakeAuthService) ResendVerification(ctx context.Context, req models.VerifyEmailRequest) error {
	return f.resendFn(ctx, req)
}

func (f *fakeAuthService) Refresh(ctx context.Context, req models.RefreshRequest) (models.TokenPair, error) {
	return f.refreshFn(ctx, req)
}

func (f *fakeAuthService) Logout(ctx context.Context, sessionID string) error {
	return f.logoutFn(ctx, sessionID)
}

func (f *fakeAuthService) Current(ctx context.Context, userID string) (models.User, error) {
	return f.currentFn(ctx, userID)
}

type fakeUserService struct {
	updateProfileFn func(ctx context.Context, userID string, req models.ProfileUpdateRequest, avatar *models.Avatar) (models.User, error)
	changeThemeFn   func(ctx context.Context, userID string, req models.ThemeRequest) (models.User, error)
	requestHelpFn   func(ctx context.Context, userID string, req models.HelpRequest) error
}

func (f *fakeUserService) UpdateProfile(ctx context.Context, userID string, req models.ProfileUpdateRequest, avatar *models.Avatar) (models.User, error) {
	return f.updateProfileFn(ctx, userID, req, avatar)
}

func (f *fakeUserService) ChangeTheme(ctx context.Context, userID string, req models.ThemeRequest) (models.User, error) {
	return f.changeThemeFn(ctx, userID, req)
}

func (f *fakeUserService) RequestHelp(ctx context.Context, userID string, req models.HelpRequest) error {
	return f.requestHelpFn(ctx, userID, req)
}

// fakeTokenService only verifies access tokens; the other methods are not
// reached from the HTTP layer.
type fakeTokenService struct {
	service.TokenService

	verifyAccessFn func(ctx context.Context, token string) (models.Claims, error)
}

func (f *fakeTokenService) VerifyAccess(ctx context.Context, token string) (models.Claims, error) {
	return f.verifyAccessFn(ctx, token)
}

type fakeHealthService struct {
	report  models.Health
	version string
}

func (f *fakeHealthService) Check(context.Context) models.Health {
	return f.report
}

func (f *fakeHealthService) GetAppVersion(context.Context) string {
	return f.version
}

// fakeLimiter always answers with decision, or with err when set.
type fakeLimiter struct {
	decision ratelimit.Decision
	err      error
	calls    []ratelimit.Policy
}

func (f *fakeLimiter) Check(_ context.Context, _ string, policy ratelimit.Policy) (ratelimit.Decision, error) {
	f.calls = append(f.calls, policy)
	if f.err != nil {
		return ratelimit.Decision{}, f.err
	}
	d := f.decision
	d.Limit = policy.Limit
	return d, nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// bearerUser is the claim set fakeTokenService returns for "good-token".
var bearerUser = models.Claims{
	RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	SessionID:        "sid-1",
}

func testConfig() config.StructuredConfig {
	return config.StructuredConfig{
		App: config.App{Environment: config.EnvDevelopment, Version: "1.2.3"},
		Security: config.Security{
			GeneralRateLimit:  100,
			GeneralRateWindow: 15 * time.Minute,
			AuthRateLimit:     5,
			AuthRateWindow:    15 * time.Minute,
			MaxBodyBytes:      1 << 20,
		},
		Server: config.Server{RequestTimeout: 5 * time.Second},
	}
}

// defaultServices returns services whose token service accepts only
// "good-token".
func defaultServices() *service.Services {
	return &service.Services{
		AuthService: &fakeAuthService{},
		UserService: &fakeUserService{},
		TokenService: &fakeTokenService{
			verifyAccessFn: func(_ context.Context, token string) (models.Claims, error) {
				if token == "good-token" {
					return bearerUser, nil
				}
				return models.Claims{}, service.ErrTokenMalformed
			},
		},
		HealthService: &fakeHealthService{
			report:  models.Health{Status: models.HealthStatusOK, Database: models.DatabaseConnected},
			version: "1.2.3",
		},
	}
}

func allowAll() *fakeLimiter {
	return &fakeLimiter{decision: ratelimit.Decision{Allowed: true, Remaining: 99, ResetAt: time.Now().Add(time.Minute)}}
}

// newTestRouter builds the full router over svcs.
func newTestRouter(t *testing.T, svcs *service.Services, limiter ratelimit.Limiter, cfg config.StructuredConfig) http.Handler {
	t.Helper()
	return NewHandler(svcs, limiter, cfg, logger.Nop()).Init()
}

// newLoggedRouter is newTestRouter with log output captured in buf.
func newLoggedRouter(t *testing.T, svcs *service.Services, limiter ratelimit.Limiter, cfg config.StructuredConfig, buf *bytes.Buffer) http.Handler {
	t.Helper()
	return NewHandler(svcs, limiter, cfg, logger.New("test", buf, zerolog.DebugLevel)).Init()
}

func doRequest(router http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[models.MessageResponse](t, rec).Message
}
