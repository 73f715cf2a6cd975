package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/go-taskpro/internal/config"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/utils"
	"github.com/MKhiriev/go-taskpro/models"
	"github.com/go-resty/resty/v2"
)

const (
	registerPath = "/api/users/register"
	loginPath    = "/api/users/login"
	logoutPath   = "/api/users/logout"
	currentPath  = "/api/users/current"
	refreshPath  = "/api/users/refresh"
	profilePath  = "/api/users/profile"
	themePath    = "/api/users/theme"
	helpPath     = "/api/users/help"
	healthPath   = "/api/health"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter builds the resty-backed [ServerAdapter]. The base URL
// comes from adapterCfg.HTTPAddress; a bare "host:port" gets an http://
// scheme.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(adapterCfg.RequestTimeout)
	client.SetBaseURL(baseURL)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	var result models.MessageResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post(registerPath)
	if err != nil {
		return "", fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	var result models.LoginResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post(loginPath)
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.LoginResponse{}, err
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		return models.LoginResponse{}, fmt.Errorf("login response: %w", ErrServerError)
	}

	return result, nil
}

func (h *httpServerAdapter) Logout(ctx context.Context, accessToken string) error {
	req := h.client.R().SetContext(ctx)
	if token := strings.TrimSpace(accessToken); token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Post(logoutPath)
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Current(ctx context.Context) (models.User, error) {
	var result models.UserResponse

	resp, err := h.authedRequest(ctx).
		SetResult(&result).
		Get(currentPath)
	if err != nil {
		return models.User{}, fmt.Errorf("current user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return result.User, nil
}

func (h *httpServerAdapter) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	var result models.TokenPair

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(models.RefreshRequest{RefreshToken: refreshToken}).
		SetResult(&result).
		Post(refreshPath)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("refresh request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenPair{}, err
	}

	return result, nil
}

func (h *httpServerAdapter) UpdateProfile(ctx context.Context, req models.ProfileUpdateRequest, avatar *models.Avatar) (models.User, error) {
	var result models.UserResponse

	r := h.authedRequest(ctx).SetResult(&result)
	if avatar == nil {
		r.SetBody(req)
	} else {
		r.SetMultipartFormData(profileFormData(req)).
			SetFileReader("avatar", avatar.Filename, bytes.NewReader(avatar.Content))
	}

	resp, err := r.Put(profilePath)
	if err != nil {
		return models.User{}, fmt.Errorf("update profile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return result.User, nil
}

// profileFormData keeps only the fields being changed.
func profileFormData(req models.ProfileUpdateRequest) map[string]string {
	form := make(map[string]string, 3)
	if req.Name != nil {
		form["name"] = *req.Name
	}
	if req.Email != nil {
		form["email"] = *req.Email
	}
	if req.Password != nil {
		form["password"] = *req.Password
	}
	return form
}

func (h *httpServerAdapter) ChangeTheme(ctx context.Context, theme models.Theme) (models.User, error) {
	var result models.UserResponse

	resp, err := h.authedRequest(ctx).
		SetBody(models.ThemeRequest{Theme: theme}).
		SetResult(&result).
		Patch(themePath)
	if err != nil {
		return models.User{}, fmt.Errorf("change theme request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return result.User, nil
}

func (h *httpServerAdapter) NeedHelp(ctx context.Context, req models.HelpRequest) (string, error) {
	var result models.MessageResponse

	resp, err := h.authedRequest(ctx).
		SetBody(req).
		SetResult(&result).
		Post(helpPath)
	if err != nil {
		return "", fmt.Errorf("help request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return result.Message, nil
}

func (h *httpServerAdapter) Health(ctx context.Context) (models.Health, error) {
	resp, err := h.client.R().SetContext(ctx).Get(healthPath)
	if err != nil {
		return models.Health{}, fmt.Errorf("health request: %w", err)
	}

	var report models.Health
	if decodeErr := json.Unmarshal(resp.Body(), &report); decodeErr != nil {
		h.logger.Debug().Err(decodeErr).Msg("health response is not a report")
	}

	return report, mapHTTPError(resp)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}
