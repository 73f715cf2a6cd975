package tui

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-taskpro/internal/adapter"
	"github.com/MKhiriev/go-taskpro/internal/session"
	"github.com/MKhiriev/go-taskpro/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── fakes ───────────────────────────────────────────────────────────────────

type fakeSession struct {
	snapshot session.Session

	loginFn         func(ctx context.Context, email, password string) error
	registerFn      func(ctx context.Context, name, email, password string) error
	logoutFn        func(ctx context.Context) error
	updateProfileFn func(ctx context.Context, req models.ProfileUpdateRequest, avatar *models.Avatar) error
	changeThemeFn   func(ctx context.Context, theme models.Theme) error
	needHelpFn      func(ctx context.Context, comment string) error

	cleared int
}

func (f *fakeSession) Snapshot() session.Session { return f.snapshot }

func (f *fakeSession) Subscribe() (<-chan session.Session, func()) {
	ch := make(chan session.Session)
	return ch, func() { close(ch) }
}

func (f *fakeSession) Login(ctx context.Context, email, password string) error {
	return f.loginFn(ctx, email, password)
}

func (f *fakeSession) Register(ctx context.Context, name, email, password string) error {
	return f.registerFn(ctx, name, email, password)
}

func (f *fakeSession) Logout(ctx context.Context) error { return f.logoutFn(ctx) }

func (f *fakeSession) UpdateProfile(ctx context.Context, req models.ProfileUpdateRequest, avatar *models.Avatar) error {
	return f.updateProfileFn(ctx, req, avatar)
}

func (f *fakeSession) ChangeTheme(ctx context.Context, theme models.Theme) error {
	return f.changeThemeFn(ctx, theme)
}

func (f *fakeSession) NeedHelp(ctx context.Context, comment string) error {
	return f.needHelpFn(ctx, comment)
}

func (f *fakeSession) ClearError() { f.cleared++ }

// ─── helpers ─────────────────────────────────────────────────────────────────

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(runes(string(r)))
	}
	return m
}

func signedIn() session.Session {
	return session.Session{
		Status: session.StatusAuthenticated,
		User: &models.User{
			ID:       "0190b4a8-0000-7000-8000-000000000001",
			Email:    "ann@example.com",
			Name:     "Ann",
			Theme:    models.ThemeLight,
			Verified: true,
		},
		Token: "access-token",
	}
}

func newRoot(s *fakeSession) RootModel {
	ctx := context.Background()
	pages := map[string]tea.Model{
		pageMenu:     NewMenuModel(),
		pageLogin:    NewLoginModel(ctx, s),
		pageRegister: NewRegisterModel(ctx, s),
		pageProfile:  NewProfileModel(ctx, s),
	}
	return NewRootModel(pages, pageMenu, models.NewAppBuildInfo("1.0.0", "2026-10-19", "abc123"), s.snapshot, nil)
}

func update(t *testing.T, r RootModel, msg tea.Msg) (RootModel, tea.Cmd) {
	t.Helper()
	next, cmd := r.Update(msg)
	root, ok := next.(RootModel)
	require.True(t, ok)
	return root, cmd
}

// ─── routing ─────────────────────────────────────────────────────────────────

func TestRoute(t *testing.T) {
	tests := []struct {
		name    string
		prev    session.Status
		next    session.Status
		current string
		want    string
	}{
		{"signed in opens profile", session.StatusRefreshing, session.StatusAuthenticated, pageMenu, pageProfile},
		{"login page to profile", session.StatusUnauthenticated, session.StatusAuthenticated, pageLogin, pageProfile},
		{"signed out returns to menu", session.StatusAuthenticated, session.StatusUnauthenticated, pageProfile, pageMenu},
		{"registration returns to menu", session.StatusUnauthenticated, session.StatusPendingConfirmation, pageRegister, pageMenu},
		{"failed restore keeps menu", session.StatusRefreshing, session.StatusUnauthenticated, pageMenu, pageMenu},
		{"unchanged status keeps page", session.StatusPendingConfirmation, session.StatusPendingConfirmation, pageLogin, pageLogin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, route(tt.prev, tt.next, tt.current))
		})
	}
}

func TestRootModel_FollowsSessionStatus(t *testing.T) {
	r := newRoot(&fakeSession{})
	assert.Equal(t, pageMenu, r.current)

	r, _ = update(t, r, sessionMsg{session: signedIn()})
	assert.Equal(t, pageProfile, r.current)
	assert.Contains(t, r.View(), "ann@example.com")

	r, _ = update(t, r, sessionMsg{session: session.Session{Status: session.StatusUnauthenticated, Error: session.ErrSessionExpired}})
	assert.Equal(t, pageMenu, r.current)
	assert.Contains(t, r.View(), session.ErrSessionExpired.Error())
}

func TestRootModel_StartsOnProfileWhenSignedIn(t *testing.T) {
	r := newRoot(&fakeSession{snapshot: signedIn()})
	assert.Equal(t, pageProfile, r.current)
	assert.Contains(t, r.View(), "Ann")
}

func TestRootModel_Navigate(t *testing.T) {
	r := newRoot(&fakeSession{})

	r, _ = update(t, r, NavigateTo{Page: pageLogin})
	assert.Equal(t, pageLogin, r.current)

	r, _ = update(t, r, NavigateTo{Page: "missing"})
	assert.Equal(t, pageLogin, r.current)
}

func TestRootModel_BuildInfoOnlyOnMenu(t *testing.T) {
	r := newRoot(&fakeSession{})

	r, _ = update(t, r, runes("v"))
	require.True(t, r.showBuildInfo)
	assert.Contains(t, r.View(), "1.0.0")
	assert.Contains(t, r.View(), "abc123")

	r, _ = update(t, r, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, r.showBuildInfo)

	r, _ = update(t, r, NavigateTo{Page: pageLogin})
	r, _ = update(t, r, runes("v"))
	assert.False(t, r.showBuildInfo)
}

func TestRootModel_CtrlCQuits(t *testing.T) {
	r := newRoot(&fakeSession{})

	r, cmd := update(t, r, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, r.quitByUser)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestMenu_RestoringBlocksInput(t *testing.T) {
	m := NewMenuModel()
	m.Update(sessionMsg{session: session.Session{Status: session.StatusRefreshing}})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Restoring")
}

func TestMenu_ShowsRegistrationNotice(t *testing.T) {
	m := NewMenuModel()
	m.Update(sessionMsg{session: session.Session{Status: session.StatusPendingConfirmation, Notice: "Check your inbox"}})
	assert.Contains(t, m.View(), "Check your inbox")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateTo{Page: pageRegister}, cmd())
}

// ─── login / register ────────────────────────────────────────────────────────

func TestLogin_Submit(t *testing.T) {
	var gotEmail, gotPassword string
	s := &fakeSession{loginFn: func(_ context.Context, email, password string) error {
		gotEmail, gotPassword = email, password
		return nil
	}}
	var m tea.Model = NewLoginModel(context.Background(), s)

	m = typeText(m, " ann@example.com ")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "secret-pass")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Signing in...")

	msg := cmd()
	assert.Equal(t, opDoneMsg{}, msg)
	assert.Equal(t, "ann@example.com", gotEmail)
	assert.Equal(t, "secret-pass", gotPassword)

	m, _ = m.Update(msg)
	assert.Contains(t, m.View(), "[Sign in]")
}

func TestLogin_RequiresFields(t *testing.T) {
	s := &fakeSession{loginFn: func(context.Context, string, string) error {
		t.Fatal("login must not be called")
		return nil
	}}
	m := NewLoginModel(context.Background(), s)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Email and password are required")
}

func TestLogin_ShowsServerError(t *testing.T) {
	m := NewLoginModel(context.Background(), &fakeSession{})
	m.submitting = true

	m.Update(opDoneMsg{err: &adapter.APIError{
		Status:     http.StatusTooManyRequests,
		Message:    "Too many login attempts",
		RetryAfter: 15 * time.Minute,
		Err:        adapter.ErrTooManyRequests,
	}})

	assert.False(t, m.submitting)
	assert.Contains(t, m.View(), "Too many login attempts, try again in 15m0s")
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name   string
		fields [4]string
		want   string
	}{
		{"valid", [4]string{"Ann", "ann@example.com", "password1", "password1"}, ""},
		{"missing name", [4]string{"", "ann@example.com", "password1", "password1"}, "All fields are required"},
		{"bad email", [4]string{"Ann", "ann.example.com", "password1", "password1"}, "Email is not valid"},
		{"short password", [4]string{"Ann", "ann@example.com", "short", "short"}, "Password must be at least 8 characters"},
		{"mismatch", [4]string{"Ann", "ann@example.com", "password1", "password2"}, "Passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.fields
			assert.Equal(t, tt.want, validateRegistration(f[0], f[1], f[2], f[3]))
		})
	}
}

func TestRegister_Submit(t *testing.T) {
	var got []string
	s := &fakeSession{registerFn: func(_ context.Context, name, email, password string) error {
		got = []string{name, email, password}
		return nil
	}}
	var m tea.Model = NewRegisterModel(context.Background(), s)

	for i, v := range []string{"Ann", "ann@example.com", "password1", "password1"} {
		if i > 0 {
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
		}
		m = typeText(m, v)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())

	assert.Equal(t, []string{"Ann", "ann@example.com", "password1"}, got)
	reg := m.(*RegisterModel)
	assert.Empty(t, reg.form.value(0))
	assert.Equal(t, 0, reg.form.focus)
}

// ─── profile ─────────────────────────────────────────────────────────────────

func newProfile(s *fakeSession) *ProfileModel {
	m := NewProfileModel(context.Background(), s)
	m.Update(sessionMsg{session: signedIn()})
	return m
}

func TestProfile_ChangeTheme(t *testing.T) {
	var got models.Theme
	s := &fakeSession{changeThemeFn: func(_ context.Context, theme models.Theme) error {
		got = theme
		return nil
	}}
	m := newProfile(s)

	_, cmd := m.Update(runes("t"))
	require.NotNil(t, cmd)
	assert.Equal(t, opDoneMsg{}, cmd())
	assert.Equal(t, models.ThemeDark, got)
}

func TestProfile_EditName(t *testing.T) {
	var got models.ProfileUpdateRequest
	s := &fakeSession{updateProfileFn: func(_ context.Context, req models.ProfileUpdateRequest, avatar *models.Avatar) error {
		got = req
		assert.Nil(t, avatar)
		return nil
	}}
	m := newProfile(s)

	m.Update(runes("e"))
	require.Equal(t, modeEditName, m.mode)
	assert.Equal(t, "Ann", m.input.Value())

	typeText(m, "ie")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	require.NotNil(t, got.Name)
	assert.Equal(t, "Annie", *got.Name)
	assert.Equal(t, modeView, m.mode)
}

func TestProfile_UploadAvatar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	var got *models.Avatar
	s := &fakeSession{updateProfileFn: func(_ context.Context, _ models.ProfileUpdateRequest, avatar *models.Avatar) error {
		got = avatar
		return nil
	}}
	m := newProfile(s)

	m.Update(runes("a"))
	typeText(m, path)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()

	require.NotNil(t, got)
	assert.Equal(t, "me.png", got.Filename)
	assert.Equal(t, []byte("png-bytes"), got.Content)
}

func TestProfile_AvatarReadErrorIsShown(t *testing.T) {
	s := &fakeSession{updateProfileFn: func(context.Context, models.ProfileUpdateRequest, *models.Avatar) error {
		t.Fatal("update must not be called")
		return nil
	}}
	m := newProfile(s)

	m.Update(runes("a"))
	typeText(m, filepath.Join(t.TempDir(), "missing.png"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(cmd())

	assert.Contains(t, m.View(), "read avatar")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.hasError())
	assert.Equal(t, 1, s.cleared)
}

func TestProfile_NeedHelp(t *testing.T) {
	var got string
	s := &fakeSession{needHelpFn: func(_ context.Context, comment string) error {
		got = comment
		return nil
	}}
	m := newProfile(s)

	m.Update(runes("h"))
	typeText(m, "cannot move cards")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	cmd()
	assert.Equal(t, "cannot move cards", got)

	m.Update(sessionMsg{session: func() session.Session {
		s := signedIn()
		s.Notice = "Your request has been sent"
		return s
	}()})
	assert.Contains(t, m.View(), "Your request has been sent")
}

func TestProfile_EmptyInputIsRejected(t *testing.T) {
	m := newProfile(&fakeSession{})

	m.Update(runes("h"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Value must not be empty")
}

func TestProfile_CopyToken(t *testing.T) {
	var copied string
	prev := writeClipboard
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { writeClipboard = prev })

	m := newProfile(&fakeSession{})
	_, cmd := m.Update(runes("c"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, "access-token", copied)
	assert.Contains(t, m.View(), "Access token copied")
}

func TestProfile_CopyTokenFailure(t *testing.T) {
	prev := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard utility") }
	t.Cleanup(func() { writeClipboard = prev })

	m := newProfile(&fakeSession{})
	_, cmd := m.Update(runes("c"))
	m.Update(cmd())

	assert.Contains(t, m.View(), "no clipboard utility")
}

func TestProfile_Logout(t *testing.T) {
	called := false
	s := &fakeSession{logoutFn: func(context.Context) error {
		called = true
		return nil
	}}
	m := newProfile(s)

	_, cmd := m.Update(runes("l"))
	require.NotNil(t, cmd)
	cmd()
	assert.True(t, called)
}

func TestProfile_IgnoresKeysWhileLoading(t *testing.T) {
	m := newProfile(&fakeSession{})
	busy := signedIn()
	busy.IsLoading = true
	m.Update(sessionMsg{session: busy})

	_, cmd := m.Update(runes("t"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Working...")
}

func TestProfile_SessionErrorOverlay(t *testing.T) {
	s := &fakeSession{}
	m := newProfile(s)

	failed := signedIn()
	failed.Error = &adapter.APIError{Status: http.StatusBadGateway, Message: "bad gateway", Err: adapter.ErrServerUnavailable}
	m.Update(sessionMsg{session: failed})

	view := m.View()
	assert.Contains(t, view, "No network connection or the server is unavailable")
	assert.True(t, strings.Contains(view, "enter / esc: close"))

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, s.cleared)
}

// ─── errors ──────────────────────────────────────────────────────────────────

func TestHumanizeServerUnavailableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"refused", errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"), "No network connection or the server is unavailable"},
		{"sentinel", adapter.ErrServerUnavailable, "No network connection or the server is unavailable"},
		{"plain", errors.New("Email in use"), "Email in use"},
		{"rate limited without hint", &adapter.APIError{Message: "Too many requests", Err: adapter.ErrTooManyRequests}, "Too many requests"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, humanizeServerUnavailableError(tt.err))
		})
	}
}
