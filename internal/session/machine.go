package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-taskpro/internal/adapter"
	"github.com/MKhiriev/go-taskpro/internal/logger"
	"github.com/MKhiriev/go-taskpro/internal/store"
	"github.com/MKhiriev/go-taskpro/models"
	"golang.org/x/sync/singleflight"
)

// Machine drives the client session. All state lives behind mu; network
// calls run without it.
type Machine struct {
	api    adapter.ServerAdapter
	tokens store.TokenStore

	mu           sync.Mutex
	state        Session
	refreshToken string

	// generation is bumped by Logout and by a committed Login. Work started
	// under an older generation is discarded when it completes.
	generation uint64

	subscribers map[int]chan Session
	nextSubID   int

	rotations singleflight.Group

	logger *logger.Logger
}

func NewMachine(api adapter.ServerAdapter, tokens store.TokenStore, logger *logger.Logger) *Machine {
	return &Machine{
		api:         api,
		tokens:      tokens,
		state:       Session{Status: StatusUnauthenticated},
		subscribers: make(map[int]chan Session),
		logger:      logger,
	}
}

// Snapshot returns a copy of the current session.
func (m *Machine) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Subscribe returns a channel that always offers the latest snapshot,
// starting with the current one. Intermediate snapshots may be skipped.
// The returned func unsubscribes and closes the channel.
func (m *Machine) Subscribe() (<-chan Session, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubID
	m.nextSubID++

	ch := make(chan Session, 1)
	ch <- m.state.clone()
	m.subscribers[id] = ch

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subscribers[id]; ok {
			delete(m.subscribers, id)
			close(c)
		}
	}
}

// Start confirms a persisted pair, if any. A second call while a startup
// refresh runs, or once signed in, does nothing.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Status == StatusRefreshing || m.state.Status == StatusAuthenticated {
		m.mu.Unlock()
		return nil
	}
	gen := m.generation
	m.state.Status = StatusRefreshing
	m.state.Error = nil
	m.publish()
	m.mu.Unlock()

	pair, err := m.tokens.Load(ctx)
	if errors.Is(err, store.ErrNoPersistedSession) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if gen == m.generation && m.state.Status == StatusRefreshing {
			m.state.Status = StatusUnauthenticated
			m.publish()
		}
		return nil
	}
	if err != nil {
		return m.abandonStart(ctx, gen, fmt.Errorf("error loading session: %w", err))
	}

	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		m.revokeSuperseded(ctx, pair.AccessToken)
		return ErrSuperseded
	}
	m.setTokens(pair)
	m.mu.Unlock()

	user, err := m.api.Current(ctx)
	if errors.Is(err, adapter.ErrUnauthorized) {
		user, err = m.refreshAndRetry(ctx, gen, pair.RefreshToken)
	}
	if err != nil {
		if errors.Is(err, adapter.ErrUnauthorized) {
			err = fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		return m.abandonStart(ctx, gen, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		return ErrSuperseded
	}
	m.state.Status = StatusAuthenticated
	m.state.User = &user
	m.publish()

	m.logger.Info().Str("user_id", user.ID).Msg("session restored")
	return nil
}

func (m *Machine) refreshAndRetry(ctx context.Context, gen uint64, refreshToken string) (models.User, error) {
	pair, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		return models.User{}, err
	}
	if err = m.commitTokens(ctx, gen, pair); err != nil {
		if errors.Is(err, ErrSuperseded) {
			m.revokeSuperseded(ctx, pair.AccessToken)
		}
		return models.User{}, err
	}
	return m.api.Current(ctx)
}

// abandonStart discards the persisted pair after a failed startup refresh.
func (m *Machine) abandonStart(ctx context.Context, gen uint64, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation || errors.Is(err, ErrSuperseded) {
		return ErrSuperseded
	}

	m.logger.Warn().Err(err).Msg("persisted session discarded")
	m.endSession(ctx)
	m.state.Error = err
	m.publish()
	return err
}

// Login signs in, persists the pair and sets the authorizer.
func (m *Machine) Login(ctx context.Context, email, password string) error {
	gen := m.begin()

	resp, err := m.api.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return m.fail(gen, err)
	}

	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		m.revokeSuperseded(ctx, resp.AccessToken)
		return ErrSuperseded
	}
	defer m.mu.Unlock()

	if err = m.tokens.Save(ctx, resp.TokenPair); err != nil {
		err = fmt.Errorf("error saving session: %w", err)
		m.state.IsLoading = false
		m.state.Error = err
		m.publish()
		return err
	}

	m.generation++
	user := resp.User
	m.state = Session{Status: StatusAuthenticated, User: &user}
	m.setTokens(resp.TokenPair)
	m.publish()

	m.logger.Info().Str("user_id", user.ID).Msg("signed in")
	return nil
}

// Register creates an account. Success leaves the machine waiting for the
// email confirmation, without tokens.
func (m *Machine) Register(ctx context.Context, name, email, password string) error {
	if m.Snapshot().IsLoggedIn() {
		return m.reject(ErrAlreadyAuthenticated)
	}

	gen := m.begin()

	message, err := m.api.Register(ctx, models.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return m.fail(gen, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		return ErrSuperseded
	}
	m.state = Session{Status: StatusPendingConfirmation, Notice: message}
	m.publish()
	return nil
}

// Logout always ends Unauthenticated. A server failure other than 401 is
// reported, but local state is cleared regardless. A pair that a startup
// restore or a login obtains after this point is signed out by that
// operation when it sees it was superseded.
func (m *Machine) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.generation++
	token := m.state.Token
	m.state.IsLoading = true
	m.publish()
	m.mu.Unlock()

	var serverErr error
	if token != "" {
		serverErr = m.api.Logout(ctx, token)
		if errors.Is(serverErr, adapter.ErrUnauthorized) {
			serverErr = nil
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.endSession(ctx)
	m.state.Error = serverErr
	m.publish()

	m.logger.Info().Msg("signed out")
	return serverErr
}

// Rotate exchanges the refresh token for a new pair while signed in.
// Concurrent calls share one exchange. A rejected refresh token ends the
// session.
func (m *Machine) Rotate(ctx context.Context) error {
	_, err, _ := m.rotations.Do("rotate", func() (any, error) {
		return nil, m.rotate(ctx)
	})
	return err
}

func (m *Machine) rotate(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Status != StatusAuthenticated || m.refreshToken == "" {
		m.mu.Unlock()
		return nil
	}
	gen := m.generation
	refreshToken := m.refreshToken
	m.mu.Unlock()

	pair, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		m.mu.Lock()
		defer m.mu.Unlock()

		if gen != m.generation {
			return ErrSuperseded
		}
		if errors.Is(err, adapter.ErrUnauthorized) {
			err = fmt.Errorf("%w: %w", ErrSessionExpired, err)
			m.endSession(ctx)
		}
		m.state.Error = err
		m.publish()
		return err
	}

	err = m.commitTokens(ctx, gen, pair)
	switch {
	case errors.Is(err, ErrSuperseded):
		m.revokeSuperseded(ctx, pair.AccessToken)
	case err != nil:
		return m.fail(gen, err)
	}
	return err
}

// UpdateProfile changes the non-nil fields and optionally the avatar.
func (m *Machine) UpdateProfile(ctx context.Context, req models.ProfileUpdateRequest, avatar *models.Avatar) error {
	gen, _, err := m.beginAuthed()
	if err != nil {
		return err
	}

	var user models.User
	err = m.withRotation(ctx, func() error {
		var callErr error
		user, callErr = m.api.UpdateProfile(ctx, req, avatar)
		return callErr
	})
	if err != nil {
		return m.fail(gen, err)
	}

	return m.finish(gen, &user, "")
}

func (m *Machine) ChangeTheme(ctx context.Context, theme models.Theme) error {
	gen, _, err := m.beginAuthed()
	if err != nil {
		return err
	}

	var user models.User
	err = m.withRotation(ctx, func() error {
		var callErr error
		user, callErr = m.api.ChangeTheme(ctx, theme)
		return callErr
	})
	if err != nil {
		return m.fail(gen, err)
	}

	return m.finish(gen, &user, "")
}

// NeedHelp sends comment to support on behalf of the signed-in user.
func (m *Machine) NeedHelp(ctx context.Context, comment string) error {
	gen, user, err := m.beginAuthed()
	if err != nil {
		return err
	}

	var message string
	err = m.withRotation(ctx, func() error {
		var callErr error
		message, callErr = m.api.NeedHelp(ctx, models.HelpRequest{Email: user.Email, Comment: comment})
		return callErr
	})
	if err != nil {
		return m.fail(gen, err)
	}

	return m.finish(gen, nil, message)
}

// ClearError dismisses the current error and notice.
func (m *Machine) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Error = nil
	m.state.Notice = ""
	m.publish()
}

// withRotation retries call once after a successful rotation when the
// access token was rejected.
func (m *Machine) withRotation(ctx context.Context, call func() error) error {
	err := call()
	if !errors.Is(err, adapter.ErrUnauthorized) {
		return err
	}
	if rotateErr := m.Rotate(ctx); rotateErr != nil {
		return rotateErr
	}
	return call()
}

// ─── transitions, called with mu held unless noted ───────────────────────────

// begin marks a public operation in flight. It takes mu itself.
func (m *Machine) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.IsLoading = true
	m.state.Error = nil
	m.state.Notice = ""
	m.publish()
	return m.generation
}

// beginAuthed is begin for operations that need a signed-in user. It takes
// mu itself.
func (m *Machine) beginAuthed() (uint64, models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != StatusAuthenticated || m.state.User == nil {
		m.state.Error = ErrNotAuthenticated
		m.publish()
		return 0, models.User{}, ErrNotAuthenticated
	}

	m.state.IsLoading = true
	m.state.Error = nil
	m.state.Notice = ""
	m.publish()
	return m.generation, *m.state.User, nil
}

// fail records err unless the operation was superseded. It takes mu
// itself.
func (m *Machine) fail(gen uint64, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		return ErrSuperseded
	}
	m.state.IsLoading = false
	m.state.Error = err
	m.publish()
	return err
}

// finish completes an authenticated operation. It takes mu itself.
func (m *Machine) finish(gen uint64, user *models.User, notice string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		return ErrSuperseded
	}
	if user != nil {
		m.state.User = user
	}
	m.state.IsLoading = false
	m.state.Notice = notice
	m.publish()
	return nil
}

func (m *Machine) reject(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Error = err
	m.publish()
	return err
}

// commitTokens persists pair and makes it current unless a logout came
// first. It takes mu itself so the save and the generation check are one
// step.
func (m *Machine) commitTokens(ctx context.Context, gen uint64, pair models.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		return ErrSuperseded
	}
	if err := m.tokens.Save(ctx, pair); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	m.setTokens(pair)
	m.publish()
	return nil
}

// revokeSuperseded signs out a pair whose operation lost to a logout, so the
// server does not keep its family alive. A pair that is current again is
// left alone. It takes mu itself; the call runs without it.
func (m *Machine) revokeSuperseded(ctx context.Context, accessToken string) {
	m.mu.Lock()
	current := m.state.Token
	m.mu.Unlock()

	if accessToken == "" || accessToken == current {
		return
	}
	if err := m.api.Logout(ctx, accessToken); err != nil && !errors.Is(err, adapter.ErrUnauthorized) {
		m.logger.Warn().Err(err).Msg("failed to sign out superseded session")
	}
}

// setTokens updates the state token and the authorizer together.
func (m *Machine) setTokens(pair models.TokenPair) {
	m.state.Token = pair.AccessToken
	m.refreshToken = pair.RefreshToken
	m.api.SetToken(pair.AccessToken)
}

func (m *Machine) endSession(ctx context.Context) {
	if err := m.tokens.Clear(ctx); err != nil {
		m.logger.Err(err).Msg("failed to clear persisted session")
	}
	m.api.SetToken("")
	m.refreshToken = ""
	m.state = Session{Status: StatusUnauthenticated}
}

// publish offers the current snapshot to every subscriber without
// blocking; a stale unread snapshot is replaced.
func (m *Machine) publish() {
	snap := m.state.clone()
	m.logger.Debug().Stringer("status", snap.Status).Bool("loading", snap.IsLoading).Msg("session state changed")

	for _, ch := range m.subscribers {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
