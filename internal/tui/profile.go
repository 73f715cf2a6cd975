package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-taskpro/internal/session"
	"github.com/MKhiriev/go-taskpro/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

type profileMode int

const (
	modeView profileMode = iota
	modeEditName
	modeAvatar
	modeHelp
)

// ProfileModel shows the signed-in user and runs the account operations:
// theme switch, rename, avatar upload, help request, token copy and sign out.
type ProfileModel struct {
	ctx     context.Context
	session Session

	snapshot session.Session
	mode     profileMode
	input    textinput.Model

	status   string
	localErr string
}

func NewProfileModel(ctx context.Context, s Session) *ProfileModel {
	return &ProfileModel{
		ctx:     ctx,
		session: s,
		input:   newInput("", 256, false),
	}
}

func (m *ProfileModel) Init() tea.Cmd {
	m.mode = modeView
	m.status = ""
	m.localErr = ""
	return nil
}

func (m *ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		m.snapshot = msg.session
		if msg.session.Notice != "" {
			m.status = msg.session.Notice
		}
		return m, nil
	case opDoneMsg:
		if msg.err != nil && m.snapshot.Error == nil {
			m.localErr = humanizeServerUnavailableError(msg.err)
		}
		return m, nil
	case copiedMsg:
		if msg.err != nil {
			m.localErr = "Could not copy the token: " + msg.err.Error()
			return m, nil
		}
		m.status = "Access token copied to the clipboard"
		return m, nil
	case tea.KeyMsg:
		if m.hasError() {
			if keyMatches(msg, keys.enter) || keyMatches(msg, keys.esc) {
				m.localErr = ""
				m.session.ClearError()
			}
			return m, nil
		}
		if m.mode != modeView {
			return m.updateInput(msg)
		}
		return m.updateView(msg)
	}

	return m, nil
}

func (m *ProfileModel) updateView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.snapshot.IsLoading {
		return m, nil
	}
	user := m.user()

	switch {
	case keyMatches(msg, keys.theme):
		m.status = ""
		next := user.Theme.Next()
		return m, m.run(func(ctx context.Context) error { return m.session.ChangeTheme(ctx, next) })
	case keyMatches(msg, keys.edit):
		m.openInput(modeEditName, "new name", user.Name)
	case keyMatches(msg, keys.avatar):
		m.openInput(modeAvatar, "path to an image", "")
	case keyMatches(msg, keys.help):
		m.openInput(modeHelp, "describe your problem", "")
	case keyMatches(msg, keys.copy):
		token := m.snapshot.Token
		return m, func() tea.Msg { return copiedMsg{err: writeClipboard(token)} }
	case keyMatches(msg, keys.logout):
		m.status = ""
		return m, m.run(m.session.Logout)
	}
	return m, nil
}

func (m *ProfileModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, keys.esc):
		m.closeInput()
		return m, nil
	case keyMatches(msg, keys.enter):
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			m.localErr = "Value must not be empty"
			return m, nil
		}
		mode := m.mode
		m.closeInput()
		m.status = ""
		return m, m.submit(mode, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ProfileModel) submit(mode profileMode, value string) tea.Cmd {
	switch mode {
	case modeEditName:
		return m.run(func(ctx context.Context) error {
			return m.session.UpdateProfile(ctx, models.ProfileUpdateRequest{Name: &value}, nil)
		})
	case modeAvatar:
		return m.run(func(ctx context.Context) error {
			content, err := os.ReadFile(value)
			if err != nil {
				return fmt.Errorf("read avatar: %w", err)
			}
			avatar := &models.Avatar{Filename: filepath.Base(value), Content: content}
			return m.session.UpdateProfile(ctx, models.ProfileUpdateRequest{}, avatar)
		})
	case modeHelp:
		return m.run(func(ctx context.Context) error { return m.session.NeedHelp(ctx, value) })
	}
	return nil
}

func (m *ProfileModel) run(op func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: op(ctx)}
	}
}

func (m *ProfileModel) openInput(mode profileMode, placeholder, value string) {
	m.mode = mode
	m.status = ""
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *ProfileModel) closeInput() {
	m.mode = modeView
	m.input.Blur()
	m.input.SetValue("")
}

func (m *ProfileModel) hasError() bool {
	return m.localErr != "" || m.snapshot.Error != nil
}

func (m *ProfileModel) user() models.User {
	if m.snapshot.User == nil {
		return models.User{}
	}
	return *m.snapshot.User
}

func (m *ProfileModel) View() string {
	if m.hasError() {
		msg := m.localErr
		if msg == "" {
			msg = humanizeServerUnavailableError(m.snapshot.Error)
		}
		return renderPage("PROFILE", errorOverlay(msg), "")
	}

	user := m.user()
	accent := accentStyle(user.Theme)

	verified := "no"
	if user.Verified {
		verified = "yes"
	}

	var b strings.Builder
	b.WriteString(accent.Render(valueOrDash(user.Name)))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Email     │ %s\n", valueOrDash(user.Email)))
	b.WriteString(fmt.Sprintf("Theme     │ %s\n", valueOrDash(string(user.Theme))))
	b.WriteString(fmt.Sprintf("Avatar    │ %s\n", valueOrDash(user.AvatarURL)))
	b.WriteString(fmt.Sprintf("Verified  │ %s\n", verified))
	b.WriteString(fmt.Sprintf("Token     │ %s\n", fitText(valueOrDash(m.snapshot.Token), 40)))

	switch {
	case m.mode != modeView:
		b.WriteString("\n[")
		b.WriteString(m.input.View())
		b.WriteString("]\n")
	case m.snapshot.IsLoading:
		b.WriteString("\n[Working...]\n")
	case m.status != "":
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render("OK: " + m.status))
		b.WriteString("\n")
	}

	hotKeys := "t: theme │ e: name │ a: avatar │ h: help │ c: copy token │ l: sign out"
	if m.mode != modeView {
		hotKeys = "enter: submit │ esc: cancel"
	}
	return renderPage("PROFILE", strings.TrimRight(b.String(), "\n"), hotKeys)
}
