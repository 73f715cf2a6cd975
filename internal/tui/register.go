package tui

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const minPasswordLength = 8

// RegisterModel is the Bubble Tea model for the sign-up screen. It renders
// four text inputs (name, email, password and its confirmation) and calls
// [Session.Register]. On success the session waits for the email
// confirmation and [RootModel] returns to the menu, which shows the
// server's notice.
type RegisterModel struct {
	ctx     context.Context
	session Session

	form       form
	submitting bool
	errMsg     string
}

func NewRegisterModel(ctx context.Context, s Session) *RegisterModel {
	return &RegisterModel{
		ctx:     ctx,
		session: s,
		form: newForm(
			newInput("name", 64, false),
			newInput("email", 254, false),
			newInput("password", 256, true),
			newInput("repeat password", 256, true),
		),
	}
}

func (m *RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case opDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.form.reset()
		return m, nil
	case sessionMsg:
		return m, nil
	case tea.KeyMsg:
		switch {
		case keyMatches(msg, keys.esc):
			m.errMsg = ""
			return m, navigate(pageMenu)
		case keyMatches(msg, keys.tab):
			m.form.focusNext()
			return m, nil
		case keyMatches(msg, keys.backtab):
			m.form.focusPrev()
			return m, nil
		case keyMatches(msg, keys.enter):
			if m.submitting {
				return m, nil
			}

			name := strings.TrimSpace(m.form.value(0))
			email := strings.TrimSpace(m.form.value(1))
			pass := m.form.value(2)
			repeat := m.form.value(3)

			if errMsg := validateRegistration(name, email, pass, repeat); errMsg != "" {
				m.errMsg = errMsg
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdRegister(name, email, pass)
		}
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m *RegisterModel) View() string {
	var b strings.Builder
	b.WriteString("Field            │ Value\n")
	b.WriteString("─────────────────┼────────────────────────────────────\n")
	b.WriteString("Name             │ [")
	b.WriteString(m.form.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Email            │ [")
	b.WriteString(m.form.inputs[1].View())
	b.WriteString("]\n")
	b.WriteString("Password         │ [")
	b.WriteString(m.form.inputs[2].View())
	b.WriteString("]\n")
	b.WriteString("Repeat password  │ [")
	b.WriteString(m.form.inputs[3].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Creating account...]\n")
	} else {
		b.WriteString("\n[Create account]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("CREATE ACCOUNT", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *RegisterModel) cmdRegister(name, email, pass string) tea.Cmd {
	ctx := m.ctx
	s := m.session

	return func() tea.Msg {
		return opDoneMsg{err: s.Register(ctx, name, email, pass)}
	}
}

// validateRegistration mirrors the server's form rules so obvious mistakes
// never cost a rate-limited attempt.
func validateRegistration(name, email, pass, repeat string) string {
	switch {
	case name == "" || email == "" || pass == "" || repeat == "":
		return "All fields are required"
	case !strings.Contains(email, "@"):
		return "Email is not valid"
	case utf8.RuneCountInString(pass) < minPasswordLength:
		return "Password must be at least 8 characters"
	case pass != repeat:
		return "Passwords do not match"
	}
	return ""
}
