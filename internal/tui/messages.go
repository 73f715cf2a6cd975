package tui

import (
	"github.com/MKhiriev/go-taskpro/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	pageMenu     = "menu"
	pageLogin    = "login"
	pageRegister = "register"
	pageProfile  = "profile"
)

// NavigateTo switches the active page.
type NavigateTo struct {
	Page string
}

// sessionMsg carries a fresh session snapshot published by the machine.
type sessionMsg struct {
	session session.Session
}

// opDoneMsg reports the end of a session operation started by a page.
type opDoneMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

func waitForSession(updates <-chan session.Session) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return sessionMsg{session: s}
	}
}

func navigate(page string) tea.Cmd {
	return func() tea.Msg { return NavigateTo{Page: page} }
}
