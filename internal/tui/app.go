package tui

import (
	"github.com/MKhiriev/go-taskpro/internal/session"
	"github.com/MKhiriev/go-taskpro/models"
	tea "github.com/charmbracelet/bubbletea"
)

// RootModel is a TUI router:
// 1) keeps active page
// 2) handles global Ctrl+C quit
// 3) follows the session status: signed-in users land on the profile,
// signed-out users are sent back to the menu
// 4) delegates all other messages to the active page
type RootModel struct {
	pages   map[string]tea.Model
	current string

	session session.Session
	updates <-chan session.Session

	quitByUser    bool
	buildInfo     models.AppBuildInfo
	showBuildInfo bool
}

// NewRootModel registers all pages and opens startPage. Every value read
// from updates is routed as a session snapshot.
func NewRootModel(pages map[string]tea.Model, startPage string, buildInfo models.AppBuildInfo, initial session.Session, updates <-chan session.Session) RootModel {
	r := RootModel{
		pages:     pages,
		current:   startPage,
		buildInfo: buildInfo,
		updates:   updates,
	}
	r.session = initial
	r.current = route(session.StatusUnauthenticated, initial.Status, startPage)
	r.syncPage()
	return r
}

func (r RootModel) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForSession(r.updates)}
	if page, ok := r.pages[r.current]; ok {
		cmds = append(cmds, page.Init())
	}
	return tea.Batch(cmds...)
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Global hotkey for every page.
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			r.quitByUser = true
			return r, tea.Quit
		case "v":
			if r.current == pageMenu {
				r.showBuildInfo = !r.showBuildInfo
				return r, nil
			}
		case "esc":
			if r.showBuildInfo {
				r.showBuildInfo = false
				return r, nil
			}
		}

		if r.showBuildInfo {
			return r, nil
		}
	}

	switch msg := msg.(type) {
	case NavigateTo:
		if _, exists := r.pages[msg.Page]; !exists {
			return r, nil
		}
		r.showBuildInfo = false
		r.current = msg.Page
		return r, tea.Batch(r.pages[r.current].Init(), r.syncPage())

	case sessionMsg:
		prev := r.session.Status
		r.session = msg.session
		wait := waitForSession(r.updates)

		if next := route(prev, msg.session.Status, r.current); next != r.current {
			r.showBuildInfo = false
			r.current = next
			return r, tea.Batch(wait, r.pages[r.current].Init(), r.syncPage())
		}
		return r, tea.Batch(wait, r.syncPage())
	}

	return r.updatePage(msg)
}

func (r RootModel) View() string {
	if r.showBuildInfo {
		return renderBuildInfoWindow(r.buildInfo)
	}
	page, ok := r.pages[r.current]
	if !ok {
		return renderPage("TASKPRO", "", "")
	}
	return page.View()
}

func (r RootModel) updatePage(msg tea.Msg) (RootModel, tea.Cmd) {
	page, ok := r.pages[r.current]
	if !ok {
		return r, nil
	}
	updated, cmd := page.Update(msg)
	r.pages[r.current] = updated
	return r, cmd
}

// syncPage hands the latest snapshot to the active page.
func (r RootModel) syncPage() tea.Cmd {
	_, cmd := r.updatePage(sessionMsg{session: r.session})
	return cmd
}

// route picks the page after a status change. Signing in opens the
// profile; leaving the authenticated state or finishing a registration
// returns to the menu. Other changes keep the current page.
func route(prev, next session.Status, current string) string {
	if prev == next {
		return current
	}
	switch {
	case next == session.StatusAuthenticated:
		return pageProfile
	case next == session.StatusPendingConfirmation:
		return pageMenu
	case prev == session.StatusAuthenticated, current == pageProfile:
		return pageMenu
	}
	return current
}
