package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type MenuModel struct {
	items []string
	idx   int

	restoring bool
	notice    string
	errMsg    string
}

func NewMenuModel() *MenuModel {
	return &MenuModel{
		items: []string{"Sign in", "Create account"},
	}
}

func (m *MenuModel) Init() tea.Cmd {
	return nil
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if s, ok := msg.(sessionMsg); ok {
		m.restoring = s.session.IsRefreshing()
		m.notice = s.session.Notice
		m.errMsg = humanizeServerUnavailableError(s.session.Error)
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.restoring {
		return m, nil
	}

	switch {
	case keyMatches(keyMsg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case keyMatches(keyMsg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case keyMatches(keyMsg, keys.enter):
		if m.idx == 0 {
			return m, navigate(pageLogin)
		}
		return m, navigate(pageRegister)
	}

	return m, nil
}

func (m *MenuModel) View() string {
	if m.restoring {
		return renderPage("TASKPRO", "Restoring your session...", "v: version")
	}

	var b strings.Builder
	idColWidth := lipgloss.Width("ID")
	itemsCountWidth := lipgloss.Width(fmt.Sprintf("%d", len(m.items)))
	if itemsCountWidth > idColWidth {
		idColWidth = itemsCountWidth
	}
	idColWidth += 2 // reserve space for selection marker and space ("<marker> <id>")

	actionColWidth := lipgloss.Width("Action")
	for _, item := range m.items {
		if w := lipgloss.Width(item); w > actionColWidth {
			actionColWidth = w
		}
	}

	if m.notice != "" {
		b.WriteString(noticeStyle.Render("OK: " + m.notice))
		b.WriteString("\n\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("%-*s │ %-*s\n", idColWidth, "ID", actionColWidth, "Action"))
	b.WriteString(strings.Repeat("─", idColWidth))
	b.WriteString("─┼─")
	b.WriteString(strings.Repeat("─", actionColWidth))
	b.WriteString("\n")

	for i, item := range m.items {
		cursor := " "
		if i == m.idx {
			cursor = ">"
		}
		idCell := fmt.Sprintf("%s %d", cursor, i+1)
		b.WriteString(fmt.Sprintf("%-*s │ %-*s\n", idColWidth, idCell, actionColWidth, item))
	}

	return renderPage("MAIN MENU", strings.TrimRight(b.String(), "\n"), "enter: select │ ↑/↓: navigate │ v: version")
}
