package tui

import (
	"github.com/MKhiriev/go-taskpro/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d1242f"))
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#1a7f37"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

var themeAccents = map[models.Theme]lipgloss.Color{
	models.ThemeLight:  lipgloss.Color("#1f6feb"),
	models.ThemeDark:   lipgloss.Color("#8b949e"),
	models.ThemeViolet: lipgloss.Color("#8957e5"),
}

// accentStyle colours profile headings with the user's board theme.
func accentStyle(theme models.Theme) lipgloss.Style {
	accent, ok := themeAccents[theme]
	if !ok {
		accent = themeAccents[models.DefaultTheme]
	}
	return lipgloss.NewStyle().Bold(true).Foreground(accent)
}
