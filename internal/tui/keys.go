package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	esc     key.Binding
	tab     key.Binding
	backtab key.Binding
	logout  key.Binding
	theme   key.Binding
	edit    key.Binding
	avatar  key.Binding
	help    key.Binding
	copy    key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k")),
	down:    key.NewBinding(key.WithKeys("down", "j")),
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	tab:     key.NewBinding(key.WithKeys("tab")),
	backtab: key.NewBinding(key.WithKeys("shift+tab")),
	logout:  key.NewBinding(key.WithKeys("l")),
	theme:   key.NewBinding(key.WithKeys("t")),
	edit:    key.NewBinding(key.WithKeys("e")),
	avatar:  key.NewBinding(key.WithKeys("a")),
	help:    key.NewBinding(key.WithKeys("h")),
	copy:    key.NewBinding(key.WithKeys("c")),
}

func keyMatches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}
