package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"termlink/internal/role"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Back    key.Binding
	Quit    key.Binding
	Exit    key.Binding
	Dismiss key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		// Exit leaves the program from anywhere, session included.
		Exit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "exit"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
	}
}

// roleKey maps a key press onto the role machine's input alphabet.
func (k keyMap) roleKey(msg tea.KeyMsg) role.Key {
	switch {
	case key.Matches(msg, k.Up):
		return role.KeyUp
	case key.Matches(msg, k.Down):
		return role.KeyDown
	case key.Matches(msg, k.Confirm):
		return role.KeyConfirm
	case key.Matches(msg, k.Back):
		return role.KeyBack
	case key.Matches(msg, k.Quit):
		return role.KeyQuit
	default:
		return role.KeyNone
	}
}

// help returns the footer bindings for the current screen.
func (k keyMap) help(inMenu bool) []key.Binding {
	if inMenu {
		return []key.Binding{k.Up, k.Down, k.Confirm, k.Quit}
	}
	return []key.Binding{k.Back, k.Exit, k.Dismiss}
}
