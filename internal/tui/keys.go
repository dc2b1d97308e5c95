package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab       key.Binding
	Toggle    key.Binding
	Reset     key.Binding
	WorkUp    key.Binding
	WorkDown  key.Binding
	BreakUp   key.Binding
	BreakDown key.Binding
	History   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "timer/history"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		WorkUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "work +1m"),
		),
		WorkDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "work -1m"),
		),
		BreakUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "break +1m"),
		),
		BreakDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "break -1m"),
		),
		History: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "reload history"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Tab, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Tab, k.History},
		{k.WorkUp, k.WorkDown, k.BreakUp, k.BreakDown},
		{k.Help, k.Quit},
	}
}
