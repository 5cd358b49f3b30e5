package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open      key.Binding
	Back      key.Binding
	Next      key.Binding
	Stats     key.Binding
	Wireframe key.Binding
	Save      key.Binding
	Refetch   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/apply")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Stats:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "stats")),
		Wireframe: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wireframe")),
		Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Refetch:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refetch")),
		Help:      key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// catalogKeys is the key map shown on the catalog screen.
type catalogKeys keyMap

func (k catalogKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Help, k.Quit}
}

func (k catalogKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// browserKeys is the key map shown on a browser screen.
type browserKeys keyMap

func (k browserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Open, k.Refetch, k.Stats, k.Wireframe, k.Save, k.Back, k.Quit}
}

func (k browserKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
