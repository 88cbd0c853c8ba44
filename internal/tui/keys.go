package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the terminal shell bindings.
type KeyMap struct {
	Address key.Binding
	Apply   key.Binding
	Back    key.Binding
	Forward key.Binding
	Up      key.Binding
	Down    key.Binding
	Edit    key.Binding
	Menu    key.Binding
	Close   key.Binding
	Quit    key.Binding
}

// DefaultKeys are the bindings shown in the help line.
var DefaultKeys = KeyMap{
	Address: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "address")),
	Apply:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Back:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "back")),
	Forward: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "forward")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit view")),
	Menu:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
	Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Address, k.Up, k.Down, k.Apply, k.Menu, k.Edit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Address, k.Back, k.Forward},
		{k.Up, k.Down, k.Apply},
		{k.Edit, k.Menu, k.Close, k.Quit},
	}
}
