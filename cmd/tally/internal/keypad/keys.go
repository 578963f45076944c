package keypad

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the TUI key bindings. Calculator keys are matched by
// keymap.Translate; the bindings here drive the help view and the keys the
// UI handles itself.
type KeyMap struct {
	Digits    key.Binding
	Operators key.Binding
	Evaluate  key.Binding
	Clear     key.Binding
	Delete    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// NewKeyMap returns the default bindings.
func NewKeyMap() KeyMap {
	return KeyMap{
		Digits: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ".", ","),
			key.WithHelp("0-9 .", "enter number"),
		),
		Operators: key.NewBinding(
			key.WithKeys("+", "-", "*", "/"),
			key.WithHelp("+ - * /", "operator"),
		),
		Evaluate: key.NewBinding(
			key.WithKeys("enter", "="),
			key.WithHelp("enter =", "evaluate"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc", "delete"),
			key.WithHelp("esc del", "clear"),
		),
		Delete: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "delete digit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Evaluate, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Digits, k.Operators, k.Evaluate},
		{k.Clear, k.Delete},
		{k.Help, k.Quit},
	}
}
