package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Kill      key.Binding
	Terminate key.Binding
	KillTree  key.Binding
	Suspend   key.Binding
	Continue  key.Binding
	Renice    key.Binding
	Tree      key.Binding
	Filter    key.Binding
	Sort      key.Binding
	Freeze    key.Binding
	Quit      key.Binding
	Escape    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Kill: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "kill"),
		),
		Terminate: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "terminate"),
		),
		KillTree: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "kill tree"),
		),
		Suspend: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "suspend"),
		),
		Continue: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "continue"),
		),
		Renice: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "renice"),
		),
		Tree: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "tree view"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Freeze: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "freeze"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns key bindings for the help footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Kill, k.Terminate, k.Suspend, k.Continue, k.Renice, k.Tree, k.Filter, k.Sort, k.Freeze, k.Quit}
}
