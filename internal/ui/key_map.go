package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	yes       key.Binding
	no        key.Binding
	tab       key.Binding
	refresh   key.Binding
	retry     key.Binding
	picker    key.Binding
	favorites key.Binding
	settings  key.Binding
	save      key.Binding
	remove    key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch mode")),
		refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh (device)")),
		retry:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "retry this location")),
		picker:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "set location")),
		favorites: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorites")),
		settings:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		save:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "save favorite")),
		remove:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.refresh, k.retry, k.picker, k.favorites},
		{k.save, k.remove, k.settings, k.quit},
	}
}
