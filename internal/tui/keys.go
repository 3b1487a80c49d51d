package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	enter    key.Binding
	esc      key.Binding
	tab      key.Binding
	backtab  key.Binding
	quit     key.Binding
	refresh  key.Binding
	complete key.Binding
	delete   key.Binding
	copy     key.Binding
	version  key.Binding
	yes      key.Binding
	no       key.Binding
}

var keys = keyMap{
	enter:    key.NewBinding(key.WithKeys("enter")),
	esc:      key.NewBinding(key.WithKeys("esc")),
	tab:      key.NewBinding(key.WithKeys("tab")),
	backtab:  key.NewBinding(key.WithKeys("shift+tab")),
	quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
	refresh:  key.NewBinding(key.WithKeys("r")),
	complete: key.NewBinding(key.WithKeys("c")),
	delete:   key.NewBinding(key.WithKeys("d")),
	copy:     key.NewBinding(key.WithKeys("y")),
	version:  key.NewBinding(key.WithKeys("v")),
	yes:      key.NewBinding(key.WithKeys("y")),
	no:       key.NewBinding(key.WithKeys("n", "esc")),
}
