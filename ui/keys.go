package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Scan        key.Binding
	Toggle      key.Binding
	SelectAll   key.Binding
	DeselectAll key.Binding
	Remove      key.Binding
	Clear       key.Binding
	Format      key.Binding
	OpenOutput  key.Binding
	Start       key.Binding
	Focus       key.Binding
	Undo        key.Binding
	Redo        key.Binding
	Pick        key.Binding
	Up          key.Binding
	Down        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Scan:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		SelectAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		DeselectAll: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "deselect all")),
		Remove:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove selected")),
		Clear:       key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear list")),
		Format:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "format")),
		OpenOutput:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open output")),
		Start:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "convert/stop")),
		Focus:       key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "focus")),
		Undo:        key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo dir")),
		Redo:        key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo dir")),
		Pick:        key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "browse")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scan, k.Toggle, k.Format, k.Start, k.Focus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Scan, k.Toggle, k.SelectAll, k.DeselectAll, k.Remove, k.Clear},
		{k.Format, k.OpenOutput, k.Start, k.Up, k.Down},
		{k.Focus, k.Undo, k.Redo, k.Pick, k.Help, k.Quit},
	}
}
