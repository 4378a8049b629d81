package ui

import "github.com/charmbracelet/bubbles/key"

// WidgetKeyMap defines the keys the widget shell reacts to. Everything not
// bound here goes to the message input while the panel is open.
type WidgetKeyMap struct {
	Quit        key.Binding
	Toggle      key.Binding
	Minimize    key.Binding
	Close       key.Binding
	CyclePreset key.Binding
	Send        key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Help        key.Binding
}

var WidgetKeys = WidgetKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("Ctrl+C", "leave page"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("Ctrl+O", "open/minimize chat"),
	),
	Minimize: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "minimize"),
	),
	Close: key.NewBinding(
		key.WithKeys("ctrl+w"),
		key.WithHelp("Ctrl+W", "end chat"),
	),
	CyclePreset: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("Ctrl+S", "resize"),
	),
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "send"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("PgUp", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("PgDn", "scroll down"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("F1", "help"),
	),
}

// hint renders a binding as "[Key]desc" for the status bar.
func hint(b key.Binding) string {
	h := b.Help()
	return "[" + h.Key + "]" + h.Desc
}
