package ui

import "github.com/charmbracelet/lipgloss"

// LauncherModel is the button pinned to the bottom-right corner that opens
// and minimizes the chat panel.
type LauncherModel struct {
	open   bool
	unread bool
}

// SetOpen records whether the panel is showing. Opening clears the unread
// marker.
func (l *LauncherModel) SetOpen(open bool) {
	l.open = open
	if open {
		l.unread = false
	}
}

// MarkUnread flags a message that arrived while the panel was hidden.
func (l *LauncherModel) MarkUnread() {
	if !l.open {
		l.unread = true
	}
}

func (l LauncherModel) Unread() bool { return l.unread }

func (l LauncherModel) label() string {
	switch {
	case l.open:
		return "▾ Chat"
	case l.unread:
		return "● Chat"
	default:
		return "◆ Chat"
	}
}

func (l LauncherModel) View(p Palette) string {
	return launcherStyle(p, l.open).Render(l.label())
}

// Width is the rendered width in cells.
func (l LauncherModel) Width() int {
	return lipgloss.Width(l.View(darkPalette))
}
