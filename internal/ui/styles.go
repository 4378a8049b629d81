package ui

import (
	"strings"

	"github.com/FundamentalEcomLLC/Smartbot/internal/theme"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors the widget draws with for one launcher theme.
type Palette struct {
	LauncherFg lipgloss.Color
	LauncherBg lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
	Dim        lipgloss.Color
}

// Palettes per theme. Dark sits on light pages, Light on dark ones.
var (
	darkPalette = Palette{
		LauncherFg: lipgloss.Color("255"),
		LauncherBg: lipgloss.Color("24"),
		Accent:     lipgloss.Color("62"),
		Border:     lipgloss.Color("238"),
		Dim:        lipgloss.Color("244"),
	}
	lightPalette = Palette{
		LauncherFg: lipgloss.Color("17"),
		LauncherBg: lipgloss.Color("153"),
		Accent:     lipgloss.Color("111"),
		Border:     lipgloss.Color("250"),
		Dim:        lipgloss.Color("248"),
	}
)

func paletteFor(t theme.Theme) Palette {
	if t == theme.Light {
		return lightPalette
	}
	return darkPalette
}

// Panel border colors
var (
	draggingBorderColor  = lipgloss.Color("214") // orange
	streamingBorderColor = lipgloss.Color("42")  // green
)

// Status bar
var (
	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252"))
	statusBarAccentStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("62")).
				Bold(true)
)

// Chat styles
var (
	chatUserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)
	chatAssistantStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)
	chatFailedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Italic(true)
	chatPendingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Italic(true)
)

// panelStyle draws the chat panel frame. width and height are the outer
// size, border included.
func panelStyle(p Palette, dragging, streaming bool, width, height int) lipgloss.Style {
	borderColor := p.Accent
	switch {
	case dragging:
		borderColor = draggingBorderColor
	case streaming:
		borderColor = streamingBorderColor
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(max(width-2, 0)).
		Height(max(height-2, 0))
}

func panelHeaderStyle(p Palette) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
}

func launcherStyle(p Palette, open bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Foreground(p.LauncherFg).
		Background(p.LauncherBg).
		Bold(true).
		Padding(0, 1)
	if open {
		s = s.Underline(true)
	}
	return s
}

// renderEmptyState renders a consistent empty state message with optional action hint.
func renderEmptyState(message, hint string) string {
	msg := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Padding(1, 2).
		Render(message)
	if hint == "" {
		return msg
	}
	h := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true).
		Padding(0, 2).
		Render(hint)
	return lipgloss.JoinVertical(lipgloss.Left, msg, h)
}

// formatUserError converts raw error strings into short status-bar messages.
func formatUserError(err string) string {
	lower := strings.ToLower(err)
	switch {
	case strings.Contains(lower, "(429)") || strings.Contains(lower, "rate limit"):
		return "Chat is busy. Wait a moment and try again."
	case strings.Contains(lower, "start-session failed") || strings.Contains(lower, "start session"):
		return "Could not start a chat session."
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return "Request timed out. Check your connection and try again."
	case strings.Contains(lower, "no such host") || strings.Contains(lower, "connection refused"):
		return "Network error. Check your internet connection."
	default:
		return err
	}
}

// Vertical scrollbar styles (1-char wide column beside the transcript)
var (
	scrollbarTrackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	scrollbarThumbStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	scrollbarFailedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Scroll indicator style
var scrollIndicatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

// scrollIndicator returns a hint line when the transcript is scrolled away
// from the newest message, "" otherwise.
func scrollIndicator(vp viewport.Model, width int) string {
	if vp.TotalLineCount() <= vp.Height || vp.AtBottom() {
		return ""
	}
	return scrollIndicatorStyle.Render(
		lipgloss.PlaceHorizontal(width, lipgloss.Right, "▼ newer messages"),
	)
}
