package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusBarModel renders the bottom status bar. The terminal shell uses it
// as the host page's chrome: key hints on the left, widget state on the right.
type StatusBarModel struct {
	width     int
	panelOpen bool
	dragging  bool
	streaming bool

	theme   string
	layout  string // preset id, or "custom" after a drag-resize
	session string

	// Temporary flash message (e.g. "Chat closed")
	statusMessage string
	// Monotonic counter: incremented on each SetTemporaryMessage call.
	// StatusBarClearMsg carries the seq at time of scheduling; if it doesn't
	// match current seq the clear is stale and ignored.
	messageSeq int
}

func NewStatusBarModel() StatusBarModel {
	return StatusBarModel{}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

// SetWidgetState updates everything the hints and the right side depend on.
func (m *StatusBarModel) SetWidgetState(panelOpen, dragging, streaming bool, theme, layout, session string) {
	m.panelOpen = panelOpen
	m.dragging = dragging
	m.streaming = streaming
	m.theme = theme
	m.layout = layout
	m.session = session
}

// SetTemporaryMessage shows a flash message in the status bar.
// Returns a tea.Cmd that will send a StatusBarClearMsg after the given duration,
// which the caller must include in the returned command batch.
func (m *StatusBarModel) SetTemporaryMessage(msg string, duration time.Duration) tea.Cmd {
	m.messageSeq++
	m.statusMessage = msg
	seq := m.messageSeq
	return tea.Tick(duration, func(_ time.Time) tea.Msg {
		return StatusBarClearMsg{Seq: seq}
	})
}

// ClearIfSeqMatch clears the message only if the given seq matches the current one.
// Returns true if the message was cleared.
func (m *StatusBarModel) ClearIfSeqMatch(seq int) bool {
	if seq == m.messageSeq {
		m.statusMessage = ""
		return true
	}
	return false
}

func (m StatusBarModel) View() string {
	var leftHints string
	if m.statusMessage != "" {
		leftHints = " " + m.statusMessage
	} else {
		leftHints = m.keyHints()
	}
	rightInfo := m.contextInfo()

	leftRendered := statusBarAccentStyle.Render(leftHints)
	rightRendered := statusBarStyle.Render(rightInfo)

	leftWidth := lipgloss.Width(leftRendered)
	rightWidth := lipgloss.Width(rightRendered)
	padding := m.width - leftWidth - rightWidth
	if padding < 0 {
		padding = 0
	}

	bar := leftRendered +
		statusBarStyle.Render(strings.Repeat(" ", padding)) +
		rightRendered

	return statusBarStyle.Width(m.width).MaxHeight(1).Render(bar)
}

func (m StatusBarModel) keyHints() string {
	k := WidgetKeys
	switch {
	case m.dragging:
		return " [drag]resize [release]done"
	case m.streaming:
		return " replying... " + hint(k.ScrollUp) + " " + hint(k.Toggle) + " " + hint(k.Quit)
	case m.panelOpen:
		return " " + strings.Join([]string{
			hint(k.Send), hint(k.Minimize), hint(k.Close), hint(k.CyclePreset), hint(k.Help), hint(k.Quit),
		}, " ")
	default:
		return " " + hint(k.Toggle) + " [click]launcher " + hint(k.Help) + " " + hint(k.Quit)
	}
}

func (m StatusBarModel) contextInfo() string {
	parts := make([]string, 0, 3)
	if m.session != "" {
		parts = append(parts, m.session)
	}
	if m.layout != "" {
		parts = append(parts, m.layout)
	}
	if m.theme != "" {
		parts = append(parts, m.theme)
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " | ") + " "
}
