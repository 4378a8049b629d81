package ui

import (
	"strings"

	"github.com/FundamentalEcomLLC/Smartbot/internal/stream"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// dragHandle is drawn in the panel's top-left corner. Dragging it resizes
// the panel; the bottom-right corner stays put.
const dragHandle = "◤"

// ChatPanelModel is the floating chat panel: a header, the scrolling
// transcript and the message input.
type ChatPanelModel struct {
	viewport   viewport.Model
	textInput  textinput.Model
	transcript TranscriptModel
	md         MarkdownRenderer

	title  string
	width  int // outer size, border included
	height int
	ready  bool

	streaming bool
	dragging  bool
	layout    string
}

func NewChatPanelModel(title string) ChatPanelModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "> "
	ti.CharLimit = 2000

	return ChatPanelModel{
		textInput:  ti,
		transcript: NewTranscriptModel(title),
		title:      title,
	}
}

// Update routes scroll keys to the transcript and everything else to the
// input. Send is handled by the App.
func (m ChatPanelModel) Update(msg tea.Msg) (ChatPanelModel, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, WidgetKeys.ScrollUp):
			m.viewport.HalfViewUp()
			return m, nil
		case key.Matches(msg, WidgetKeys.ScrollDown):
			m.viewport.HalfViewDown()
			return m, nil
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// SetSize sets the outer panel size.
func (m *ChatPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Border (2) on both axes; header, divider and input rows (3); scrollbar column (1).
	innerWidth := max(width-2-1, 1)
	innerHeight := max(height-2-3, 1)

	m.textInput.Width = max(width-2-lipgloss.Width(m.textInput.Prompt)-1, 1)

	if !m.ready {
		m.viewport = viewport.New(innerWidth, innerHeight)
		m.viewport.MouseWheelEnabled = true
		m.ready = true
	} else {
		m.viewport.Width = innerWidth
		m.viewport.Height = innerHeight
	}
	m.transcript.Invalidate()
}

// SetMarkdownStyle switches glamour between its dark and light styles.
func (m *ChatPanelModel) SetMarkdownStyle(style string) {
	m.md.SetStyle(style)
	m.transcript.Invalidate()
}

// SetState updates the decorations that depend on widget state.
func (m *ChatPanelModel) SetState(streaming, dragging bool, layout string) {
	m.streaming = streaming
	m.dragging = dragging
	m.layout = layout
}

func (m *ChatPanelModel) Focus() tea.Cmd { return m.textInput.Focus() }
func (m *ChatPanelModel) Blur()          { m.textInput.Blur() }

// InputValue returns the text typed so far.
func (m ChatPanelModel) InputValue() string { return m.textInput.Value() }

// ResetInput clears the input after a send was accepted.
func (m *ChatPanelModel) ResetInput() { m.textInput.Reset() }

// Refresh re-renders the transcript from msgs. If the user was following
// the newest message the viewport stays pinned to the bottom.
func (m *ChatPanelModel) Refresh(msgs []stream.Message, structural bool) {
	if !m.ready {
		return
	}
	if structural {
		m.transcript.Invalidate()
	}
	follow := m.viewport.AtBottom() || structural
	m.viewport.SetContent(m.transcript.Render(msgs, m.viewport.Width, &m.md))
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m ChatPanelModel) View(p Palette) string {
	if !m.ready {
		return ""
	}
	innerWidth := max(m.width-2, 1)

	header := m.renderHeader(p, innerWidth)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), m.renderScrollbar())

	divider := scrollIndicator(m.viewport, innerWidth)
	if divider == "" {
		divider = lipgloss.NewStyle().Foreground(p.Border).Render(strings.Repeat("─", innerWidth))
	}

	input := truncate.String(m.textInput.View(), uint(innerWidth))
	inner := lipgloss.JoinVertical(lipgloss.Left, header, body, divider, input)

	return panelStyle(p, m.dragging, m.streaming, m.width, m.height).Render(inner)
}

func (m ChatPanelModel) renderHeader(p Palette, width int) string {
	left := panelHeaderStyle(p).Render(dragHandle + " " + m.title)
	right := lipgloss.NewStyle().Foreground(p.Dim).Render(m.layout)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncate.String(left, uint(width))
	}
	return left + strings.Repeat(" ", gap) + right
}
