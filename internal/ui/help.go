package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayModel is the key and mouse reference drawn over the page.
type HelpOverlayModel struct {
	viewport  viewport.Model
	width     int // page area
	height    int
	visible   bool
	panelOpen bool // which section is marked current
	ready     bool
}

func NewHelpOverlayModel() HelpOverlayModel {
	return HelpOverlayModel{}
}

// Show makes the overlay visible. panelOpen picks the current section.
func (m *HelpOverlayModel) Show(panelOpen bool) {
	m.visible = true
	m.panelOpen = panelOpen
	m.refreshContent()
}

func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize updates the page size the overlay centers in.
func (m *HelpOverlayModel) SetSize(pageWidth, pageHeight int) {
	m.width = pageWidth
	m.height = pageHeight

	innerW, innerH := m.innerDimensions()
	if !m.ready {
		m.viewport = viewport.New(innerW, innerH)
		m.ready = true
	} else {
		m.viewport.Width = innerW
		m.viewport.Height = innerH
	}
	m.refreshContent()
}

func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(keyMsg, WidgetKeys.Help) || key.Matches(keyMsg, WidgetKeys.Minimize) {
		m.Hide()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(keyMsg)
	return m, cmd
}

// View renders the overlay box, or "" when hidden. Origin gives its
// top-left corner on the page.
func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}
	overlayW, overlayH := m.overlayDimensions()
	innerW := max(overlayW-4, 1)

	var content string
	if m.ready {
		content = m.viewport.View()
	}

	title := lipgloss.PlaceHorizontal(innerW, lipgloss.Center, helpTitleStyle.Render(" Chat widget help "))
	footer := lipgloss.PlaceHorizontal(innerW, lipgloss.Center,
		helpFooterStyle.Render(" "+WidgetKeys.Help.Help().Key+" / Esc to close "))

	parts := []string{title, "", content, scrollIndicator(m.viewport, innerW), footer}
	box := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Width(max(overlayW-2, 0)).
		Height(max(overlayH-2, 0)).
		Render(box)
}

// Origin centers the overlay on the page.
func (m HelpOverlayModel) Origin() (left, top int) {
	w, h := m.overlayDimensions()
	return max((m.width-w)/2, 0), max((m.height-h)/2, 0)
}

func (m HelpOverlayModel) overlayDimensions() (width, height int) {
	width = min(max(m.width*3/5, 46), m.width)
	height = min(max(m.height*2/3, 14), m.height)
	return width, height
}

func (m HelpOverlayModel) innerDimensions() (width, height int) {
	ow, oh := m.overlayDimensions()
	// border (2), padding (2), title and blank (2), indicator and footer (2)
	return max(ow-4, 1), max(oh-6, 1)
}

func (m *HelpOverlayModel) refreshContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHelpContent())
	m.viewport.GotoTop()
}

type helpEntry struct {
	key  string
	desc string
}

func bindingEntry(b key.Binding) helpEntry {
	h := b.Help()
	return helpEntry{h.Key, h.Desc}
}

func (m HelpOverlayModel) renderHelpContent() string {
	innerW, _ := m.innerDimensions()
	k := WidgetKeys

	sections := []struct {
		title string
		match bool
		keys  []helpEntry
	}{
		{
			title: "Page",
			match: !m.panelOpen,
			keys: []helpEntry{
				bindingEntry(k.Toggle),
				{"Click launcher", "open/minimize chat"},
				{"Wheel", "scroll page"},
				bindingEntry(k.Help),
				bindingEntry(k.Quit),
			},
		},
		{
			title: "Chat panel",
			match: m.panelOpen,
			keys: []helpEntry{
				bindingEntry(k.Send),
				bindingEntry(k.Minimize),
				bindingEntry(k.Close),
				bindingEntry(k.CyclePreset),
				{"Drag " + dragHandle, "resize panel"},
				{"PgUp / Ctrl+U", "scroll up"},
				{"PgDn / Ctrl+D", "scroll down"},
				{"Wheel", "scroll messages"},
			},
		},
	}

	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		title := section.title
		style, divider := helpSectionStyle, helpDividerStyle
		if section.match {
			title += " (current)"
			style, divider = helpSectionActiveStyle, helpSectionActiveStyle
		}
		b.WriteString(style.Render(title) + "\n")
		b.WriteString(divider.Render(strings.Repeat("─", min(lipgloss.Width(title)+2, innerW))) + "\n")

		for _, entry := range section.keys {
			b.WriteString(helpKeyStyle.Render(padRight(entry.key, 18)) + helpDescStyle.Render(entry.desc) + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func padRight(s string, width int) string {
	if lipgloss.Width(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}

// Help overlay styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	helpFooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("33"))

	helpSectionActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("42"))

	helpDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)
