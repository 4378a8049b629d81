package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// MarkdownRenderer provides cached glamour markdown rendering for assistant
// messages.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// RenderMarkdown renders markdown text with glamour for terminal display.
// Uses a cached renderer per width and style to avoid re-creating it on
// every call. Falls back to plain wordWrap if glamour fails.
func (mr *MarkdownRenderer) RenderMarkdown(markdown string, width int) string {
	if width < 10 {
		width = 10
	}
	r := mr.getOrCreate(width)
	if r == nil {
		return wordWrap(markdown, width)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return wordWrap(markdown, width)
	}
	return strings.TrimSpace(out)
}

// SetStyle picks glamour's "dark" or "light" standard style. An empty
// style means auto-detect from the terminal.
func (mr *MarkdownRenderer) SetStyle(style string) {
	if style != mr.style {
		mr.style = style
		mr.renderer = nil
	}
}

func (mr *MarkdownRenderer) getOrCreate(width int) *glamour.TermRenderer {
	if mr.renderer != nil && mr.width == width {
		return mr.renderer
	}
	styleOpt := glamour.WithAutoStyle()
	if mr.style != "" {
		styleOpt = glamour.WithStandardStyle(mr.style)
	}
	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	mr.renderer = r
	mr.width = width
	return r
}

// wordWrap wraps text to fit within the given width. Words longer than the
// width are broken hard.
func wordWrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wrap.String(wordwrap.String(s, width), width)
}
