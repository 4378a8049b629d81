package ui

import (
	"strings"

	"github.com/FundamentalEcomLLC/Smartbot/internal/stream"
)

// TranscriptModel renders a conversation for the chat viewport. Settled
// messages are rendered once and cached; the reply that is still streaming
// goes through a StreamRenderer on every update.
type TranscriptModel struct {
	assistantName string
	live          StreamRenderer

	cache       string
	cacheWidth  int
	cacheCount  int
	cacheFailed []int
	stale       bool

	// failedLines holds the line offset of each failed reply in the last
	// render, for the scrollbar.
	failedLines []int
	lineCount   int
}

func NewTranscriptModel(assistantName string) TranscriptModel {
	return TranscriptModel{assistantName: assistantName, stale: true}
}

// Invalidate drops the cached render. Call it whenever the settled part of
// the conversation changed in a way its length does not reveal, e.g. after
// a clear.
func (t *TranscriptModel) Invalidate() {
	t.stale = true
}

// FailedLines returns the line offsets of failed replies in the last render.
func (t *TranscriptModel) FailedLines() []int { return t.failedLines }

// LineCount returns the number of lines in the last render.
func (t *TranscriptModel) LineCount() int { return t.lineCount }

// Render renders msgs at width.
func (t *TranscriptModel) Render(msgs []stream.Message, width int, md *MarkdownRenderer) string {
	if len(msgs) == 0 {
		t.live.Reset()
		t.failedLines = nil
		t.lineCount = 0
		return renderEmptyState("No messages yet", "Type below and press Enter")
	}

	settled := msgs
	var pending *stream.Message
	if last := msgs[len(msgs)-1]; last.Pending {
		settled = msgs[:len(msgs)-1]
		pending = &last
	}

	if t.stale || t.cacheWidth != width || t.cacheCount != len(settled) {
		t.renderSettled(settled, width, md)
		t.live.Reset()
	}

	var b strings.Builder
	b.WriteString(t.cache)
	t.failedLines = t.cacheFailed

	if pending != nil {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(chatAssistantStyle.Render(t.assistantName + ":"))
		b.WriteString("\n")
		if pending.Text == "" {
			b.WriteString(chatPendingStyle.Render(t.assistantName + " is typing..."))
		} else {
			t.live.Update(pending.Text, func(s string) string { return md.RenderMarkdown(s, width) })
			b.WriteString(t.live.View(wordWrap, width))
		}
	}

	out := b.String()
	t.lineCount = strings.Count(out, "\n") + 1
	return out
}

func (t *TranscriptModel) renderSettled(msgs []stream.Message, width int, md *MarkdownRenderer) {
	var b strings.Builder
	var failed []int

	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.Role == stream.RoleUser {
			b.WriteString(chatUserStyle.Render("You:"))
		} else {
			b.WriteString(chatAssistantStyle.Render(t.assistantName + ":"))
		}
		b.WriteString("\n")
		switch {
		case msg.Failed:
			failed = append(failed, strings.Count(b.String(), "\n"))
			b.WriteString(chatFailedStyle.Render(wordWrap(msg.Text, width)))
		case msg.Role == stream.RoleAssistant:
			b.WriteString(md.RenderMarkdown(msg.Text, width))
		default:
			b.WriteString(wordWrap(msg.Text, width))
		}
	}

	t.cache = b.String()
	t.cacheWidth = width
	t.cacheCount = len(msgs)
	t.cacheFailed = failed
	t.stale = false
}
