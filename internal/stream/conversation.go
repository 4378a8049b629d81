// Package stream renders a streamed assistant reply into the conversation
// and drives the send pipeline that produces it.
package stream

import "strings"

const (
	// NoResponseText replaces a reply that finished without any text.
	NoResponseText = "(no response)"
	// ErrorText replaces a reply whose request or stream failed.
	ErrorText = "Sorry, something went wrong. Please try again."
	// SessionErrorText replaces a reply when no session could be started.
	SessionErrorText = "Sorry, I couldn't start a chat right now. Please try again in a moment."
)

// Role is who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one bubble in the conversation.
type Message struct {
	Role Role
	Text string
	// Pending is set on the assistant placeholder while its reply streams.
	Pending bool
	// Failed marks the apology that replaced a failed reply.
	Failed bool
}

// Turn identifies one send. Chunks for a turn that is no longer current are
// dropped, so clearing the conversation mid-stream is safe.
type Turn uint64

// Conversation is the message list of an open panel plus the state of the
// reply currently streaming into it. At most one send is in flight.
type Conversation struct {
	messages []Message
	inFlight bool
	turn     Turn
	pending  int
	buf      strings.Builder
}

// Begin starts a send: it appends the user message and an empty assistant
// placeholder. It returns false, changing nothing, when a send is already in
// flight or text is blank.
func (c *Conversation) Begin(text string) (Turn, bool) {
	text = strings.TrimSpace(text)
	if c.inFlight || text == "" {
		return 0, false
	}
	c.turn++
	c.inFlight = true
	c.buf.Reset()
	c.messages = append(c.messages,
		Message{Role: RoleUser, Text: text},
		Message{Role: RoleAssistant, Pending: true},
	)
	c.pending = len(c.messages) - 1
	return c.turn, true
}

// Append adds a chunk to the reply of turn t and returns the text shown so
// far.
func (c *Conversation) Append(t Turn, chunk string) string {
	if !c.current(t) {
		return ""
	}
	c.buf.WriteString(chunk)
	c.messages[c.pending].Text = c.buf.String()
	return c.messages[c.pending].Text
}

// Finish completes turn t. An empty reply becomes NoResponseText.
func (c *Conversation) Finish(t Turn) string {
	if !c.current(t) {
		return ""
	}
	msg := &c.messages[c.pending]
	if c.buf.Len() == 0 {
		msg.Text = NoResponseText
	}
	msg.Pending = false
	c.inFlight = false
	return msg.Text
}

// Fail replaces the reply of turn t with ErrorText. Partial text is
// discarded.
func (c *Conversation) Fail(t Turn) string {
	return c.FailWith(t, ErrorText)
}

// FailWith is Fail with a custom apology.
func (c *Conversation) FailWith(t Turn, text string) string {
	if !c.current(t) {
		return ""
	}
	msg := &c.messages[c.pending]
	msg.Text = text
	msg.Pending = false
	msg.Failed = true
	c.inFlight = false
	return msg.Text
}

// AddAssistant appends a complete assistant message, such as a greeting or
// an inactivity notice.
func (c *Conversation) AddAssistant(text string) {
	c.messages = append(c.messages, Message{Role: RoleAssistant, Text: text})
}

// Clear drops all messages. A reply still streaming is abandoned.
func (c *Conversation) Clear() {
	c.messages = nil
	c.inFlight = false
	c.turn++
	c.buf.Reset()
}

// InFlight reports whether a send is outstanding.
func (c *Conversation) InFlight() bool { return c.inFlight }

// Len returns the number of messages.
func (c *Conversation) Len() int { return len(c.messages) }

// Messages returns a copy of the message list.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Streaming returns the text of the reply in flight, if any.
func (c *Conversation) Streaming() (string, bool) {
	if !c.inFlight {
		return "", false
	}
	return c.buf.String(), true
}

// Current reports whether t is the send in flight.
func (c *Conversation) Current(t Turn) bool { return c.current(t) }

func (c *Conversation) current(t Turn) bool {
	return c.inFlight && t == c.turn
}
