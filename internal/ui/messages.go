package ui

import (
	"github.com/FundamentalEcomLLC/Smartbot/internal/engagement"
	"github.com/FundamentalEcomLLC/Smartbot/internal/stream"
)

// -- Chat streaming --

// chatStreamChan carries one send's pipeline events to the update loop.
type chatStreamChan chan ChatStreamMsg

// ChatStreamMsg is one pipeline event of a send. src is the channel it came
// from, so the listener keeps draining the right send even after the
// conversation was cleared and another send started.
type ChatStreamMsg struct {
	Event stream.Event
	src   chatStreamChan
}

// chatStreamClosedMsg is sent once a send's channel is drained.
type chatStreamClosedMsg struct{}

// -- Engagement timers --

// TimerFiredMsg delivers an armed engagement timer. Gen is matched by the
// state machine, so a firing that was superseded is a no-op.
type TimerFiredMsg struct {
	Timer engagement.Timer
	Gen   uint64
}

// -- Session teardown --

// TeardownDoneMsg is sent when a session close finished (or failed; close
// failures are logged and swallowed).
type TeardownDoneMsg struct {
	Reason string
}

// -- Theming --

// themeFrameMsg fires once per coalesced recompute request.
type themeFrameMsg struct{}

// -- Notifications --

// notifyErrMsg reports a desktop notification that could not be sent.
type notifyErrMsg struct {
	Err error
}

// -- Status bar --

// StatusBarClearMsg is sent after a delay to clear a temporary status bar message.
// Seq must match the status bar's current messageSeq; stale clears are ignored.
type StatusBarClearMsg struct {
	Seq int
}
