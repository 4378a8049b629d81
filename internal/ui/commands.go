package ui

import (
	"context"
	"time"

	"github.com/FundamentalEcomLLC/Smartbot/internal/engagement"
	"github.com/FundamentalEcomLLC/Smartbot/internal/session"
	"github.com/FundamentalEcomLLC/Smartbot/internal/stream"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// frameInterval is one animation frame for coalesced theme recomputes.
	frameInterval = 16 * time.Millisecond
	// teardownTimeout bounds an awaited close-session request.
	teardownTimeout = 5 * time.Second
)

// tickFunc delivers msg after d. Tests replace it to fire timers by hand.
type tickFunc func(d time.Duration, msg tea.Msg) tea.Cmd

func realTick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// armTimerCmd schedules an engagement timer.
func armTimerCmd(tick tickFunc, a engagement.Arm) tea.Cmd {
	return tick(a.Delay, TimerFiredMsg{Timer: a.Timer, Gen: a.Gen})
}

// themeFrameCmd fires the next theme recompute frame.
func themeFrameCmd(tick tickFunc) tea.Cmd {
	return tick(frameInterval, themeFrameMsg{})
}

// startSendCmd runs the send pipeline in a goroutine and returns the
// channel its events arrive on plus the command that reads the first one.
func startSendCmd(ctx context.Context, req stream.Request, sessions stream.Sessions, chat stream.ChatFunc) (chatStreamChan, tea.Cmd) {
	ch := make(chatStreamChan)
	go func() {
		defer close(ch)
		stream.Run(ctx, req, sessions, chat, func(ev stream.Event) {
			select {
			case ch <- ChatStreamMsg{Event: ev, src: ch}:
			case <-ctx.Done():
			}
		})
	}()
	return ch, listenForChatStream(ch)
}

// listenForChatStream returns a tea.Cmd that reads the next message from the streaming channel.
func listenForChatStream(ch chatStreamChan) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return chatStreamClosedMsg{}
		}
		return msg
	}
}

// teardownCmd closes a detached session and waits for the server to
// acknowledge. Local state was already reset by Detach.
func teardownCmd(sessions *session.Controller, id, reason string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
		defer cancel()
		sessions.Close(ctx, session.CloseOptions{
			ID:              id,
			PreserveStorage: true,
			SkipStateReset:  true,
			Reason:          reason,
		})
		return TeardownDoneMsg{Reason: reason}
	}
}

// notifyCmd raises a desktop notification. Failures are reported back so
// they can be logged; they never reach the visitor.
func notifyCmd(n Notifier, title, body string) tea.Cmd {
	if n == nil || !n.Enabled() {
		return nil
	}
	return func() tea.Msg {
		if err := n.Send(context.Background(), title, body); err != nil {
			return notifyErrMsg{Err: err}
		}
		return nil
	}
}
