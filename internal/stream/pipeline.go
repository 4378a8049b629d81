package stream

import (
	"context"
	"errors"
	"io"

	"github.com/FundamentalEcomLLC/Smartbot/internal/api"
)

// Sessions is what a send needs from the session controller.
type Sessions interface {
	Ensure(ctx context.Context) (string, error)
	MarkConversation()
}

// Chunks is a streamed reply.
type Chunks interface {
	Next() (string, error)
	Close() error
}

// ChatFunc opens a streamed reply for one message.
type ChatFunc func(ctx context.Context, req api.ChatRequest) (Chunks, error)

// FromClient adapts an api.Client to a ChatFunc.
func FromClient(c *api.Client) ChatFunc {
	return func(ctx context.Context, req api.ChatRequest) (Chunks, error) {
		s, err := c.Chat(ctx, req)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// EventKind is the kind of pipeline event.
type EventKind int

const (
	// EventSession: a session exists and the conversation is marked active.
	EventSession EventKind = iota
	EventChunk
	EventDone
	// EventError ends the turn. SessionFailed tells a creation failure apart
	// from a chat failure.
	EventError
)

// Event is one step of a send.
type Event struct {
	Kind          EventKind
	Turn          Turn
	SessionID     string
	Chunk         string
	Err           error
	SessionFailed bool
}

// Request is one outbound message.
type Request struct {
	Turn     Turn
	Message  string
	PageURL  string
	Metadata map[string]any
}

// Run performs one send: ensure a session, mark the conversation, open the
// chat stream and emit each chunk. Every outcome, success or failure, ends
// with exactly one EventDone or EventError. Run never retries.
func Run(ctx context.Context, req Request, sessions Sessions, chat ChatFunc, emit func(Event)) {
	id, err := sessions.Ensure(ctx)
	if err != nil {
		emit(Event{Kind: EventError, Turn: req.Turn, Err: err, SessionFailed: true})
		return
	}
	sessions.MarkConversation()
	emit(Event{Kind: EventSession, Turn: req.Turn, SessionID: id})

	chunks, err := chat(ctx, api.ChatRequest{
		SessionID: id,
		Message:   req.Message,
		PageURL:   req.PageURL,
		Metadata:  req.Metadata,
	})
	if err != nil {
		emit(Event{Kind: EventError, Turn: req.Turn, SessionID: id, Err: err})
		return
	}
	defer chunks.Close()

	for {
		chunk, err := chunks.Next()
		if errors.Is(err, io.EOF) {
			emit(Event{Kind: EventDone, Turn: req.Turn, SessionID: id})
			return
		}
		if err != nil {
			emit(Event{Kind: EventError, Turn: req.Turn, SessionID: id, Err: err})
			return
		}
		if chunk != "" {
			emit(Event{Kind: EventChunk, Turn: req.Turn, SessionID: id, Chunk: chunk})
		}
	}
}
