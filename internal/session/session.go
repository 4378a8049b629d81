// Package session owns the widget's conversation session id: lazy creation,
// persistence across reloads of the same tab, and teardown.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/FundamentalEcomLLC/Smartbot/internal/api"
	"github.com/FundamentalEcomLLC/Smartbot/internal/storage"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Backend is the part of the API the controller needs.
type Backend interface {
	StartSession(ctx context.Context) (string, error)
	CloseSession(ctx context.Context, sessionID string) error
	Beacon(sessionID string)
}

// CreationError means the backend refused to issue a session.
type CreationError struct {
	// Status is the HTTP status, or 0 when the request never got a response.
	Status int
	Err    error
}

func (e *CreationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("session creation failed (%d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("session creation failed: %v", e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// CloseOptions controls a teardown.
type CloseOptions struct {
	// ID overrides the session to tear down. Empty means the current one.
	ID string
	// UseBeacon delivers without waiting. Used on unload.
	UseBeacon bool
	// PreserveStorage keeps the persisted record.
	PreserveStorage bool
	// SkipStateReset keeps the in-memory id and conversation flag.
	SkipStateReset bool
	// Reason is recorded in the log only.
	Reason string
}

// Controller holds at most one live session id per tab and bot.
type Controller struct {
	backend Backend
	tab     *storage.TabState
	log     zerolog.Logger

	mu              sync.Mutex
	id              string
	hasConversation bool

	create singleflight.Group
}

// NewController creates a controller with no session.
func NewController(backend Backend, tab *storage.TabState, log zerolog.Logger) *Controller {
	return &Controller{backend: backend, tab: tab, log: log}
}

// Restore inspects what a previous page load left behind. A session that had a
// conversation is torn down, since that load never unloaded cleanly; an idle
// one is simply forgotten. Either way the next send creates a fresh session.
func (c *Controller) Restore() {
	rec, ok := c.tab.LoadSession()
	if !ok {
		return
	}
	if rec.HasConversation {
		c.log.Info().Str("session_id", rec.SessionID).Msg("tearing down session left by previous load")
		c.backend.Beacon(rec.SessionID)
	} else {
		c.log.Debug().Str("session_id", rec.SessionID).Msg("discarding idle session from previous load")
	}
	c.tab.ClearSession()
}

// Ensure returns the current session id, creating one if none is held.
// Concurrent callers share a single creation request.
func (c *Controller) Ensure(ctx context.Context) (string, error) {
	if id := c.ID(); id != "" {
		return id, nil
	}

	v, err, _ := c.create.Do("session", func() (any, error) {
		if id := c.ID(); id != "" {
			return id, nil
		}

		id, err := c.backend.StartSession(ctx)
		if err != nil {
			ce := &CreationError{Err: err}
			var se *api.StatusError
			if errors.As(err, &se) {
				ce.Status = se.Status
			}
			c.log.Error().Err(err).Int("status", ce.Status).Msg("session creation failed")
			return "", ce
		}

		c.mu.Lock()
		c.id = id
		rec := storage.SessionRecord{SessionID: id, HasConversation: c.hasConversation}
		c.mu.Unlock()

		c.tab.SaveSession(rec)
		c.log.Info().Str("session_id", id).Msg("session created")
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// MarkConversation records that at least one user message was sent.
func (c *Controller) MarkConversation() {
	c.mu.Lock()
	c.hasConversation = true
	rec := storage.SessionRecord{SessionID: c.id, HasConversation: true}
	c.mu.Unlock()

	if rec.SessionID != "" {
		c.tab.SaveSession(rec)
	}
}

// ID returns the live session id, or "".
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// HasConversation reports whether a message has been exchanged in the
// current session.
func (c *Controller) HasConversation() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasConversation
}

// Active reports whether a session exists and carries a conversation.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id != "" && c.hasConversation
}

// Close tears down a session. Delivery failures are logged and swallowed;
// the backend expires abandoned sessions on its own.
func (c *Controller) Close(ctx context.Context, opts CloseOptions) {
	id := opts.ID
	if id == "" {
		id = c.ID()
	}

	if id != "" {
		ev := c.log.Info().Str("session_id", id).Bool("beacon", opts.UseBeacon)
		if opts.Reason != "" {
			ev = ev.Str("reason", opts.Reason)
		}
		ev.Msg("closing session")

		if opts.UseBeacon {
			c.backend.Beacon(id)
		} else if err := c.backend.CloseSession(ctx, id); err != nil {
			c.log.Warn().Err(err).Str("session_id", id).Msg("session teardown failed")
		}
	}

	if !opts.PreserveStorage {
		c.tab.ClearSession()
	}
	if !opts.SkipStateReset {
		c.mu.Lock()
		if opts.ID == "" || opts.ID == c.id {
			c.id = ""
			c.hasConversation = false
		}
		c.mu.Unlock()
	}
}

// Unload is the page-unload path: a conversation-bearing session is torn
// down with a beacon so the caller is never delayed. Idle sessions are left
// for the next load's Restore to discard. Calling Unload twice sends at most
// one beacon.
func (c *Controller) Unload() {
	if !c.Active() {
		return
	}
	c.Close(context.Background(), CloseOptions{UseBeacon: true, Reason: "unload"})
}

// Detach forgets the current session and clears its persisted record
// without contacting the backend, returning the id so the caller can close
// it in the background. A send that starts afterwards gets a new session.
func (c *Controller) Detach() string {
	c.mu.Lock()
	id := c.id
	c.id = ""
	c.hasConversation = false
	c.mu.Unlock()

	c.tab.ClearSession()
	return id
}
