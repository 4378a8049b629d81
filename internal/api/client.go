// Package api is the widget's HTTP boundary: session issuance, streamed chat
// completion and session teardown against the public bot API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	startSessionPath = "/api/public/start-session"
	chatPath         = "/api/public/chat"
	closeSessionPath = "/api/public/close-session"

	// beaconTimeout bounds one fire-and-forget teardown delivery.
	beaconTimeout = 5 * time.Second
)

// ChatRequest is the body of a chat call.
type ChatRequest struct {
	BotID     string         `json:"bot_id"`
	SessionID string         `json:"session_id"`
	Message   string         `json:"message"`
	PageURL   string         `json:"page_url,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type closeSessionRequest struct {
	BotID     string `json:"bot_id"`
	SessionID string `json:"session_id"`
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
}

// Client talks to one bot on one API base.
type Client struct {
	baseURL    string
	botID      string
	httpClient *http.Client
	log        zerolog.Logger

	beacons sync.WaitGroup
}

// NewClient creates a client. A nil httpClient uses a client without an
// overall timeout, since chat responses stream for as long as the reply takes;
// individual calls are bounded by their context instead.
func NewClient(baseURL, botID string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		botID:      botID,
		httpClient: httpClient,
		log:        log,
	}
}

// StartSession asks the backend for a new session id.
func (c *Client) StartSession(ctx context.Context) (string, error) {
	resp, err := c.post(ctx, startSessionPath, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return "", newStatusError("start-session", resp)
	}

	var out startSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode start-session response: %w", err)
	}
	if out.SessionID == "" {
		return "", fmt.Errorf("start-session response missing session_id")
	}
	return out.SessionID, nil
}

// Chat sends one user message and returns the streamed reply. The caller must
// Close the stream.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatStream, error) {
	if req.BotID == "" {
		req.BotID = c.botID
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	resp, err := c.post(ctx, chatPath, body)
	if err != nil {
		return nil, err
	}
	if !success(resp.StatusCode) {
		defer resp.Body.Close()
		return nil, newStatusError("chat", resp)
	}
	if resp.StatusCode == http.StatusNoContent || resp.Body == nil {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, ErrNoBody
	}
	return newChatStream(resp.Body), nil
}

// CloseSession delivers a teardown and waits for the response.
func (c *Client) CloseSession(ctx context.Context, sessionID string) error {
	body, err := json.Marshal(closeSessionRequest{BotID: c.botID, SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("marshal close-session request: %w", err)
	}

	resp, err := c.post(ctx, closeSessionPath, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if !success(resp.StatusCode) {
		return newStatusError("close-session", resp)
	}
	return nil
}

// Beacon delivers a teardown without blocking the caller. Failures are logged
// at warn level and otherwise ignored.
func (c *Client) Beacon(sessionID string) {
	c.beacons.Add(1)
	go func() {
		defer c.beacons.Done()
		defer func() {
			if r := recover(); r != nil {
				c.log.Warn().Interface("panic", r).Str("session_id", sessionID).Msg("beacon delivery panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), beaconTimeout)
		defer cancel()
		if err := c.CloseSession(ctx, sessionID); err != nil {
			c.log.Warn().Err(err).Str("session_id", sessionID).Msg("beacon teardown failed")
			return
		}
		c.log.Debug().Str("session_id", sessionID).Msg("beacon teardown delivered")
	}()
}

// Drain waits for outstanding beacons until ctx is done. It reports whether
// every beacon finished.
func (c *Client) Drain(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		c.beacons.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	return resp, nil
}

func success(code int) bool {
	return code >= 200 && code < 300
}
