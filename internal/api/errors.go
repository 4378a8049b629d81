package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNoBody is returned when a chat response succeeds but carries no body.
var ErrNoBody = errors.New("chat response has no body")

// StatusError is a non-success HTTP status from the backend.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s failed (%d)", e.Op, e.Status)
	}
	return fmt.Sprintf("%s failed (%d): %s", e.Op, e.Status, e.Body)
}

func newStatusError(op string, resp *http.Response) *StatusError {
	var body []byte
	if resp.Body != nil {
		body, _ = io.ReadAll(io.LimitReader(resp.Body, 512))
	}
	return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
