package api

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const chunkSize = 4096

// ChatStream is a streamed chat reply. It is read once, front to back.
// Multi-byte characters split across network reads are held back until
// complete, so every chunk is valid UTF-8.
type ChatStream struct {
	body io.ReadCloser
	r    io.Reader
	buf  []byte
	err  error
}

func newChatStream(body io.ReadCloser) *ChatStream {
	return &ChatStream{
		body: body,
		r:    transform.NewReader(body, unicode.UTF8.NewDecoder()),
		buf:  make([]byte, chunkSize),
	}
}

// Next returns the next decoded text chunk. It returns io.EOF once the body
// is exhausted; any other error means the stream broke mid-reply.
func (s *ChatStream) Next() (string, error) {
	for s.err == nil {
		n, err := s.r.Read(s.buf)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				err = fmt.Errorf("read chat stream: %w", err)
			}
			s.err = err
		}
		if n > 0 {
			return string(s.buf[:n]), nil
		}
	}
	return "", s.err
}

// Close releases the response body.
func (s *ChatStream) Close() error {
	if s.err == nil {
		s.err = io.EOF
	}
	return s.body.Close()
}
