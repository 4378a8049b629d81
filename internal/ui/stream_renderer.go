package ui

import "time"

// StreamRenderer manages progressive markdown rendering for the reply that
// is currently streaming. It tracks the raw text and periodically renders
// it with glamour at checkpoint intervals, showing the wrapped raw text
// between checkpoints.
type StreamRenderer struct {
	Content     string    // accumulated raw streaming text
	Rendered    string    // last successful glamour-rendered content
	RenderedLen int       // byte length of Content when last rendered
	RenderedAt  time.Time // when the last render happened

	now func() time.Time
}

// checkpointInterval controls how often glamour re-renders are triggered.
const checkpointInterval = 300 * time.Millisecond

// Update replaces the accumulated text with content, the reply so far, and
// re-renders with glamour if enough time has passed since the last
// checkpoint. renderFn performs the actual rendering.
func (sr *StreamRenderer) Update(content string, renderFn func(string) string) {
	sr.Content = content

	if sr.clock().Sub(sr.RenderedAt) >= checkpointInterval {
		sr.Rendered = renderFn(sr.Content)
		sr.RenderedLen = len(sr.Content)
		sr.RenderedAt = sr.clock()
	}
}

// Reset clears all streaming state.
func (sr *StreamRenderer) Reset() {
	sr.Content = ""
	sr.Rendered = ""
	sr.RenderedLen = 0
	sr.RenderedAt = time.Time{}
}

// HasContent returns true if any streaming text has been accumulated.
func (sr *StreamRenderer) HasContent() bool {
	return sr.Content != ""
}

// View returns the current display content: the last checkpoint while it
// still covers all of Content, otherwise the whole raw text wrapped to
// width. A checkpoint is never spliced with a raw tail, since the split can
// fall inside a word.
func (sr *StreamRenderer) View(wrapFn func(string, int) string, width int) string {
	if sr.Rendered != "" && sr.RenderedLen == len(sr.Content) {
		return sr.Rendered
	}
	return wrapFn(sr.Content, width)
}

func (sr *StreamRenderer) clock() time.Time {
	if sr.now != nil {
		return sr.now()
	}
	return time.Now()
}
