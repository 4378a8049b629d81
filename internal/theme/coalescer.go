package theme

// Coalescer collapses bursts of recompute requests (scroll, resize) into at
// most one recompute per animation frame. The host schedules a frame when
// Request returns true and calls Flush when the frame fires.
type Coalescer struct {
	pending bool
}

// Request marks a recompute as needed. It returns true only for the first
// request since the last Flush, i.e. when a frame must be scheduled.
func (c *Coalescer) Request() bool {
	if c.pending {
		return false
	}
	c.pending = true
	return true
}

// Pending reports whether a frame is scheduled.
func (c *Coalescer) Pending() bool {
	return c.pending
}

// Flush clears the pending flag and runs fn if a recompute was requested.
func (c *Coalescer) Flush(fn func()) bool {
	if !c.pending {
		return false
	}
	c.pending = false
	fn()
	return true
}
