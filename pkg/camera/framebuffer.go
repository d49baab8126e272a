package camera

import "sync/atomic"

// FrameBuffer is a single-slot latest-value cell. Publish replaces the
// stored frame wholesale; Latest never blocks and never returns nil.
// Frames are dropped, never queued: a slow reader skips frames and that
// is by design, recency beats completeness for live display.
type FrameBuffer struct {
	cur atomic.Pointer[Frame]
}

// NewFrameBuffer creates a buffer pre-loaded with an all-zero frame of
// the given shape, so readers before the first publish still get a
// valid frame.
func NewFrameBuffer(width, height int) *FrameBuffer {
	fb := &FrameBuffer{}
	fb.cur.Store(NewFrame(width, height))
	return fb
}

// Publish replaces the current frame. Single writer: the capture loop.
func (fb *FrameBuffer) Publish(f *Frame) {
	fb.cur.Store(f)
}

// Latest returns the most recently published frame. Safe for any number
// of concurrent readers; the returned frame must be treated as read-only.
func (fb *FrameBuffer) Latest() *Frame {
	return fb.cur.Load()
}
