package camera

import (
	"bytes"
	"testing"
)

func TestFrameBuffer_ZeroFrameBeforePublish(t *testing.T) {
	fb := NewFrameBuffer(1024, 576)

	f := fb.Latest()
	if f == nil {
		t.Fatal("expected a frame before first publish, got nil")
	}
	if f.Width != 1024 || f.Height != 576 {
		t.Errorf("expected 1024x576, got %dx%d", f.Width, f.Height)
	}
	if len(f.Pix) != 1024*576*3 {
		t.Errorf("expected %d bytes, got %d", 1024*576*3, len(f.Pix))
	}
	for i, b := range f.Pix {
		if b != 0 {
			t.Fatalf("expected all-zero frame, byte %d is %d", i, b)
		}
	}
}

func TestFrameBuffer_LatestReturnsEachPublish(t *testing.T) {
	fb := NewFrameBuffer(4, 2)

	for k := byte(1); k <= 5; k++ {
		f := NewFrame(4, 2)
		for i := range f.Pix {
			f.Pix[i] = k
		}
		fb.Publish(f)

		got := fb.Latest()
		if got.Pix[0] != k {
			t.Errorf("after publish %d: expected value %d, got %d", k, k, got.Pix[0])
		}
	}
}

func TestFrameBuffer_LatestIsIdempotent(t *testing.T) {
	fb := NewFrameBuffer(4, 2)
	f := NewFrame(4, 2)
	for i := range f.Pix {
		f.Pix[i] = 42
	}
	fb.Publish(f)

	a := fb.Latest()
	b := fb.Latest()
	if a != b {
		t.Error("expected identical frame pointer on repeated Latest")
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("expected bit-identical pixels on repeated Latest")
	}
}

func TestFrameBuffer_StaleReaderSeesValidFrame(t *testing.T) {
	fb := NewFrameBuffer(2, 2)

	first := NewFrame(2, 2)
	for i := range first.Pix {
		first.Pix[i] = 1
	}
	fb.Publish(first)
	held := fb.Latest()

	second := NewFrame(2, 2)
	for i := range second.Pix {
		second.Pix[i] = 2
	}
	fb.Publish(second)

	// The old reference is stale but untouched.
	for i, b := range held.Pix {
		if b != 1 {
			t.Fatalf("stale frame mutated at byte %d: %d", i, b)
		}
	}
	if fb.Latest().Pix[0] != 2 {
		t.Error("expected Latest to return the new frame")
	}
}
