package camera

import (
	"bytes"
	"testing"
)

func TestFrame_ShiftColors(t *testing.T) {
	f := &Frame{Width: 2, Height: 1, Pix: []byte{
		1, 2, 3,
		4, 5, 6,
	}}

	out := f.shiftColors()
	want := []byte{3, 2, 1, 6, 5, 4}
	if !bytes.Equal(out.Pix, want) {
		t.Errorf("expected %v, got %v", want, out.Pix)
	}
	// Input untouched.
	if f.Pix[0] != 1 {
		t.Error("shiftColors mutated its input")
	}
}

func TestFrame_Mirror(t *testing.T) {
	f := &Frame{Width: 3, Height: 2, Pix: []byte{
		1, 1, 1, 2, 2, 2, 3, 3, 3,
		4, 4, 4, 5, 5, 5, 6, 6, 6,
	}}

	out := f.mirror()
	want := []byte{
		3, 3, 3, 2, 2, 2, 1, 1, 1,
		6, 6, 6, 5, 5, 5, 4, 4, 4,
	}
	if !bytes.Equal(out.Pix, want) {
		t.Errorf("expected %v, got %v", want, out.Pix)
	}
}

func TestFrame_ProcessToggles(t *testing.T) {
	src := &Frame{Width: 2, Height: 1, Pix: []byte{1, 2, 3, 4, 5, 6}}

	tests := []struct {
		name   string
		shift  bool
		mirror bool
		want   []byte
	}{
		{"neither", false, false, []byte{1, 2, 3, 4, 5, 6}},
		{"shift only", true, false, []byte{3, 2, 1, 6, 5, 4}},
		{"mirror only", false, true, []byte{4, 5, 6, 1, 2, 3}},
		{"both", true, true, []byte{6, 5, 4, 3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ShiftColors = tt.shift
			cfg.MirrorImage = tt.mirror
			out := src.process(cfg)
			if !bytes.Equal(out.Pix, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, out.Pix)
			}
		})
	}
}

func TestFourcc(t *testing.T) {
	if got := fourcc("MJPG"); got != 0x47504A4D {
		t.Errorf("expected 0x47504A4D for MJPG, got 0x%X", got)
	}
	if got := fourcc("bad"); got != 0 {
		t.Errorf("expected 0 for short tag, got %d", got)
	}
}
