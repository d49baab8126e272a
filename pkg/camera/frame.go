package camera

// Frame is a single decoded video frame: Height rows of Width pixels,
// 3 bytes per pixel. A Frame is immutable once published; post-processing
// always allocates a new pixel buffer.
type Frame struct {
	Width  int
	Height int
	Pix    []byte // len == Width*Height*3
}

// NewFrame allocates an all-zero frame of the given shape.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*3),
	}
}

// shiftColors returns a copy with the channel order of every pixel
// reversed (BGR -> RGB and vice versa).
func (f *Frame) shiftColors() *Frame {
	out := NewFrame(f.Width, f.Height)
	for i := 0; i+2 < len(f.Pix); i += 3 {
		out.Pix[i] = f.Pix[i+2]
		out.Pix[i+1] = f.Pix[i+1]
		out.Pix[i+2] = f.Pix[i]
	}
	return out
}

// mirror returns a copy with the column order of every row reversed.
func (f *Frame) mirror() *Frame {
	out := NewFrame(f.Width, f.Height)
	stride := f.Width * 3
	for y := 0; y < f.Height; y++ {
		row := f.Pix[y*stride : (y+1)*stride]
		dst := out.Pix[y*stride : (y+1)*stride]
		for x := 0; x < f.Width; x++ {
			src := row[(f.Width-1-x)*3:]
			dst[x*3] = src[0]
			dst[x*3+1] = src[1]
			dst[x*3+2] = src[2]
		}
	}
	return out
}

// process applies the configured post-processing steps in order:
// channel shift first, then horizontal mirror.
func (f *Frame) process(cfg Config) *Frame {
	out := f
	if cfg.ShiftColors {
		out = out.shiftColors()
	}
	if cfg.MirrorImage {
		out = out.mirror()
	}
	return out
}
