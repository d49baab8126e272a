package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/gguiomar/lunar-tools/pkg/camera"
)

// ErrInputShape is returned when a render input has an unsupported shape
// or channel count. It is raised before any GPU interaction.
var ErrInputShape = errors.New("render input has unsupported shape")

// ErrInputType is returned when a render input variant cannot be handled
// by the active backend.
var ErrInputType = errors.New("render input has unsupported type")

type inputKind int

const (
	kindInvalid inputKind = iota
	kindHostFrame
	kindHostPixels
	kindDevice
	kindImage
)

// Input is the tagged union of accepted render sources: a camera frame,
// raw host pixels, a device-resident buffer, or a decoded image. The
// shape descriptor is resolved once here, at the boundary.
type Input struct {
	kind inputKind

	frame *camera.Frame

	pix      []uint8
	h, w, ch int

	devPtr     uintptr
	devH, devW int

	img image.Image
}

// FromFrame wraps a captured camera frame (H x W x 3, 8-bit).
func FromFrame(f *camera.Frame) Input {
	return Input{kind: kindHostFrame, frame: f, h: f.Height, w: f.Width, ch: 3}
}

// FromPixels wraps a raw host buffer of h rows by w columns with ch
// channels (1 = grayscale, 3 = RGB, 4 = RGBA), 8-bit values.
func FromPixels(data []uint8, h, w, ch int) Input {
	return Input{kind: kindHostPixels, pix: data, h: h, w: w, ch: ch}
}

// FromDevice wraps a device-resident buffer that is already RGBA float32
// in [0,1] and in render orientation: h rows of w pixels.
func FromDevice(ptr uintptr, h, w int) Input {
	return Input{kind: kindDevice, devPtr: ptr, devH: h, devW: w, h: h, w: w, ch: 4}
}

// FromImage wraps a decoded image.
func FromImage(img image.Image) Input {
	b := img.Bounds()
	return Input{kind: kindImage, img: img, h: b.Dy(), w: b.Dx(), ch: 4}
}

// validate checks the shape contract. Channel count must be 1 (grayscale),
// 3, or 4; anything else is a caller error, rejected before any GPU call.
func (in Input) validate() error {
	if in.kind == kindInvalid {
		return ErrInputType
	}
	switch in.ch {
	case 1, 3, 4:
	default:
		return ErrInputShape
	}
	if in.h <= 0 || in.w <= 0 {
		return ErrInputShape
	}
	if in.kind == kindHostPixels && len(in.pix) < in.h*in.w*in.ch {
		return ErrInputShape
	}
	return nil
}

// checkDeviceDims verifies that a device-resident buffer matches the
// display texture geometry. Device inputs skip host normalization
// entirely, so the caller must hand over pre-normalized RGBA float32
// at exactly the texture size.
func checkDeviceDims(in Input, texW, texH int) error {
	if in.devH != texH || in.devW != texW {
		return fmt.Errorf("%w: device buffer is %dx%d but the texture is %dx%d; device inputs must be pre-normalized RGBA float32 at the texture size",
			ErrInputShape, in.devH, in.devW, texH, texW)
	}
	return nil
}

// at returns the 8-bit value of channel c at row y, column x.
func (in Input) at(y, x, c int) uint8 {
	switch in.kind {
	case kindHostFrame:
		return in.frame.Pix[(y*in.w+x)*3+c]
	case kindHostPixels:
		return in.pix[(y*in.w+x)*in.ch+c]
	case kindImage:
		r, g, b, a := in.img.At(in.img.Bounds().Min.X+x, in.img.Bounds().Min.Y+y).RGBA()
		switch c {
		case 0:
			return uint8(r >> 8)
		case 1:
			return uint8(g >> 8)
		case 2:
			return uint8(b >> 8)
		default:
			return uint8(a >> 8)
		}
	}
	return 0
}

// normalize converts a host-resident input into the RGBA float32 buffer
// the display texture expects: values scaled by 1/255 and clamped to
// [0,1], rows and columns transposed, and the channel count normalized
// to 4 (3-channel input gains an opaque alpha, grayscale is broadcast
// into four identical channels).
//
// The texture is texW x texH; after the transpose the input must supply
// texH rows of texW pixels, so its own shape must be (texW, texH).
func normalize(in Input, texW, texH int) ([]float32, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.h != texW || in.w != texH {
		return nil, ErrInputShape
	}

	out := make([]float32, texW*texH*4)
	for r := 0; r < texH; r++ {
		for c := 0; c < texW; c++ {
			// Transposed: texture row r, column c reads input row c,
			// column r.
			o := (r*texW + c) * 4
			switch in.ch {
			case 1:
				v := clamp01(float32(in.at(c, r, 0)) / 255)
				out[o] = v
				out[o+1] = v
				out[o+2] = v
				out[o+3] = v
			case 3:
				out[o] = clamp01(float32(in.at(c, r, 0)) / 255)
				out[o+1] = clamp01(float32(in.at(c, r, 1)) / 255)
				out[o+2] = clamp01(float32(in.at(c, r, 2)) / 255)
				out[o+3] = 1
			case 4:
				out[o] = clamp01(float32(in.at(c, r, 0)) / 255)
				out[o+1] = clamp01(float32(in.at(c, r, 1)) / 255)
				out[o+2] = clamp01(float32(in.at(c, r, 2)) / 255)
				out[o+3] = clamp01(float32(in.at(c, r, 3)) / 255)
			}
		}
	}
	return out, nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
