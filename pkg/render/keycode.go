package render

// SDL scancodes (USB HID usage values), spelled out here so keycode
// normalization stays free of the windowing dependency.
const (
	scancodeA         = 4
	scancodeZ         = 29
	scancode1         = 30
	scancode9         = 38
	scancode0         = 39
	scancodeReturn    = 40
	scancodeEscape    = 41
	scancodeBackspace = 42
	scancodeTab       = 43
	scancodeSpace     = 44
	scancodeF1        = 58
	scancodeF4        = 61
	scancodeRight     = 79
	scancodeLeft      = 80
	scancodeDown      = 81
	scancodeUp        = 82
)

// OpenCV keycodes for special keys.
const (
	KeyEnter     = 13
	KeyEscape    = 27
	KeyBackspace = 8
	KeyTab       = 9
	KeySpace     = 32
	KeyF1        = 0x700000
	KeyF2        = 0x710000
	KeyF3        = 0x720000
	KeyF4        = 0x730000
	KeyRight     = 0x270000
	KeyLeft      = 0x250000
	KeyDown      = 0x280000
	KeyUp        = 0x260000
)

var specialScancodes = map[int]int{
	scancodeReturn:    KeyEnter,
	scancodeEscape:    KeyEscape,
	scancodeBackspace: KeyBackspace,
	scancodeTab:       KeyTab,
	scancodeSpace:     KeySpace,
	scancodeF1:        KeyF1,
	scancodeF1 + 1:    KeyF2,
	scancodeF1 + 2:    KeyF3,
	scancodeF1 + 3:    KeyF4,
	scancodeRight:     KeyRight,
	scancodeLeft:      KeyLeft,
	scancodeDown:      KeyDown,
	scancodeUp:        KeyUp,
}

// NormalizeScancode converts an SDL scancode into the single
// cross-platform keycode convention used throughout (OpenCV's): letters
// and digits map to their ASCII values, common control keys to their
// terminal codes, arrows and F1-F4 to the 0xNN0000 range. Unknown
// scancodes and None pass through as None.
func NormalizeScancode(scancode int) int {
	switch {
	case scancode == None:
		return None
	case scancode >= scancodeA && scancode <= scancodeZ:
		return int('a') + scancode - scancodeA
	case scancode >= scancode1 && scancode <= scancode9:
		return int('1') + scancode - scancode1
	case scancode == scancode0:
		return int('0')
	}
	if code, ok := specialScancodes[scancode]; ok {
		return code
	}
	return None
}
