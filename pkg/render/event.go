package render

// None is the sentinel for "no key / no mouse data" in a PeripheralEvent.
const None = -1

// PeripheralEvent is the input snapshot sampled once per present call.
// It is a fresh value each call; key presses are not accumulated across
// calls, and only the last press observed within the poll window is
// reported.
type PeripheralEvent struct {
	// KeyCode is the pressed key in the OpenCV keycode convention,
	// None if no key was pressed.
	KeyCode int
	// MouseButtons is the platform button bitmask, None when unknown
	// (CPU fallback backend).
	MouseButtons int32
	MouseX       int32
	MouseY       int32
}

func noEvent() PeripheralEvent {
	return PeripheralEvent{KeyCode: None, MouseButtons: None, MouseX: None, MouseY: None}
}
