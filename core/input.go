package core

type EventKind int

const (
	EventPointerDown EventKind = iota
	EventPointerMove
	EventPointerUp
	EventPointerLeave
	EventKeyDown
	EventResize
)

func (k EventKind) String() string {
	switch k {
	case EventPointerDown:
		return "PointerDown"
	case EventPointerMove:
		return "PointerMove"
	case EventPointerUp:
		return "PointerUp"
	case EventPointerLeave:
		return "PointerLeave"
	case EventKeyDown:
		return "KeyDown"
	case EventResize:
		return "Resize"
	default:
		return "Unknown"
	}
}

// Event is a windowing-system independent input event. Pointer coordinates
// and resize dimensions are in device pixels.
type Event struct {
	Kind   EventKind
	X, Y   float32
	Key    Key
	Width  int
	Height int
}

// Key codes share their numeric values with GLFW.
type Key int

const (
	KeyUnknown Key = -1
	KeySpace   Key = 32
	KeyMinus   Key = 45
	KeyEqual   Key = 61
	KeyA       Key = 65
	KeyB       Key = 66
	KeyI       Key = 73
	KeyP       Key = 80
	KeyR       Key = 82
	KeyS       Key = 83
	KeyW       Key = 87
	KeyEscape  Key = 256
	KeyRight   Key = 262
	KeyLeft    Key = 263
	KeyDown    Key = 264
	KeyUp      Key = 265
	KeyKPSub   Key = 333
	KeyKPAdd   Key = 334
)

// DeviceSize converts a logical surface size to device pixels.
func DeviceSize(width, height int, scale float32) (int, int) {
	if scale <= 0 {
		scale = 1
	}
	return int(float32(width)*scale + 0.5), int(float32(height)*scale + 0.5)
}
