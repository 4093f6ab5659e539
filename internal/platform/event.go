package platform

import "fmt"

// EventKind discriminates Event.
type EventKind int

const (
	EventNone EventKind = iota
	EventPointerEnter
	EventPointerLeave
	EventPointerMotion
	EventPointerButton
	EventPointerAxis
	EventFrameDone
	EventConfigure
	EventExpose
	EventClose
)

var eventKindNames = map[EventKind]string{
	EventNone:          "none",
	EventPointerEnter:  "pointer-enter",
	EventPointerLeave:  "pointer-leave",
	EventPointerMotion: "pointer-motion",
	EventPointerButton: "pointer-button",
	EventPointerAxis:   "pointer-axis",
	EventFrameDone:     "frame-done",
	EventConfigure:     "configure",
	EventExpose:        "expose",
	EventClose:         "close",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one display server notification. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind EventKind

	// Surface-local pointer position in whole pixels (enter, motion).
	X int
	Y int

	// Serial of enter, button and configure events.
	Serial uint32
	// Time in milliseconds for pointer events.
	Time uint32

	Button uint32
	State  uint32
	Axis   uint32
	Value  float64
}

// FixedToInt converts a 24.8 wire fixed-point value to whole pixels,
// truncating toward zero.
func FixedToInt(f int32) int {
	return int(f / 256)
}

// SurfaceToInt converts a decoded surface coordinate back to whole pixels
// with the same truncation as FixedToInt.
func SurfaceToInt(v float32) int {
	return FixedToInt(int32(v * 256))
}
