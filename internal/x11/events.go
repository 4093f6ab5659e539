package x11

import (
	"github.com/1broseidon/swcursor/internal/platform"
	"github.com/BurntSushi/xgb"
	xshm "github.com/BurntSushi/xgb/shm"
	"github.com/BurntSushi/xgb/xproto"
)

// Linux input event codes, so button events read the same on every backend.
const (
	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
)

// Scroll distance reported per wheel click, in surface units.
const wheelStep = 10

type atoms struct {
	protocols    xproto.Atom
	deleteWindow xproto.Atom
}

// translate maps an X event to a session event. It reports false for
// events the session does not consume.
func (a atoms) translate(ev xgb.Event) (platform.Event, bool) {
	switch e := ev.(type) {
	case xproto.MotionNotifyEvent:
		return platform.Event{
			Kind: platform.EventPointerMotion,
			Time: uint32(e.Time),
			X:    int(e.EventX),
			Y:    int(e.EventY),
		}, true
	case xproto.EnterNotifyEvent:
		return platform.Event{
			Kind: platform.EventPointerEnter,
			Time: uint32(e.Time),
			X:    int(e.EventX),
			Y:    int(e.EventY),
		}, true
	case xproto.LeaveNotifyEvent:
		return platform.Event{Kind: platform.EventPointerLeave, Time: uint32(e.Time)}, true
	case xproto.ButtonPressEvent:
		return buttonEvent(e.Detail, uint32(e.Time), true)
	case xproto.ButtonReleaseEvent:
		return buttonEvent(e.Detail, uint32(e.Time), false)
	case xproto.MapNotifyEvent:
		// X has no configure handshake; mapping is the first point the
		// window can be presented.
		return platform.Event{Kind: platform.EventConfigure}, true
	case xproto.ExposeEvent:
		if e.Count != 0 {
			return platform.Event{}, false
		}
		return platform.Event{Kind: platform.EventExpose}, true
	case xshm.CompletionEvent:
		return platform.Event{Kind: platform.EventFrameDone}, true
	case xproto.ClientMessageEvent:
		if e.Type == a.protocols && e.Format == 32 && len(e.Data.Data32) > 0 &&
			xproto.Atom(e.Data.Data32[0]) == a.deleteWindow {
			return platform.Event{Kind: platform.EventClose}, true
		}
	case xproto.DestroyNotifyEvent:
		return platform.Event{Kind: platform.EventClose}, true
	}
	return platform.Event{}, false
}

func buttonEvent(detail xproto.Button, time uint32, pressed bool) (platform.Event, bool) {
	var axis uint32
	var value float64
	switch detail {
	case 1:
		return pressEvent(btnLeft, time, pressed), true
	case 2:
		return pressEvent(btnMiddle, time, pressed), true
	case 3:
		return pressEvent(btnRight, time, pressed), true
	case 4, 5:
		axis, value = 0, wheelStep
		if detail == 4 {
			value = -wheelStep
		}
	case 6, 7:
		axis, value = 1, wheelStep
		if detail == 6 {
			value = -wheelStep
		}
	default:
		return platform.Event{}, false
	}
	// Wheel clicks arrive as press/release pairs; one axis event per click.
	if !pressed {
		return platform.Event{}, false
	}
	return platform.Event{Kind: platform.EventPointerAxis, Time: time, Axis: axis, Value: value}, true
}

func pressEvent(code, time uint32, pressed bool) platform.Event {
	var state uint32
	if pressed {
		state = 1
	}
	return platform.Event{Kind: platform.EventPointerButton, Time: time, Button: code, State: state}
}
