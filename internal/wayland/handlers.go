package wayland

import (
	"github.com/1broseidon/swcursor/internal/platform"
	"github.com/neurlang/wayland/wl"
	"github.com/neurlang/wayland/xdg"
)

func (b *Backend) HandleWmBasePing(ev xdg.WmBasePingEvent) {
	if err := b.wmBase.Pong(ev.Serial); err != nil {
		b.logger.Warn().Err(err).Uint32("serial", ev.Serial).Msg("pong failed")
	}
}

func (b *Backend) HandleSurfaceConfigure(ev xdg.SurfaceConfigureEvent) {
	b.push(platform.Event{Kind: platform.EventConfigure, Serial: ev.Serial})
}

func (b *Backend) HandleToplevelClose(xdg.ToplevelCloseEvent) {
	b.push(platform.Event{Kind: platform.EventClose})
}

func (b *Backend) HandleSeatCapabilities(ev wl.SeatCapabilitiesEvent) {
	hasPointer := ev.Capabilities&wl.SeatCapabilityPointer != 0
	switch {
	case hasPointer && b.pointer == nil:
		pointer, err := b.seat.GetPointer()
		if err != nil {
			b.logger.Error().Err(err).Msg("get pointer failed")
			return
		}
		pointer.AddEnterHandler(b)
		pointer.AddLeaveHandler(b)
		pointer.AddMotionHandler(b)
		pointer.AddButtonHandler(b)
		pointer.AddAxisHandler(b)
		b.pointer = pointer
		b.logger.Debug().Msg("pointer bound")
	case !hasPointer && b.pointer != nil:
		if err := b.pointer.Release(); err != nil {
			b.logger.Warn().Err(err).Msg("pointer release failed")
		}
		b.pointer = nil
		b.logger.Debug().Msg("pointer removed")
	}
}

func (b *Backend) HandlePointerEnter(ev wl.PointerEnterEvent) {
	b.push(platform.Event{
		Kind:   platform.EventPointerEnter,
		Serial: ev.Serial,
		X:      platform.SurfaceToInt(ev.SurfaceX),
		Y:      platform.SurfaceToInt(ev.SurfaceY),
	})
}

func (b *Backend) HandlePointerLeave(ev wl.PointerLeaveEvent) {
	b.push(platform.Event{Kind: platform.EventPointerLeave, Serial: ev.Serial})
}

func (b *Backend) HandlePointerMotion(ev wl.PointerMotionEvent) {
	b.push(platform.Event{
		Kind: platform.EventPointerMotion,
		Time: ev.Time,
		X:    platform.SurfaceToInt(ev.SurfaceX),
		Y:    platform.SurfaceToInt(ev.SurfaceY),
	})
}

func (b *Backend) HandlePointerButton(ev wl.PointerButtonEvent) {
	b.push(platform.Event{
		Kind:   platform.EventPointerButton,
		Serial: ev.Serial,
		Time:   ev.Time,
		Button: ev.Button,
		State:  ev.State,
	})
}

func (b *Backend) HandlePointerAxis(ev wl.PointerAxisEvent) {
	b.push(platform.Event{
		Kind:  platform.EventPointerAxis,
		Time:  ev.Time,
		Axis:  ev.Axis,
		Value: float64(ev.Value),
	})
}
