package wayland

import (
	"github.com/1broseidon/swcursor/internal/damage"
	"github.com/1broseidon/swcursor/internal/platform"
	"github.com/neurlang/wayland/wl"
)

// Surface is the toplevel's wl_surface with the window buffer attached.
type Surface struct {
	backend *Backend
	surface *wl.Surface
}

func (s *Surface) Attach() error {
	return s.surface.Attach(s.backend.buffer, 0, 0)
}

func (s *Surface) Damage(r damage.Rect) error {
	return s.backend.damage(s.surface, r)
}

func (s *Surface) Commit() error {
	return s.surface.Commit()
}

// Frame registers a one-shot callback that queues EventFrameDone.
func (s *Surface) Frame() error {
	cb, err := s.surface.Frame()
	if err != nil {
		return err
	}
	cb.AddDoneHandler(frameDone{backend: s.backend})
	return nil
}

// minDamageBufferVersion is the first wl_compositor version whose surfaces
// accept damage_buffer.
const minDamageBufferVersion = 4

// damage marks r on surf in buffer coordinates. Compositors older than
// v4 only know surface damage, which is the same space at scale 1.
func (b *Backend) damage(surf *wl.Surface, r damage.Rect) error {
	x, y, w, h := int32(r.MinX), int32(r.MinY), int32(r.Width()), int32(r.Height())
	if b.compositorVersion >= minDamageBufferVersion {
		return surf.DamageBuffer(x, y, w, h)
	}
	return surf.Damage(x, y, w, h)
}

type frameDone struct {
	backend *Backend
}

// HandleCallbackDone queues the frame event and drops the one-shot
// callback from the connection's object map.
func (f frameDone) HandleCallbackDone(ev wl.CallbackDoneEvent) {
	ev.C.Unregister()
	f.backend.push(platform.Event{Kind: platform.EventFrameDone, Time: ev.CallbackData})
}
