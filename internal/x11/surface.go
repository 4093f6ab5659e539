package x11

import (
	"github.com/1broseidon/swcursor/internal/damage"
)

// Surface batches damage until Commit and then copies each rect with
// MIT-SHM PutImage. The segment is always the window's backing store, so
// Attach has nothing to send.
type Surface struct {
	put func(r damage.Rect, notify bool) error

	rects []damage.Rect
	frame bool
}

func (s *Surface) Attach() error { return nil }

func (s *Surface) Damage(r damage.Rect) error {
	if !r.Empty() {
		s.rects = append(s.rects, r)
	}
	return nil
}

// Frame asks for a completion event on the next Commit.
func (s *Surface) Frame() error {
	s.frame = true
	return nil
}

// Commit copies every damaged rect. When a frame was requested the last
// copy carries the completion request; with nothing damaged a single
// pixel is copied to obtain one.
func (s *Surface) Commit() error {
	rects, frame := s.rects, s.frame
	s.rects, s.frame = nil, false

	if len(rects) == 0 && frame {
		rects = []damage.Rect{damage.Pixel(0, 0)}
	}
	for i, r := range rects {
		if err := s.put(r, frame && i == len(rects)-1); err != nil {
			return err
		}
	}
	return nil
}
