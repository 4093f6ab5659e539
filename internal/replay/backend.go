package replay

import (
	"fmt"
	"image/png"
	"os"
	"sync/atomic"

	"github.com/1broseidon/swcursor/internal/damage"
	"github.com/1broseidon/swcursor/internal/pixbuf"
	"github.com/1broseidon/swcursor/internal/platform"
	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
)

// Backend replays a Script. Frame steps are delivered only while a frame
// callback is outstanding, like a compositor would.
type Backend struct {
	logger  zerolog.Logger
	buf     *pixbuf.Buffer
	surface *Surface
	steps   []Step
	pos     int
	serial  uint32

	acked   []uint32
	cursors []uint32
	closed  atomic.Bool
}

// New returns a replay backend with a width×height buffer.
func New(script *Script, width, height int, logger zerolog.Logger) (*Backend, error) {
	buf, err := pixbuf.New(width, height)
	if err != nil {
		return nil, err
	}
	var steps []Step
	if script != nil {
		steps = script.Events
	}
	return &Backend{
		logger:  logger.With().Str("component", "replay").Logger(),
		buf:     buf,
		surface: &Surface{},
		steps:   steps,
	}, nil
}

func (b *Backend) Name() string { return "replay" }
func (b *Backend) Buffer() *pixbuf.Buffer { return b.buf }
func (b *Backend) Surface() platform.Surface { return b.surface }
func (b *Backend) Recorder() *Surface { return b.surface }
func (b *Backend) Acked() []uint32 { return b.acked }
func (b *Backend) CursorImageSerials() []uint32 { return b.cursors }

// NextEvent returns the next deliverable step. Once the script is
// exhausted it reports a close.
func (b *Backend) NextEvent() (platform.Event, error) {
	for {
		if b.closed.Load() {
			return platform.Event{}, platform.ErrClosed
		}
		if b.pos >= len(b.steps) {
			return platform.Event{Kind: platform.EventClose}, nil
		}
		step := b.steps[b.pos]
		b.pos++

		ev, err := step.event()
		if err != nil {
			return platform.Event{}, fmt.Errorf("step %d: %w", b.pos-1, err)
		}
		switch ev.Kind {
		case platform.EventFrameDone:
			if !b.surface.takeFrame() {
				b.logger.Debug().Int("step", b.pos-1).Msg("no frame callback pending, skipped")
				continue
			}
		case platform.EventPointerEnter:
			b.serial++
			ev.Serial = b.serial
		}
		return ev, nil
	}
}

func (b *Backend) AckConfigure(serial uint32) error {
	b.acked = append(b.acked, serial)
	return nil
}

func (b *Backend) SetCursorImage(serial uint32) error {
	b.cursors = append(b.cursors, serial)
	return nil
}

func (b *Backend) Close() error {
	b.closed.Store(true)
	return nil
}

// WriteSnapshot encodes the buffer as PNG, scaled by an integer factor
// with nearest-neighbour sampling so single pixels stay visible.
func (b *Backend) WriteSnapshot(path string, scale int) error {
	if scale < 1 {
		return fmt.Errorf("scale must be >= 1, got %d", scale)
	}
	img := b.buf.Image()
	if scale > 1 {
		img = resize.Resize(uint(b.buf.Width()*scale), uint(b.buf.Height()*scale), img, resize.NearestNeighbor)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return f.Close()
}

// Surface records every request made against the replayed window.
type Surface struct {
	attaches int
	commits  int
	frames   int

	framePending bool
	frameArmed   bool
	pending      []damage.Rect
	presented    [][]damage.Rect
}

func (s *Surface) Attach() error {
	s.attaches++
	return nil
}

func (s *Surface) Damage(r damage.Rect) error {
	s.pending = append(s.pending, r)
	return nil
}

func (s *Surface) Frame() error {
	s.frames++
	s.framePending = true
	return nil
}

func (s *Surface) Commit() error {
	s.commits++
	if s.framePending {
		s.framePending = false
		s.frameArmed = true
	}
	if len(s.pending) > 0 {
		s.presented = append(s.presented, s.pending)
		s.pending = nil
	}
	return nil
}

func (s *Surface) takeFrame() bool {
	if !s.frameArmed {
		return false
	}
	s.frameArmed = false
	return true
}

func (s *Surface) Attaches() int { return s.attaches }
func (s *Surface) Commits() int { return s.commits }
func (s *Surface) Frames() int { return s.frames }

// Presented returns the damage of every commit that carried any.
func (s *Surface) Presented() [][]damage.Rect { return s.presented }
