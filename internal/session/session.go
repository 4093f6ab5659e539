// Package session owns the cursor renderer's state and runs its event loop.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/1broseidon/swcursor/internal/commit"
	"github.com/1broseidon/swcursor/internal/config"
	"github.com/1broseidon/swcursor/internal/damage"
	"github.com/1broseidon/swcursor/internal/framesync"
	"github.com/1broseidon/swcursor/internal/pixbuf"
	"github.com/1broseidon/swcursor/internal/platform"
	"github.com/1broseidon/swcursor/internal/swcursor"
	"github.com/rs/zerolog"
)

// Options configures a Session.
type Options struct {
	Strategy      swcursor.Strategy
	ImmediateMask uint32
	SyncedMask    uint32
	Background    uint32
	// Deferred stages the immediate cursor's damage until the next frame
	// completion instead of committing it per motion event.
	Deferred bool
}

// OptionsFromConfig derives session options from the effective config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	strategy, err := swcursor.StrategyByName(cfg.Strategy, cfg.CursorRadius)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Strategy:      strategy,
		ImmediateMask: uint32(cfg.ImmediateMask),
		SyncedMask:    uint32(cfg.SyncedMask),
		Background:    uint32(cfg.Background),
		Deferred:      cfg.CommitMode == config.CommitFrame,
	}, nil
}

// Stats counts what the session did; it is read after Run returns.
type Stats struct {
	Motions       int `yaml:"motions"`
	Commits       int `yaml:"commits"`
	FrameRequests int `yaml:"frame_requests"`
	Coalesced     int `yaml:"coalesced"`
	FramesDone    int `yaml:"frames_done"`
	FramesIgnored int `yaml:"frames_ignored"`
}

// Session is the single context every event handler works on. It is not
// safe for concurrent use; Run is the only goroutine that touches it.
type Session struct {
	backend platform.Backend
	logger  zerolog.Logger
	opts    Options

	buf         *pixbuf.Buffer
	coordinator *commit.Coordinator
	controller  *framesync.Controller
	immediate   *swcursor.Cursor
	synced      *swcursor.Cursor
	fast        *swcursor.Engine
	slow        *swcursor.Engine

	configured bool
	motions    int
	framesDone int
	ignored    int
}

// New wires a session onto backend and paints the background.
func New(backend platform.Backend, opts Options, logger zerolog.Logger) (*Session, error) {
	if backend == nil {
		return nil, errors.New("session: nil backend")
	}
	if opts.Strategy == nil {
		opts.Strategy = swcursor.XORSquare{Radius: 5}
	}
	buf := backend.Buffer()
	if buf == nil {
		return nil, errors.New("session: backend has no buffer")
	}

	s := &Session{
		backend: backend,
		logger:  logger.With().Str("component", "session").Str("backend", backend.Name()).Logger(),
		opts:    opts,
		buf:     buf,
	}
	s.coordinator = commit.NewCoordinator(backend.Surface(), logger)
	s.controller = framesync.NewController(framesync.RequesterFunc(s.requestFrame), logger)
	s.immediate = swcursor.NewCursor("immediate", opts.ImmediateMask)
	s.synced = swcursor.NewCursor("synced", opts.SyncedMask)

	var fastSink commit.Sink = s.coordinator
	if opts.Deferred {
		fastSink = s.coordinator.Deferred()
	}
	s.fast = swcursor.NewEngine(buf, opts.Strategy, fastSink)
	s.slow = swcursor.NewEngine(buf, opts.Strategy, s.coordinator)

	buf.Fill(opts.Background)
	return s, nil
}

func (s *Session) Buffer() *pixbuf.Buffer { return s.buf }
func (s *Session) Immediate() *swcursor.Cursor { return s.immediate }
func (s *Session) Synced() *swcursor.Cursor { return s.synced }
func (s *Session) Controller() *framesync.Controller { return s.controller }
func (s *Session) Coordinator() *commit.Coordinator { return s.coordinator }

// Stats returns the session counters.
func (s *Session) Stats() Stats {
	return Stats{
		Motions:       s.motions,
		Commits:       s.coordinator.Commits(),
		FrameRequests: s.controller.Requests(),
		Coalesced:     s.controller.Coalesced(),
		FramesDone:    s.framesDone,
		FramesIgnored: s.ignored,
	}
}

// Run dispatches events until the window is closed, ctx is cancelled or
// the connection fails. A close or cancellation returns nil.
func (s *Session) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			// Unblocks NextEvent; the loop below notices ctx.Err.
			_ = s.backend.Close()
		case <-stop:
		}
	}()

	s.logger.Info().
		Int("width", s.buf.Width()).
		Int("height", s.buf.Height()).
		Str("strategy", s.opts.Strategy.Name()).
		Bool("deferred", s.opts.Deferred).
		Msg("session started")

	for {
		if ctx.Err() != nil {
			return nil
		}
		ev, err := s.backend.NextEvent()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("dispatch: %w", err)
		}
		done, err := s.Handle(ev)
		if err != nil {
			return err
		}
		if done {
			s.logger.Info().Interface("stats", s.Stats()).Msg("session closed")
			return nil
		}
	}
}

// Handle routes one event. It reports true when the session should end.
func (s *Session) Handle(ev platform.Event) (bool, error) {
	switch ev.Kind {
	case platform.EventPointerMotion:
		return false, s.onMotion(ev.X, ev.Y)
	case platform.EventFrameDone:
		return false, s.onFrameDone()
	case platform.EventConfigure:
		return false, s.onConfigure(ev.Serial)
	case platform.EventExpose:
		return false, s.presentAll()
	case platform.EventPointerEnter:
		s.logger.Debug().Int("x", ev.X).Int("y", ev.Y).Msg("pointer enter")
		if err := s.backend.SetCursorImage(ev.Serial); err != nil {
			return false, fmt.Errorf("set cursor image: %w", err)
		}
		return false, nil
	case platform.EventPointerLeave:
		s.logger.Debug().Msg("pointer leave")
		return false, nil
	case platform.EventPointerButton, platform.EventPointerAxis:
		s.logger.Debug().Stringer("kind", ev.Kind).Uint32("button", ev.Button).Float64("value", ev.Value).Msg("pointer input ignored")
		return false, nil
	case platform.EventClose:
		return true, nil
	default:
		s.logger.Debug().Stringer("kind", ev.Kind).Msg("unhandled event")
		return false, nil
	}
}

func (s *Session) onMotion(x, y int) error {
	s.motions++
	x, y = s.fast.Clamp(x, y)
	if _, err := s.fast.MoveCursor(s.immediate, x, y); err != nil {
		return err
	}
	return s.controller.Observe(x, y)
}

func (s *Session) onFrameDone() error {
	if !s.controller.Done() {
		s.ignored++
		s.logger.Debug().Msg("frame done while idle, ignored")
		return nil
	}
	s.framesDone++

	x, y, ok := s.controller.Target()
	if ok {
		if _, err := s.slow.MoveCursor(s.synced, x, y); err != nil {
			return err
		}
	}
	// Deferred immediate damage goes out even when the synced cursor
	// did not move.
	return s.coordinator.Flush()
}

func (s *Session) onConfigure(serial uint32) error {
	if err := s.backend.AckConfigure(serial); err != nil {
		return fmt.Errorf("ack configure: %w", err)
	}
	if s.configured {
		return nil
	}
	s.configured = true
	s.logger.Info().Uint32("serial", serial).Msg("surface configured")
	return s.presentAll()
}

func (s *Session) presentAll() error {
	full := damage.Rect{MaxX: s.buf.Width(), MaxY: s.buf.Height()}
	return s.coordinator.Submit(full)
}

func (s *Session) requestFrame() error {
	surface := s.backend.Surface()
	if err := surface.Frame(); err != nil {
		return err
	}
	return surface.Commit()
}
