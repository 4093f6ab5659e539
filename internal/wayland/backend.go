// Package wayland presents the shared buffer on a Wayland compositor
// through wl_shm and xdg-shell.
package wayland

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/swcursor/internal/damage"
	"github.com/1broseidon/swcursor/internal/pixbuf"
	"github.com/1broseidon/swcursor/internal/platform"
	"github.com/1broseidon/swcursor/internal/shm"
	"github.com/neurlang/wayland/wl"
	"github.com/neurlang/wayland/xdg"
	"github.com/rs/zerolog"
)

// Options describes the window to create.
type Options struct {
	Title  string
	Width  int
	Height int

	CursorSize     int
	CursorColor    uint32
	CursorHotspotX int
	CursorHotspotY int
}

// Backend is a connected Wayland session with one xdg toplevel.
//
// Handlers run inside NextEvent on the caller's goroutine and only append
// to the event queue.
type Backend struct {
	logger zerolog.Logger
	opts   Options

	display    *wl.Display
	registry   *wl.Registry
	compositor *wl.Compositor
	shm        *wl.Shm
	seat       *wl.Seat
	wmBase     *xdg.WmBase
	pointer    *wl.Pointer

	compositorVersion uint32

	file       *shm.File
	pool       *wl.ShmPool
	buffer     *wl.Buffer
	cursorBuf  *wl.Buffer
	pixels     *pixbuf.Buffer
	cursorImg  *pixbuf.Buffer
	surface    *Surface
	cursorSurf *wl.Surface
	xdgSurface *xdg.Surface
	toplevel   *xdg.Toplevel

	queue     []platform.Event
	closed    atomic.Bool
	closeOnce sync.Once
}

// Open connects to the compositor named by WAYLAND_DISPLAY, binds the
// required globals and maps the window. Any missing global is reported as
// platform.ErrMissingGlobal.
func Open(opts Options, logger zerolog.Logger) (*Backend, error) {
	b := &Backend{
		logger: logger.With().Str("component", "wayland").Logger(),
		opts:   opts,
	}
	if err := b.setup(); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backend) setup() error {
	display, err := wl.Connect("")
	if err != nil {
		return fmt.Errorf("connect to compositor: %w", err)
	}
	b.display = display

	registry, err := display.GetRegistry()
	if err != nil {
		return fmt.Errorf("get registry: %w", err)
	}
	b.registry = registry

	globals := newGlobalSet()
	registry.AddGlobalHandler(globals)
	if err := b.roundtrip(); err != nil {
		return fmt.Errorf("registry roundtrip: %w", err)
	}
	if err := globals.missing(); err != nil {
		return err
	}

	ctx := display.Context()
	b.compositor = wl.NewCompositor(ctx)
	b.shm = wl.NewShm(ctx)
	b.seat = wl.NewSeat(ctx)
	b.wmBase = xdg.NewWmBase(ctx)
	if err := globals.bind(registry, ifaceCompositor, b.compositor); err != nil {
		return err
	}
	b.compositorVersion = globals.bindVersion(ifaceCompositor)
	if err := globals.bind(registry, ifaceShm, b.shm); err != nil {
		return err
	}
	if err := globals.bind(registry, ifaceSeat, b.seat); err != nil {
		return err
	}
	if err := globals.bind(registry, ifaceWmBase, b.wmBase); err != nil {
		return err
	}
	b.wmBase.AddPingHandler(b)
	b.seat.AddCapabilitiesHandler(b)

	if err := b.createBuffers(); err != nil {
		return err
	}
	if err := b.createWindow(); err != nil {
		return err
	}

	// Delivers seat capabilities and the first configure.
	if err := b.roundtrip(); err != nil {
		return fmt.Errorf("window roundtrip: %w", err)
	}

	b.logger.Info().
		Int("width", b.opts.Width).
		Int("height", b.opts.Height).
		Uint32("compositor_version", b.compositorVersion).
		Msg("wayland window mapped")
	return nil
}

func (b *Backend) createBuffers() error {
	layout := poolLayout{width: b.opts.Width, height: b.opts.Height, cursorSize: b.opts.CursorSize}

	file, err := shm.NewFile("swcursor", layout.size())
	if err != nil {
		return fmt.Errorf("allocate shm pool: %w", err)
	}
	b.file = file

	window, cursor, err := layout.split(file.Bytes())
	if err != nil {
		return err
	}
	b.pixels = window
	b.cursorImg = cursor
	b.cursorImg.Fill(b.opts.CursorColor)

	pool, err := b.shm.CreatePool(file.Fd(), int32(layout.size()))
	if err != nil {
		return fmt.Errorf("create shm pool: %w", err)
	}
	b.pool = pool

	b.buffer, err = pool.CreateBuffer(0, int32(window.Width()), int32(window.Height()), int32(window.StrideBytes()), formatXRGB8888)
	if err != nil {
		return fmt.Errorf("create window buffer: %w", err)
	}
	b.cursorBuf, err = pool.CreateBuffer(int32(layout.cursorOffset()), int32(cursor.Width()), int32(cursor.Height()), int32(cursor.StrideBytes()), formatXRGB8888)
	if err != nil {
		return fmt.Errorf("create cursor buffer: %w", err)
	}
	return nil
}

func (b *Backend) createWindow() error {
	wlSurface, err := b.compositor.CreateSurface()
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}
	b.surface = &Surface{backend: b, surface: wlSurface}

	b.cursorSurf, err = b.compositor.CreateSurface()
	if err != nil {
		return fmt.Errorf("create cursor surface: %w", err)
	}
	if err := b.cursorSurf.Attach(b.cursorBuf, 0, 0); err != nil {
		return fmt.Errorf("attach cursor image: %w", err)
	}
	if err := b.damage(b.cursorSurf, damage.Rect{MaxX: b.opts.CursorSize, MaxY: b.opts.CursorSize}); err != nil {
		return fmt.Errorf("damage cursor image: %w", err)
	}
	if err := b.cursorSurf.Commit(); err != nil {
		return fmt.Errorf("commit cursor image: %w", err)
	}

	b.xdgSurface, err = b.wmBase.GetSurface(wlSurface)
	if err != nil {
		return fmt.Errorf("get xdg surface: %w", err)
	}
	b.xdgSurface.AddConfigureHandler(b)

	b.toplevel, err = b.xdgSurface.GetToplevel()
	if err != nil {
		return fmt.Errorf("get toplevel: %w", err)
	}
	b.toplevel.AddCloseHandler(b)
	if err := b.toplevel.SetTitle(b.opts.Title); err != nil {
		return fmt.Errorf("set title: %w", err)
	}

	// An initial commit without a buffer asks for the first configure.
	if err := wlSurface.Commit(); err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	return nil
}

// syncDone flags completion of a wl_display.sync round trip.
type syncDone struct {
	done bool
}

func (s *syncDone) HandleCallbackDone(ev wl.CallbackDoneEvent) {
	s.done = true
	ev.C.Unregister()
}

func (b *Backend) roundtrip() error {
	cb, err := b.display.Sync()
	if err != nil {
		return err
	}
	sd := &syncDone{}
	cb.AddDoneHandler(sd)
	for !sd.done {
		if err := b.dispatch(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Backend) dispatch() error {
	if b.closed.Load() {
		return platform.ErrClosed
	}
	if err := b.display.Context().Run(); err != nil {
		if b.closed.Load() {
			return platform.ErrClosed
		}
		return err
	}
	return nil
}

func (b *Backend) push(ev platform.Event) {
	b.queue = append(b.queue, ev)
}

func (b *Backend) Name() string { return "wayland" }
func (b *Backend) Buffer() *pixbuf.Buffer { return b.pixels }
func (b *Backend) Surface() platform.Surface { return b.surface }

// NextEvent dispatches server messages until one of them produced an
// event for the session.
func (b *Backend) NextEvent() (platform.Event, error) {
	for len(b.queue) == 0 {
		if err := b.dispatch(); err != nil {
			return platform.Event{}, err
		}
	}
	ev := b.queue[0]
	b.queue = b.queue[1:]
	return ev, nil
}

func (b *Backend) AckConfigure(serial uint32) error {
	return b.xdgSurface.AckConfigure(serial)
}

// SetCursorImage shows the pool's cursor image as the pointer for the
// enter identified by serial.
func (b *Backend) SetCursorImage(serial uint32) error {
	if b.pointer == nil {
		return errors.New("no pointer bound")
	}
	return b.pointer.SetCursor(serial, b.cursorSurf, int32(b.opts.CursorHotspotX), int32(b.opts.CursorHotspotY))
}

// Close disconnects from the compositor. It may run concurrently with a
// handler, so the pixel mapping is left in place until the process exits.
func (b *Backend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		if b.display != nil {
			err = b.display.Context().Close()
		}
		if b.file != nil {
			if cerr := b.file.CloseFd(); err == nil {
				err = cerr
			}
		}
	})
	return err
}
