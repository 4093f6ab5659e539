package x11

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/swcursor/internal/damage"
	"github.com/1broseidon/swcursor/internal/pixbuf"
	"github.com/1broseidon/swcursor/internal/platform"
	"github.com/1broseidon/swcursor/internal/shm"
	xshm "github.com/BurntSushi/xgb/shm"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xwindow"
	"github.com/rs/zerolog"
)

// Options describes the window to create.
type Options struct {
	Display    string
	Title      string
	Width      int
	Height     int
	Background uint32

	CursorSize     int
	CursorColor    uint32
	CursorHotspotX int
	CursorHotspotY int
}

// Backend is an X11 window whose pixels live in a SysV segment shared
// with the server.
type Backend struct {
	logger zerolog.Logger
	opts   Options

	conn    *Connection
	win     *xwindow.Window
	gc      xproto.Gcontext
	seg     *shm.Segment
	segID   xshm.Seg
	cursor  xproto.Cursor
	pixels  *pixbuf.Buffer
	surface *Surface

	closed    atomic.Bool
	closeOnce sync.Once
}

// Open connects to the X server, shares the pixel segment and maps the
// window.
func Open(opts Options, logger zerolog.Logger) (*Backend, error) {
	conn, err := NewConnection(opts.Display)
	if err != nil {
		return nil, err
	}
	b := &Backend{
		logger: logger.With().Str("component", "x11").Logger(),
		opts:   opts,
		conn:   conn,
	}
	if err := b.setup(); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Backend) setup() error {
	xc := b.conn.XUtil.Conn()

	seg, err := shm.NewSegment(b.opts.Width * b.opts.Height * pixbuf.BytesPerPixel)
	if err != nil {
		return fmt.Errorf("allocate shm segment: %w", err)
	}
	b.seg = seg
	if b.pixels, err = pixbuf.Wrap(seg.Bytes(), b.opts.Width, b.opts.Height); err != nil {
		return err
	}

	if b.segID, err = xshm.NewSegId(xc); err != nil {
		return fmt.Errorf("allocate shm seg id: %w", err)
	}
	if err := xshm.AttachChecked(xc, b.segID, seg.ID(), false).Check(); err != nil {
		return fmt.Errorf("server attach shm segment: %w", err)
	}
	// Both sides are attached; the kernel frees the segment once they detach.
	if err := seg.MarkForRemoval(); err != nil {
		return err
	}

	if b.win, err = b.conn.CreateWindow(b.opts.Title, b.opts.Width, b.opts.Height, b.opts.Background); err != nil {
		return err
	}

	if b.gc, err = xproto.NewGcontextId(xc); err != nil {
		return fmt.Errorf("allocate gc id: %w", err)
	}
	if err := xproto.CreateGCChecked(xc, b.gc, xproto.Drawable(b.win.Id), xproto.GcGraphicsExposures, []uint32{0}).Check(); err != nil {
		return fmt.Errorf("create gc: %w", err)
	}

	if b.cursor, err = b.conn.CreateSolidCursor(b.opts.CursorSize, b.opts.CursorHotspotX, b.opts.CursorHotspotY, b.opts.CursorColor); err != nil {
		return err
	}

	b.surface = &Surface{put: b.putImage}
	b.logger.Info().
		Uint32("window", uint32(b.win.Id)).
		Int("width", b.opts.Width).
		Int("height", b.opts.Height).
		Msg("x11 window mapped")
	return nil
}

// putImage copies r from the segment to the window. With notify set the
// server sends a completion event once it has read the pixels.
func (b *Backend) putImage(r damage.Rect, notify bool) error {
	var sendEvent byte
	if notify {
		sendEvent = 1
	}
	return xshm.PutImageChecked(b.conn.XUtil.Conn(),
		xproto.Drawable(b.win.Id), b.gc,
		uint16(b.pixels.Width()), uint16(b.pixels.Height()),
		uint16(r.MinX), uint16(r.MinY), uint16(r.Width()), uint16(r.Height()),
		int16(r.MinX), int16(r.MinY),
		b.conn.Depth(), xproto.ImageFormatZPixmap, sendEvent,
		b.segID, 0).Check()
}

func (b *Backend) Name() string { return "x11" }
func (b *Backend) Buffer() *pixbuf.Buffer { return b.pixels }
func (b *Backend) Surface() platform.Surface { return b.surface }

// NextEvent blocks on the X connection until an event the session
// consumes arrives.
func (b *Backend) NextEvent() (platform.Event, error) {
	xc := b.conn.XUtil.Conn()
	for {
		if b.closed.Load() {
			return platform.Event{}, platform.ErrClosed
		}
		ev, xerr := xc.WaitForEvent()
		if ev == nil && xerr == nil {
			return platform.Event{}, platform.ErrClosed
		}
		if xerr != nil {
			return platform.Event{}, fmt.Errorf("x11: %s", xerr.Error())
		}
		if out, ok := b.conn.atoms.translate(ev); ok {
			return out, nil
		}
		b.logger.Debug().Str("event", ev.String()).Msg("x11 event ignored")
	}
}

// AckConfigure is a no-op: X has no configure handshake.
func (b *Backend) AckConfigure(uint32) error { return nil }

// SetCursorImage shows the solid cursor while the pointer is in the window.
func (b *Backend) SetCursorImage(uint32) error {
	return xproto.ChangeWindowAttributesChecked(b.conn.XUtil.Conn(), b.win.Id, xproto.CwCursor, []uint32{uint32(b.cursor)}).Check()
}

// Close disconnects from the server. It may run concurrently with a
// handler, so the local segment attachment is kept until the process exits.
func (b *Backend) Close() error {
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		if b.conn != nil {
			b.conn.Close()
		}
	})
	return nil
}
