package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const windowEvents = xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease

// CreateWindow creates and maps a fixed-size top-level window titled title.
func (c *Connection) CreateWindow(title string, width, height int, background uint32) (*xwindow.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("generate window id: %w", err)
	}

	x, y := c.PlaceWindow(width, height)
	if err := win.CreateChecked(c.Root, x, y, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		background, windowEvents); err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	if err := icccm.WmProtocolsSet(c.XUtil, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		return nil, fmt.Errorf("set WM_PROTOCOLS: %w", err)
	}
	if err := icccm.WmNameSet(c.XUtil, win.Id, title); err != nil {
		return nil, fmt.Errorf("set WM_NAME: %w", err)
	}
	// Best effort; not every window manager reads EWMH names or types.
	_ = ewmh.WmNameSet(c.XUtil, win.Id, title)
	_ = ewmh.WmWindowTypeSet(c.XUtil, win.Id, []string{"_NET_WM_WINDOW_TYPE_NORMAL"})

	// The buffer never resizes, so neither does the window.
	hints := &icccm.NormalHints{
		Flags:     icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		MinWidth:  uint(width),
		MinHeight: uint(height),
		MaxWidth:  uint(width),
		MaxHeight: uint(height),
	}
	if err := icccm.WmNormalHintsSet(c.XUtil, win.Id, hints); err != nil {
		return nil, fmt.Errorf("set WM_NORMAL_HINTS: %w", err)
	}

	win.Map()
	return win, nil
}

// CreateSolidCursor builds a size×size cursor of one color with its
// hotspot at (hx, hy).
func (c *Connection) CreateSolidCursor(size, hx, hy int, color uint32) (xproto.Cursor, error) {
	conn := c.XUtil.Conn()

	pix, err := xproto.NewPixmapId(conn)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreatePixmapChecked(conn, 1, pix, xproto.Drawable(c.Root), uint16(size), uint16(size)).Check(); err != nil {
		return 0, fmt.Errorf("create cursor pixmap: %w", err)
	}
	defer xproto.FreePixmap(conn, pix)

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreateGCChecked(conn, gc, xproto.Drawable(pix), xproto.GcForeground, []uint32{1}).Check(); err != nil {
		return 0, fmt.Errorf("create cursor gc: %w", err)
	}
	defer xproto.FreeGC(conn, gc)
	xproto.PolyFillRectangle(conn, xproto.Drawable(pix), gc, []xproto.Rectangle{{Width: uint16(size), Height: uint16(size)}})

	cursor, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, err
	}
	r, g, b := channel16(color>>16), channel16(color>>8), channel16(color)
	if err := xproto.CreateCursorChecked(conn, cursor, pix, pix, r, g, b, 0, 0, 0, uint16(hx), uint16(hy)).Check(); err != nil {
		return 0, fmt.Errorf("create cursor: %w", err)
	}
	return cursor, nil
}

// channel16 widens the low byte of v to a 16-bit X color channel.
func channel16(v uint32) uint16 {
	return uint16(v&0xff) * 0x101
}
