// Package x11 presents the shared buffer in an X11 window through the
// MIT-SHM extension.
package x11

import (
	"fmt"

	"github.com/1broseidon/swcursor/internal/platform"
	"github.com/BurntSushi/xgb/shm"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	atoms atoms
}

// NewConnection connects to display (DISPLAY when empty) and initializes
// the MIT-SHM extension. A server without MIT-SHM is reported as
// platform.ErrMissingGlobal.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}

	if err := shm.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("%w: MIT-SHM: %v", platform.ErrMissingGlobal, err)
	}

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	if c.atoms.protocols, err = xprop.Atm(xu, "WM_PROTOCOLS"); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("intern WM_PROTOCOLS: %w", err)
	}
	if c.atoms.deleteWindow, err = xprop.Atm(xu, "WM_DELETE_WINDOW"); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("intern WM_DELETE_WINDOW: %w", err)
	}
	return c, nil
}

// Depth returns the root visual depth.
func (c *Connection) Depth() byte {
	return c.XUtil.Screen().RootDepth
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
