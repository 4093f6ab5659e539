package platform

import (
	"errors"

	"github.com/1broseidon/swcursor/internal/damage"
	"github.com/1broseidon/swcursor/internal/pixbuf"
)

var (
	// ErrMissingGlobal is returned when the display server lacks a capability
	// the session needs.
	ErrMissingGlobal = errors.New("required display server global missing")
	// ErrClosed is returned by NextEvent after Close.
	ErrClosed = errors.New("display connection closed")
)

// Surface is the window surface the shared buffer is presented on.
// Requests are queued until Commit; callers must always finish a sequence
// with Commit before returning to the event loop.
type Surface interface {
	// Attach binds the shared buffer to the surface at offset 0,0.
	Attach() error
	// Damage marks r (buffer coordinates) as changed.
	Damage(r damage.Rect) error
	// Commit applies pending attach/damage state.
	Commit() error
	// Frame asks for a one-shot EventFrameDone after the next commit is shown.
	Frame() error
}

// Backend is a display server session: it owns the connection, the
// shared pixel buffer and the window surface.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	// Buffer returns the shared pixel buffer backing the window surface.
	Buffer() *pixbuf.Buffer
	// Surface returns the window surface.
	Surface() Surface
	// NextEvent blocks until the server delivers the next event.
	NextEvent() (Event, error)
	// AckConfigure acknowledges a configure event.
	AckConfigure(serial uint32) error
	// SetCursorImage replaces the server pointer image for the pointer
	// enter identified by serial.
	SetCursorImage(serial uint32) error
	// Close tears down the connection. It may be called from another
	// goroutine to unblock NextEvent.
	Close() error
}
