// Package swcursor draws software cursors into the shared pixel buffer.
package swcursor

import (
	"fmt"

	"github.com/1broseidon/swcursor/internal/commit"
	"github.com/1broseidon/swcursor/internal/damage"
	"github.com/1broseidon/swcursor/internal/pixbuf"
)

// Cursor is one software cursor. The zero position is meaningless until
// the first draw makes it visible.
type Cursor struct {
	Name string
	Mask uint32

	visible bool
	x, y    int
	moves   int
}

// NewCursor returns a hidden cursor drawn with mask.
func NewCursor(name string, mask uint32) *Cursor {
	return &Cursor{Name: name, Mask: mask}
}

func (c *Cursor) Visible() bool { return c.visible }

// Position returns the last drawn position.
func (c *Cursor) Position() (x, y int) { return c.x, c.y }

// Moves counts the moves that changed pixels.
func (c *Cursor) Moves() int { return c.moves }

// Engine applies a Strategy to cursors sharing one buffer and hands the
// resulting damage to a commit sink.
type Engine struct {
	buf      *pixbuf.Buffer
	strategy Strategy
	sink     commit.Sink
}

// NewEngine returns an engine drawing into buf.
func NewEngine(buf *pixbuf.Buffer, strategy Strategy, sink commit.Sink) *Engine {
	return &Engine{buf: buf, strategy: strategy, sink: sink}
}

// Strategy returns the drawing strategy in use.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Clamp restricts (x, y) to addressable pixels.
func (e *Engine) Clamp(x, y int) (int, int) {
	return clampInt(x, 0, e.buf.Width()-1), clampInt(y, 0, e.buf.Height()-1)
}

// Move redraws c at (x, y) with mask, erasing its previous footprint, and
// submits the damage. It returns false without touching the buffer or the
// sink when c is already visible at the clamped position.
func (e *Engine) Move(c *Cursor, x, y int, mask uint32) (bool, error) {
	x, y = e.Clamp(x, y)
	if c.visible && x == c.x && y == c.y {
		return false, nil
	}

	rects := make([]damage.Rect, 0, 2)
	if c.visible {
		r, err := e.strategy.Erase(e.buf, c.x, c.y, mask)
		if err != nil {
			return false, fmt.Errorf("erase %s cursor at (%d,%d): %w", c.Name, c.x, c.y, err)
		}
		rects = append(rects, r)
	}

	r, err := e.strategy.Draw(e.buf, x, y, mask)
	if err != nil {
		return false, fmt.Errorf("draw %s cursor at (%d,%d): %w", c.Name, x, y, err)
	}
	rects = append(rects, r)

	c.x, c.y = x, y
	c.visible = true
	c.moves++

	if err := e.sink.Submit(rects...); err != nil {
		return true, fmt.Errorf("present %s cursor: %w", c.Name, err)
	}
	return true, nil
}

// MoveCursor is Move using the cursor's own mask.
func (e *Engine) MoveCursor(c *Cursor, x, y int) (bool, error) {
	return e.Move(c, x, y, c.Mask)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
