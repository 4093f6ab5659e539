// Package commit sequences buffer presentation requests so the server
// always sees attach, damage and commit together.
package commit

import (
	"fmt"

	"github.com/1broseidon/swcursor/internal/damage"
	"github.com/1broseidon/swcursor/internal/platform"
	"github.com/rs/zerolog"
)

// Sink receives the damage produced by a cursor move.
type Sink interface {
	Submit(rects ...damage.Rect) error
}

// Coordinator owns the pending damage for one surface.
type Coordinator struct {
	surface platform.Surface
	logger  zerolog.Logger

	pending []damage.Rect
	commits int
}

// NewCoordinator returns a coordinator presenting on surface.
func NewCoordinator(surface platform.Surface, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		surface: surface,
		logger:  logger.With().Str("component", "commit").Logger(),
	}
}

// Stage records rects for the next Flush without talking to the server.
// Empty rects are dropped.
func (c *Coordinator) Stage(rects ...damage.Rect) {
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		c.pending = append(c.pending, r)
	}
}

// Pending returns the number of staged rects.
func (c *Coordinator) Pending() int { return len(c.pending) }

// Flush issues attach, one damage per staged rect, and commit. Nothing is
// sent when no rect is staged.
func (c *Coordinator) Flush() error {
	if len(c.pending) == 0 {
		return nil
	}
	rects := c.pending
	c.pending = nil

	if err := c.surface.Attach(); err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	for _, r := range rects {
		if err := c.surface.Damage(r); err != nil {
			return fmt.Errorf("damage %v: %w", r, err)
		}
	}
	if err := c.surface.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	c.commits++
	c.logger.Debug().Int("rects", len(rects)).Int("commit", c.commits).Msg("surface committed")
	return nil
}

// Submit stages rects and flushes immediately.
func (c *Coordinator) Submit(rects ...damage.Rect) error {
	c.Stage(rects...)
	return c.Flush()
}

// Commits returns how many full sequences were issued.
func (c *Coordinator) Commits() int { return c.commits }

// Deferred returns a Sink that only stages on c; the damage reaches the
// server with the next Flush or Submit.
func (c *Coordinator) Deferred() Sink {
	return deferredSink{c: c}
}

type deferredSink struct {
	c *Coordinator
}

func (d deferredSink) Submit(rects ...damage.Rect) error {
	d.c.Stage(rects...)
	return nil
}
