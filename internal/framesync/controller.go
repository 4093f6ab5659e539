// Package framesync throttles frame-synced redraws to the display refresh.
package framesync

import (
	"fmt"

	"github.com/rs/zerolog"
)

// State is the controller state.
type State int

const (
	Idle State = iota
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Requester issues a one-shot refresh request for the cursor's surface.
type Requester interface {
	RequestFrame() error
}

// RequesterFunc adapts a function to Requester.
type RequesterFunc func() error

func (f RequesterFunc) RequestFrame() error { return f() }

// Controller keeps at most one refresh request in flight and remembers the
// latest pointer position observed meanwhile.
type Controller struct {
	req    Requester
	logger zerolog.Logger

	state     State
	x, y      int
	hasTarget bool

	requests  int
	coalesced int
}

// NewController returns an idle controller.
func NewController(req Requester, logger zerolog.Logger) *Controller {
	return &Controller{
		req:    req,
		logger: logger.With().Str("component", "framesync").Logger(),
	}
}

// Observe records (x, y) as the latest target. When idle it issues a
// refresh request and becomes pending; while pending the position is only
// recorded.
func (c *Controller) Observe(x, y int) error {
	c.x, c.y = x, y
	c.hasTarget = true

	if c.state == Pending {
		c.coalesced++
		return nil
	}
	if err := c.req.RequestFrame(); err != nil {
		return fmt.Errorf("request frame: %w", err)
	}
	c.state = Pending
	c.requests++
	c.logger.Debug().Int("x", x).Int("y", y).Msg("frame requested")
	return nil
}

// Target returns the most recently observed position.
func (c *Controller) Target() (x, y int, ok bool) {
	return c.x, c.y, c.hasTarget
}

// Done returns the controller to idle. It reports false when no request
// was outstanding.
func (c *Controller) Done() bool {
	if c.state != Pending {
		return false
	}
	c.state = Idle
	return true
}

func (c *Controller) State() State   { return c.state }
func (c *Controller) Requests() int  { return c.requests }
func (c *Controller) Coalesced() int { return c.coalesced }
