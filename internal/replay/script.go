// Package replay is a headless backend that plays a recorded sequence of
// display server events against an in-memory surface.
package replay

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/swcursor/internal/platform"
	"gopkg.in/yaml.v3"
)

// Step is one scripted event. Exactly one field must be set.
//
//	events:
//	  - configure: 1
//	  - enter: [10, 10]
//	  - motion: [250, 250]
//	  - frame: true
//	  - close: true
type Step struct {
	Configure *uint32 `yaml:"configure"`
	Enter     []int   `yaml:"enter"`
	Leave     bool    `yaml:"leave"`
	Motion    []int   `yaml:"motion"`
	Button    *uint32 `yaml:"button"`
	Frame     bool    `yaml:"frame"`
	Expose    bool    `yaml:"expose"`
	Close     bool    `yaml:"close"`
}

// Script is a parsed replay file.
type Script struct {
	Events []Step `yaml:"events"`
}

// LoadScript reads and parses a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes a script strictly; unknown keys are errors.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, step := range s.Events {
		if _, err := step.event(); err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
	}
	return &s, nil
}

func (s Step) event() (platform.Event, error) {
	var ev platform.Event
	set := 0
	if s.Configure != nil {
		ev = platform.Event{Kind: platform.EventConfigure, Serial: *s.Configure}
		set++
	}
	if s.Enter != nil {
		if len(s.Enter) != 2 {
			return ev, fmt.Errorf("enter wants [x, y]")
		}
		ev = platform.Event{Kind: platform.EventPointerEnter, X: s.Enter[0], Y: s.Enter[1]}
		set++
	}
	if s.Leave {
		ev = platform.Event{Kind: platform.EventPointerLeave}
		set++
	}
	if s.Motion != nil {
		if len(s.Motion) != 2 {
			return ev, fmt.Errorf("motion wants [x, y]")
		}
		ev = platform.Event{Kind: platform.EventPointerMotion, X: s.Motion[0], Y: s.Motion[1]}
		set++
	}
	if s.Button != nil {
		ev = platform.Event{Kind: platform.EventPointerButton, Button: *s.Button, State: 1}
		set++
	}
	if s.Frame {
		ev = platform.Event{Kind: platform.EventFrameDone}
		set++
	}
	if s.Expose {
		ev = platform.Event{Kind: platform.EventExpose}
		set++
	}
	if s.Close {
		ev = platform.Event{Kind: platform.EventClose}
		set++
	}
	switch set {
	case 0:
		return ev, fmt.Errorf("empty step")
	case 1:
		return ev, nil
	default:
		return ev, fmt.Errorf("step sets %d events, want 1", set)
	}
}
