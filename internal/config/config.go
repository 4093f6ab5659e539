package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend selects the display server adapter.
type Backend string

const (
	BackendAuto    Backend = "auto"
	BackendWayland Backend = "wayland"
	BackendX11     Backend = "x11"
)

// CommitMode controls when the immediate cursor's pixels reach the server.
type CommitMode string

const (
	CommitEager CommitMode = "eager" // Commit on every motion event.
	CommitFrame CommitMode = "frame" // Stage until the next frame completion.
)

const (
	StrategyXOR        = "xor"
	StrategyMaskToggle = "mask-toggle"
)

const maxSurfaceSide = 8192

// Color is a packed XRGB8888 value. YAML accepts integers (including 0x
// literals) and "#RRGGBB" strings; it marshals as a 0x literal.
type Color uint32

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a scalar")
	}
	v, err := parseColor(value.Value)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c Color) String() string {
	return fmt.Sprintf("0x%08X", uint32(c))
}

func parseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 {
			return 0, fmt.Errorf("color %q must be #RRGGBB", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("color %q: %w", s, err)
		}
		return Color(v), nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must be an integer or #RRGGBB", s)
	}
	return Color(v), nil
}

// CursorImage describes the server-side pointer image shown while the
// pointer is over the surface.
type CursorImage struct {
	Size     int   `yaml:"size"`
	Color    Color `yaml:"color"`
	HotspotX int   `yaml:"hotspot_x"`
	HotspotY int   `yaml:"hotspot_y"`
}

// Config is the effective configuration.
type Config struct {
	Backend       Backend     `yaml:"backend"`
	Title         string      `yaml:"title"`
	Width         int         `yaml:"width"`
	Height        int         `yaml:"height"`
	Background    Color       `yaml:"background"`
	Strategy      string      `yaml:"strategy"`
	CursorRadius  int         `yaml:"cursor_radius"`
	CommitMode    CommitMode  `yaml:"commit_mode"`
	ImmediateMask Color       `yaml:"immediate_mask"`
	SyncedMask    Color       `yaml:"synced_mask"`
	CursorImage   CursorImage `yaml:"cursor_image"`
	LogLevel      string      `yaml:"log_level"`
	LogFormat     string      `yaml:"log_format"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:       BackendAuto,
		Title:         "swcursor",
		Width:         500,
		Height:        500,
		Background:    0x00000000,
		Strategy:      StrategyXOR,
		CursorRadius:  5,
		CommitMode:    CommitEager,
		ImmediateMask: 0x00FF0000,
		SyncedMask:    0x0000FF00,
		CursorImage: CursorImage{
			Size:     11,
			Color:    0x00FFFFFF,
			HotspotX: 5,
			HotspotY: 5,
		},
		LogLevel:  "info",
		LogFormat: "auto",
	}
}

func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "swcursor", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "swcursor", "config.yaml"), nil
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendWayland, BackendX11:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: auto, wayland, x11")}
	}
	if c.Width <= 0 || c.Width > maxSurfaceSide {
		return &ValidationError{Path: "width", Err: fmt.Errorf("width must be between 1 and %d", maxSurfaceSide)}
	}
	if c.Height <= 0 || c.Height > maxSurfaceSide {
		return &ValidationError{Path: "height", Err: fmt.Errorf("height must be between 1 and %d", maxSurfaceSide)}
	}
	switch c.Strategy {
	case StrategyXOR, StrategyMaskToggle:
	default:
		return &ValidationError{Path: "strategy", Err: fmt.Errorf("strategy must be one of: xor, mask-toggle")}
	}
	if c.CursorRadius < 0 || c.CursorRadius > 64 {
		return &ValidationError{Path: "cursor_radius", Err: fmt.Errorf("cursor_radius must be between 0 and 64")}
	}
	switch c.CommitMode {
	case CommitEager, CommitFrame:
	default:
		return &ValidationError{Path: "commit_mode", Err: fmt.Errorf("commit_mode must be one of: eager, frame")}
	}
	if err := validateMask("immediate_mask", c.ImmediateMask); err != nil {
		return err
	}
	if err := validateMask("synced_mask", c.SyncedMask); err != nil {
		return err
	}
	// AND-NOT erase of one cursor must not clear bits the other set.
	if c.Strategy == StrategyMaskToggle && c.ImmediateMask&c.SyncedMask != 0 {
		return &ValidationError{Path: "synced_mask", Err: fmt.Errorf("mask-toggle requires immediate_mask and synced_mask to share no bits")}
	}
	if c.Background&0xFF000000 != 0 {
		return &ValidationError{Path: "background", Err: fmt.Errorf("background must fit in 24 bits")}
	}
	img := c.CursorImage
	if img.Size <= 0 || img.Size > 64 {
		return &ValidationError{Path: "cursor_image.size", Err: fmt.Errorf("size must be between 1 and 64")}
	}
	if img.HotspotX < 0 || img.HotspotX >= img.Size {
		return &ValidationError{Path: "cursor_image.hotspot_x", Err: fmt.Errorf("hotspot_x must be inside the image")}
	}
	if img.HotspotY < 0 || img.HotspotY >= img.Size {
		return &ValidationError{Path: "cursor_image.hotspot_y", Err: fmt.Errorf("hotspot_y must be inside the image")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	switch c.LogFormat {
	case "auto", "console", "json":
	default:
		return &ValidationError{Path: "log_format", Err: fmt.Errorf("log_format must be one of: auto, console, json")}
	}
	return nil
}

func validateMask(path string, m Color) error {
	if m == 0 {
		return &ValidationError{Path: path, Err: fmt.Errorf("mask must not be zero")}
	}
	if m&0xFF000000 != 0 {
		return &ValidationError{Path: path, Err: fmt.Errorf("mask must fit in 24 bits, the X byte is ignored")}
	}
	return nil
}
