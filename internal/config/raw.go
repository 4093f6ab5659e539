package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawCursorImage struct {
	Size     *int   `yaml:"size"`
	Color    *Color `yaml:"color"`
	HotspotX *int   `yaml:"hotspot_x"`
	HotspotY *int   `yaml:"hotspot_y"`
}

// RawConfig mirrors Config with every field optional so layers can be
// merged before defaults are applied.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Backend       *Backend        `yaml:"backend"`
	Title         *string         `yaml:"title"`
	Width         *int            `yaml:"width"`
	Height        *int            `yaml:"height"`
	Background    *Color          `yaml:"background"`
	Strategy      *string         `yaml:"strategy"`
	CursorRadius  *int            `yaml:"cursor_radius"`
	CommitMode    *CommitMode     `yaml:"commit_mode"`
	ImmediateMask *Color          `yaml:"immediate_mask"`
	SyncedMask    *Color          `yaml:"synced_mask"`
	CursorImage   *RawCursorImage `yaml:"cursor_image"`
	LogLevel      *string         `yaml:"log_level"`
	LogFormat     *string         `yaml:"log_format"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	if overlay.Backend != nil {
		out.Backend = overlay.Backend
	}
	if overlay.Title != nil {
		out.Title = overlay.Title
	}
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	if overlay.Background != nil {
		out.Background = overlay.Background
	}
	if overlay.Strategy != nil {
		out.Strategy = overlay.Strategy
	}
	if overlay.CursorRadius != nil {
		out.CursorRadius = overlay.CursorRadius
	}
	if overlay.CommitMode != nil {
		out.CommitMode = overlay.CommitMode
	}
	if overlay.ImmediateMask != nil {
		out.ImmediateMask = overlay.ImmediateMask
	}
	if overlay.SyncedMask != nil {
		out.SyncedMask = overlay.SyncedMask
	}
	if overlay.CursorImage != nil {
		base := RawCursorImage{}
		if out.CursorImage != nil {
			base = *out.CursorImage
		}
		merged := mergeRawCursorImage(base, *overlay.CursorImage)
		out.CursorImage = &merged
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.LogFormat != nil {
		out.LogFormat = overlay.LogFormat
	}
	// Includes are resolved by the loader and never merged.
	out.Include = nil
	return out
}

func mergeRawCursorImage(base RawCursorImage, overlay RawCursorImage) RawCursorImage {
	out := base
	if overlay.Size != nil {
		out.Size = overlay.Size
	}
	if overlay.Color != nil {
		out.Color = overlay.Color
	}
	if overlay.HotspotX != nil {
		out.HotspotX = overlay.HotspotX
	}
	if overlay.HotspotY != nil {
		out.HotspotY = overlay.HotspotY
	}
	return out
}
