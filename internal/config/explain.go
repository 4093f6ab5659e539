package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	backend
//	title
//	width
//	height
//	background
//	strategy
//	cursor_radius
//	commit_mode
//	immediate_mask
//	synced_mask
//	cursor_image.size
//	cursor_image.color
//	cursor_image.hotspot_x
//	log_level
//	log_format
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// A nested key inherits the source of a parent written as a whole.
	if i := strings.LastIndex(path, "."); i > 0 {
		if src, ok := res.Sources[path[:i]]; ok && src.Kind == SourceEnv {
			return value, src, nil
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	if parts[0] == "cursor_image" {
		if len(parts) == 1 {
			return cfg.CursorImage, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "size":
			return cfg.CursorImage.Size, nil
		case "color":
			return cfg.CursorImage.Color, nil
		case "hotspot_x":
			return cfg.CursorImage.HotspotX, nil
		case "hotspot_y":
			return cfg.CursorImage.HotspotY, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	}

	if len(parts) != 1 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch parts[0] {
	case "backend":
		return cfg.Backend, nil
	case "title":
		return cfg.Title, nil
	case "width":
		return cfg.Width, nil
	case "height":
		return cfg.Height, nil
	case "background":
		return cfg.Background, nil
	case "strategy":
		return cfg.Strategy, nil
	case "cursor_radius":
		return cfg.CursorRadius, nil
	case "commit_mode":
		return cfg.CommitMode, nil
	case "immediate_mask":
		return cfg.ImmediateMask, nil
	case "synced_mask":
		return cfg.SyncedMask, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "log_format":
		return cfg.LogFormat, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
