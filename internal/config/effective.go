package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceEnv && e.Source.Name != "" {
		return fmt.Sprintf("%s: %s: %v", e.Source.Name, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig folds a merged raw config onto DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Backend != nil {
		cfg.Backend = *raw.Backend
	}
	if raw.Title != nil {
		cfg.Title = *raw.Title
	}
	if raw.Width != nil {
		cfg.Width = *raw.Width
	}
	if raw.Height != nil {
		cfg.Height = *raw.Height
	}
	if raw.Background != nil {
		cfg.Background = *raw.Background
	}
	if raw.Strategy != nil {
		cfg.Strategy = *raw.Strategy
	}
	if raw.CursorRadius != nil {
		cfg.CursorRadius = *raw.CursorRadius
	}
	if raw.CommitMode != nil {
		cfg.CommitMode = *raw.CommitMode
	}
	if raw.ImmediateMask != nil {
		cfg.ImmediateMask = *raw.ImmediateMask
	}
	if raw.SyncedMask != nil {
		cfg.SyncedMask = *raw.SyncedMask
	}
	if raw.CursorImage != nil {
		img := raw.CursorImage
		cfg.CursorImage.Size = derefInt(img.Size, cfg.CursorImage.Size)
		cfg.CursorImage.HotspotX = derefInt(img.HotspotX, cfg.CursorImage.HotspotX)
		cfg.CursorImage.HotspotY = derefInt(img.HotspotY, cfg.CursorImage.HotspotY)
		if img.Color != nil {
			cfg.CursorImage.Color = *img.Color
		}
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFormat != nil {
		cfg.LogFormat = *raw.LogFormat
	}

	if cfg.Title == "" {
		return nil, &ValidationError{Path: "title", Err: fmt.Errorf("title must not be empty")}
	}
	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
