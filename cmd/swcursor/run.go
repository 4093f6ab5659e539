package main

import (
	"context"
	"fmt"
	"io"

	"github.com/1broseidon/swcursor/internal/config"
	"github.com/1broseidon/swcursor/internal/logging"
	"github.com/1broseidon/swcursor/internal/platform"
	"github.com/1broseidon/swcursor/internal/runtimepath"
	"github.com/1broseidon/swcursor/internal/session"
	"github.com/1broseidon/swcursor/internal/wayland"
	"github.com/1broseidon/swcursor/internal/x11"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRunCmd(flags *globalFlags, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the window and draw the cursors (default)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd.Context(), flags, stderr)
		},
	}
}

// loadConfig loads the config file and applies command line overrides.
func loadConfig(flags *globalFlags) (*config.LoadResult, error) {
	var res *config.LoadResult
	var err error
	if flags.configPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(flags.configPath)
	}
	if err != nil {
		return nil, err
	}

	if flags.backend != "" {
		res.Config.Backend = config.Backend(flags.backend)
	}
	if flags.logLevel != "" {
		res.Config.LogLevel = flags.logLevel
	}
	if err := res.Config.Validate(); err != nil {
		return nil, usageError{err: err}
	}
	return res, nil
}

func newLogger(cfg *config.Config, stderr io.Writer) (zerolog.Logger, error) {
	return logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
}

func runWindow(ctx context.Context, flags *globalFlags, stderr io.Writer) error {
	res, err := loadConfig(flags)
	if err != nil {
		return err
	}
	cfg := res.Config

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	logger.Info().Strs("config_files", res.Files).Msg("configuration loaded")

	backend, err := openBackend(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("display setup failed")
		return err
	}
	defer backend.Close()

	opts, err := session.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	s, err := session.New(backend, opts, logger)
	if err != nil {
		return err
	}
	if err := s.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("session failed")
		return err
	}
	return nil
}

// resolveBackend picks the backend for "auto": Wayland when a compositor
// socket exists, X11 when DISPLAY is set.
func resolveBackend(b config.Backend) (config.Backend, error) {
	if b != config.BackendAuto {
		return b, nil
	}
	if runtimepath.HasWaylandSocket() {
		return config.BackendWayland, nil
	}
	if runtimepath.HasX11Display() {
		return config.BackendX11, nil
	}
	return "", fmt.Errorf("no display server found: neither a Wayland socket nor DISPLAY is available")
}

func openBackend(cfg *config.Config, logger zerolog.Logger) (platform.Backend, error) {
	kind, err := resolveBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	img := cfg.CursorImage

	switch kind {
	case config.BackendWayland:
		b, err := wayland.Open(wayland.Options{
			Title:          cfg.Title,
			Width:          cfg.Width,
			Height:         cfg.Height,
			CursorSize:     img.Size,
			CursorColor:    uint32(img.Color),
			CursorHotspotX: img.HotspotX,
			CursorHotspotY: img.HotspotY,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("wayland: %w", err)
		}
		return b, nil
	case config.BackendX11:
		b, err := x11.Open(x11.Options{
			Title:          cfg.Title,
			Width:          cfg.Width,
			Height:         cfg.Height,
			Background:     uint32(cfg.Background),
			CursorSize:     img.Size,
			CursorColor:    uint32(img.Color),
			CursorHotspotX: img.HotspotX,
			CursorHotspotY: img.HotspotY,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("x11: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported backend %q", kind)
	}
}
