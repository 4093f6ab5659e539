package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Width != 500 || cfg.Height != 500 {
		t.Fatalf("expected 500x500 surface, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.ImmediateMask != 0x00FF0000 || cfg.SyncedMask != 0x0000FF00 {
		t.Fatalf("unexpected default masks %v / %v", cfg.ImmediateMask, cfg.SyncedMask)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Strategy != StrategyXOR {
		t.Fatalf("expected default strategy %q, got %q", StrategyXOR, res.Config.Strategy)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.CommitMode != CommitEager {
		t.Fatalf("expected commit_mode %q, got %q", CommitEager, res.Config.CommitMode)
	}
}

func TestLoadFromPath_ColorsAndExplainSource(t *testing.T) {
	data := strings.Join([]string{
		"immediate_mask: 0x000000FF",
		"synced_mask: \"#00FF00\"",
		"cursor_image:",
		"  color: 0x00123456",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.ImmediateMask != 0x000000FF {
		t.Fatalf("expected immediate_mask 0xFF, got %v", res.Config.ImmediateMask)
	}
	if res.Config.SyncedMask != 0x0000FF00 {
		t.Fatalf("expected synced_mask 0xFF00, got %v", res.Config.SyncedMask)
	}
	// Unset nested keys keep their defaults.
	if res.Config.CursorImage.Size != 11 || res.Config.CursorImage.Color != 0x00123456 {
		t.Fatalf("unexpected cursor image %#v", res.Config.CursorImage)
	}

	val, src, err := Explain(res, "cursor_image.color")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != Color(0x00123456) {
		t.Fatalf("expected explain value 0x00123456, got %#v", val)
	}
	if src.Kind != SourceFile || src.File == "" || src.Line != 4 {
		t.Fatalf("expected file source on line 4, got %#v", src)
	}

	_, src, err = Explain(res, "width")
	if err != nil {
		t.Fatalf("explain width: %v", err)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source for width, got %#v", src)
	}

	if _, _, err := Explain(res, "cursor_image.nope"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, configD, "10-base.yaml", "cursor_radius: 2\ntitle: base\n")
	writeConfig(t, configD, "20-override.yaml", "cursor_radius: 3\n")

	// Main file overrides includes.
	main := strings.Join([]string{
		"include:",
		"  - config.d",
		"cursor_radius: 4",
		"",
	}, "\n")
	path := writeConfig(t, dir, "config.yaml", main)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.CursorRadius != 4 {
		t.Fatalf("expected cursor_radius to be 4, got %d", res.Config.CursorRadius)
	}
	if res.Config.Title != "base" {
		t.Fatalf("expected title from include, got %q", res.Config.Title)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeExpandsEnv(t *testing.T) {
	shared := t.TempDir()
	writeConfig(t, shared, "colors.yaml", "synced_mask: 0x000000FF\n")
	t.Setenv("SHARED_CONFIG_DIR", shared)

	path := writeConfig(t, t.TempDir(), "config.yaml", "include: $SHARED_CONFIG_DIR/colors.yaml\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.SyncedMask != 0x000000FF {
		t.Fatalf("expected synced_mask from include, got %#x", uint32(res.Config.SyncedMask))
	}
	if _, src, _ := Explain(res, "synced_mask"); src.Kind != SourceFile || filepath.Base(src.File) != "colors.yaml" {
		t.Fatalf("expected source in colors.yaml, got %#v", src)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "title: ok\nstrategy: sprite\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Path != "strategy" {
		t.Fatalf("expected path strategy, got %q", verr.Path)
	}
	if !strings.HasPrefix(err.Error(), path+":2:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "strategy: xor\ncommit_mode: eager\n")
	t.Setenv("SWCURSOR_STRATEGY", "mask-toggle")
	t.Setenv("SWCURSOR_COMMIT_MODE", "frame")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Strategy != StrategyMaskToggle {
		t.Fatalf("expected env strategy, got %q", res.Config.Strategy)
	}
	if res.Config.CommitMode != CommitFrame {
		t.Fatalf("expected env commit_mode, got %q", res.Config.CommitMode)
	}
	_, src, err := Explain(res, "strategy")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if src.Kind != SourceEnv || src.Name != "SWCURSOR_STRATEGY" {
		t.Fatalf("expected env source, got %#v", src)
	}
}

func TestLoadFromPath_InvalidEnvNamesVariable(t *testing.T) {
	t.Setenv("SWCURSOR_BACKEND", "quartz")

	_, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "SWCURSOR_BACKEND") {
		t.Fatalf("expected env variable in error, got %v", err)
	}
}

func TestValidate_Table(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, "width"},
		{"huge height", func(c *Config) { c.Height = maxSurfaceSide + 1 }, "height"},
		{"negative radius", func(c *Config) { c.CursorRadius = -1 }, "cursor_radius"},
		{"bad commit mode", func(c *Config) { c.CommitMode = "later" }, "commit_mode"},
		{"zero mask", func(c *Config) { c.SyncedMask = 0 }, "synced_mask"},
		{"alpha mask", func(c *Config) { c.ImmediateMask = 0xFF000000 }, "immediate_mask"},
		{"hotspot outside", func(c *Config) { c.CursorImage.HotspotX = 11 }, "cursor_image.hotspot_x"},
		{"bad log level", func(c *Config) { c.LogLevel = "warning" }, "log_level"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"mask-toggle overlapping masks", func(c *Config) {
			c.Strategy = StrategyMaskToggle
			c.ImmediateMask = 0x00FF0000
			c.SyncedMask = 0x00FF0000
		}, "synced_mask"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestValidate_OverlappingMasksAllowedForXOR(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ImmediateMask = 0x00FF0000
	cfg.SyncedMask = 0x00FF0000
	if err := cfg.Validate(); err != nil {
		t.Fatalf("xor cursors are reversible with shared bits, got %v", err)
	}
	cfg.Strategy = StrategyMaskToggle
	cfg.SyncedMask = 0x0000FF00
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disjoint masks should pass for mask-toggle, got %v", err)
	}
}

func TestColor_MarshalsAsHex(t *testing.T) {
	out, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), "immediate_mask: \"0x00FF0000\"") && !strings.Contains(string(out), "immediate_mask: 0x00FF0000") {
		t.Fatalf("expected hex mask in output, got:\n%s", out)
	}

	var back Config
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ImmediateMask != 0x00FF0000 {
		t.Fatalf("expected mask to survive, got %v", back.ImmediateMask)
	}
}

func TestParseColor_Rejects(t *testing.T) {
	for _, s := range []string{"#12345", "red", "0x1FFFFFFFF"} {
		if _, err := parseColor(s); err == nil {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}
