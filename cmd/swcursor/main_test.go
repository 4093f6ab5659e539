package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/swcursor/internal/config"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExecute_UsageErrorsExitTwo(t *testing.T) {
	cases := [][]string{
		{"--no-such-flag"},
		{"replay"},
		{"config", "explain"},
		{"config"},
		{"version", "extra"},
	}
	for _, args := range cases {
		if code, _, stderr := run(t, args...); code != 2 {
			t.Fatalf("%v: expected exit 2, got %d (stderr %q)", args, code, stderr)
		}
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := run(t, "version")
	if code != 0 || !strings.HasPrefix(out, "swcursor ") {
		t.Fatalf("unexpected version output: code=%d out=%q", code, out)
	}
}

func TestConfigValidate(t *testing.T) {
	good := writeFile(t, "good.yaml", "width: 640\n")
	if code, out, stderr := run(t, "config", "validate", "--path", good); code != 0 || out != "config: ok\n" {
		t.Fatalf("expected ok, got code=%d out=%q stderr=%q", code, out, stderr)
	}

	bad := writeFile(t, "bad.yaml", "strategy: spiral\n")
	if code, _, stderr := run(t, "config", "validate", "--path", bad); code != 1 {
		t.Fatalf("expected exit 1, got %d (stderr %q)", code, stderr)
	}
}

func TestConfigExplain_ReportsFileSource(t *testing.T) {
	path := writeFile(t, "config.yaml", "width: 640\n")
	code, out, stderr := run(t, "config", "explain", "--path", path, "width")
	if code != 0 {
		t.Fatalf("explain failed: code=%d stderr=%q", code, stderr)
	}
	if !strings.Contains(out, "source: file:") || !strings.Contains(out, ":1:8") {
		t.Fatalf("expected file source with position, got %q", out)
	}
	if !strings.Contains(out, "value:\n640\n") {
		t.Fatalf("expected value 640, got %q", out)
	}
}

func TestConfigPrint_Defaults(t *testing.T) {
	code, out, _ := run(t, "config", "print", "--defaults")
	if code != 0 {
		t.Fatalf("print failed: code=%d", code)
	}
	if !strings.Contains(out, "title: swcursor") || !strings.Contains(out, "strategy: xor") {
		t.Fatalf("unexpected defaults: %q", out)
	}
}

func TestReplay_WritesReportAndSnapshot(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "width: 64\nheight: 48\n")
	script := writeFile(t, "script.yaml", `
events:
  - configure: 1
  - enter: [10, 10]
  - motion: [10, 10]
  - motion: [20, 20]
  - frame: true
  - close: true
`)
	snap := filepath.Join(t.TempDir(), "snap.png")

	code, out, stderr := run(t, "replay", "--path", cfg, script, "--out", snap, "--scale", "2")
	if code != 0 {
		t.Fatalf("replay failed: code=%d stderr=%q", code, stderr)
	}
	if !strings.Contains(out, "motions: 2") {
		t.Fatalf("expected two motions in report, got %q", out)
	}
	if !strings.Contains(out, "snapshot: "+snap) {
		t.Fatalf("expected snapshot path in report, got %q", out)
	}
	if _, err := os.Stat(snap); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
}

func TestReplay_MissingScriptFails(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "width: 64\nheight: 48\n")
	if code, _, _ := run(t, "replay", "--path", cfg, filepath.Join(t.TempDir(), "nope.yaml")); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
}

func TestResolveBackend_Explicit(t *testing.T) {
	for _, b := range []config.Backend{config.BackendWayland, config.BackendX11} {
		got, err := resolveBackend(b)
		if err != nil || got != b {
			t.Fatalf("resolveBackend(%s) = %s, %v", b, got, err)
		}
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceEnv, Name: "SWCURSOR_STRATEGY"}, "env:SWCURSOR_STRATEGY"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
