package runtimepath

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got == "" {
		t.Fatal("Dir() returned empty path")
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/swcursor-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestWaylandSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	t.Setenv("WAYLAND_DISPLAY", "")
	got, err := WaylandSocketPath()
	if err != nil {
		t.Fatalf("WaylandSocketPath() error: %v", err)
	}
	if got != filepath.Join(td, "wayland-0") {
		t.Fatalf("WaylandSocketPath() = %q, want default wayland-0", got)
	}

	t.Setenv("WAYLAND_DISPLAY", "/abs/wayland-9")
	got, err = WaylandSocketPath()
	if err != nil {
		t.Fatalf("WaylandSocketPath() error: %v", err)
	}
	if got != "/abs/wayland-9" {
		t.Fatalf("WaylandSocketPath() = %q, want absolute name unchanged", got)
	}
}

func TestHasWaylandSocket(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)
	t.Setenv("WAYLAND_DISPLAY", "wayland-test")

	if HasWaylandSocket() {
		t.Fatal("HasWaylandSocket() = true before socket exists")
	}

	l, err := net.Listen("unix", filepath.Join(td, "wayland-test"))
	if err != nil {
		t.Skipf("unix sockets unavailable: %v", err)
	}
	defer l.Close()

	if !HasWaylandSocket() {
		t.Fatal("HasWaylandSocket() = false with listening socket")
	}
}
