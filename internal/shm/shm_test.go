package shm

import (
	"testing"

	"github.com/1broseidon/swcursor/internal/pixbuf"
	"golang.org/x/sys/unix"
)

func TestNewFile_MapsRequestedSize(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	f, err := NewFile("swcursor-test", 4*4*pixbuf.BytesPerPixel)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	defer f.Close()

	if f.Size() != 64 {
		t.Fatalf("expected 64 bytes, got %d", f.Size())
	}

	buf, err := pixbuf.Wrap(f.Bytes(), 4, 4)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if err := buf.Set(3, 3, 0x00ffffff); err != nil {
		t.Fatalf("set: %v", err)
	}

	// The descriptor must observe the write made through the mapping.
	got := make([]byte, 4)
	if _, err := unix.Pread(int(f.Fd()), got, 60); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got[0] != 0xff || got[1] != 0xff || got[2] != 0xff {
		t.Fatalf("expected white pixel through fd, got % x", got)
	}
}

func TestNewFile_RejectsZeroSize(t *testing.T) {
	if _, err := NewFile("swcursor-test", 0); err == nil {
		t.Fatalf("expected error for zero size")
	}
}

func TestFileClose_Idempotent(t *testing.T) {
	f, err := NewFile("swcursor-test", 16)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestFileCloseFd_KeepsMapping(t *testing.T) {
	f, err := NewFile("swcursor-test", 16)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	defer f.Close()

	if err := f.CloseFd(); err != nil {
		t.Fatalf("close fd: %v", err)
	}
	f.Bytes()[0] = 0x7f
	if f.Bytes()[0] != 0x7f || f.Size() != 16 {
		t.Fatalf("expected mapping to survive CloseFd")
	}
	if err := f.CloseFd(); err != nil {
		t.Fatalf("second close fd: %v", err)
	}
}

func TestSegment_AttachWriteRemove(t *testing.T) {
	s, err := NewSegment(64)
	if err != nil {
		t.Skipf("SysV shm unavailable: %v", err)
	}
	if s.Size() < 64 {
		t.Fatalf("expected at least 64 bytes, got %d", s.Size())
	}
	s.Bytes()[63] = 0xaa
	if err := s.MarkForRemoval(); err != nil {
		t.Fatalf("mark: %v", err)
	}
	// Still attached after marking.
	if s.Bytes()[63] != 0xaa {
		t.Fatalf("expected segment contents to survive removal mark")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
