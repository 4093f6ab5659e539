// Package shm allocates memory regions that both this process and the
// display server can map.
package shm

import (
	"errors"
	"fmt"
	"os"

	"github.com/1broseidon/swcursor/internal/runtimepath"
	"golang.org/x/sys/unix"
)

// File is an anonymous, file-backed shared mapping suitable for a
// wl_shm pool. The descriptor is handed to the server; the mapping is
// written locally.
type File struct {
	file *os.File
	mem  []byte
}

// NewFile creates a sized and mapped anonymous file of size bytes.
// memfd_create is preferred; when the kernel lacks it the file is created
// in the runtime dir and unlinked immediately.
func NewFile(name string, size int) (*File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid shm size %d", size)
	}

	f, err := createMemfd(name)
	if err != nil {
		f, err = createUnlinked(name)
		if err != nil {
			return nil, err
		}
	}

	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to size shm file: %w", err)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to map shm file: %w", err)
	}

	return &File{file: f, mem: mem}, nil
}

func createMemfd(name string) (*os.File, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}
	return os.NewFile(uintptr(fd), name), nil
}

func createUnlinked(name string) (*os.File, error) {
	dir, err := runtimepath.Dir()
	if err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(dir, name+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create shm file: %w", err)
	}
	if err := os.Remove(f.Name()); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to unlink shm file: %w", err)
	}
	return f, nil
}

// Fd returns the descriptor to share with the display server.
func (f *File) Fd() uintptr { return f.file.Fd() }

// Bytes returns the local mapping.
func (f *File) Bytes() []byte { return f.mem }

// Size returns the mapping length in bytes.
func (f *File) Size() int { return len(f.mem) }

// CloseFd closes the descriptor and keeps the mapping, which stays valid
// until Close. The server holds its own reference once the pool exists.
func (f *File) CloseFd() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// Close unmaps the region and closes the descriptor.
func (f *File) Close() error {
	var errs []error
	if f.mem != nil {
		if err := unix.Munmap(f.mem); err != nil {
			errs = append(errs, fmt.Errorf("munmap: %w", err))
		}
		f.mem = nil
	}
	if err := f.CloseFd(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
