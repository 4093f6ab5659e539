package shm

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Segment is a SysV shared memory segment, the transport MIT-SHM expects.
// The segment is marked for removal right after attaching, so the kernel
// releases it once both sides detach.
type Segment struct {
	id      int
	mem     []byte
	removed bool
}

// NewSegment creates and attaches a private segment of size bytes.
func NewSegment(size int) (*Segment, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid shm size %d", size)
	}
	id, err := unix.SysvShmGet(unix.IPC_PRIVATE, size, unix.IPC_CREAT|0600)
	if err != nil {
		return nil, fmt.Errorf("shmget: %w", err)
	}
	mem, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		_, _ = unix.SysvShmCtl(id, unix.IPC_RMID, nil)
		return nil, fmt.Errorf("shmat: %w", err)
	}
	return &Segment{id: id, mem: mem}, nil
}

// ID returns the segment identifier passed to the X server.
func (s *Segment) ID() uint32 { return uint32(s.id) }

// Bytes returns the local attachment.
func (s *Segment) Bytes() []byte { return s.mem }

// Size returns the segment length in bytes.
func (s *Segment) Size() int { return len(s.mem) }

// MarkForRemoval schedules the segment for deletion once every attachment
// is gone. Call after the server has attached.
func (s *Segment) MarkForRemoval() error {
	if s.removed {
		return nil
	}
	if _, err := unix.SysvShmCtl(s.id, unix.IPC_RMID, nil); err != nil {
		return fmt.Errorf("shmctl IPC_RMID: %w", err)
	}
	s.removed = true
	return nil
}

// Close detaches the segment and marks it for removal.
func (s *Segment) Close() error {
	if s.mem == nil {
		return nil
	}
	rmErr := s.MarkForRemoval()
	err := unix.SysvShmDetach(s.mem)
	s.mem = nil
	if err == nil {
		err = rmErr
	}
	return err
}
