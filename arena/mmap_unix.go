//go:build linux || darwin || freebsd

package arena

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/arenakit/internal/format"
)

// Mapped is a Region backed by an anonymous memory mapping. The whole range
// is reserved inaccessible up front; pages become readable and writable only
// once the break moves past them.
type Mapped struct {
	data      []byte // full reservation
	brk       int
	committed int // page-aligned prefix of data that is PROT_READ|PROT_WRITE
	pageSize  int
}

// NewMapped reserves limit bytes of address space, rounded up to whole pages.
// A non-positive limit selects DefaultMaxSize.
func NewMapped(limit int) (*Mapped, error) {
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	pageSize := unix.Getpagesize()
	limit = format.RoundUp(limit, pageSize)
	data, err := unix.Mmap(-1, 0, limit, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("arena: reserve %d bytes: %w", limit, err)
	}
	return &Mapped{data: data, pageSize: pageSize}, nil
}

// Sbrk implements Region.
func (m *Mapped) Sbrk(incr int) (int, error) {
	if m.data == nil {
		return 0, ErrClosed
	}
	old := m.brk
	if err := checkGrow(old, incr, len(m.data)); err != nil {
		return 0, err
	}
	need := old + incr
	if need > m.committed {
		end := min(format.RoundUp(need, m.pageSize), len(m.data))
		if err := unix.Mprotect(m.data[m.committed:end], unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return 0, fmt.Errorf("%w: commit [%d,%d): %w", ErrExhausted, m.committed, end, err)
		}
		m.committed = end
	}
	m.brk = need
	return old, nil
}

// Bytes implements Region.
func (m *Mapped) Bytes() []byte {
	if m.data == nil {
		return nil
	}
	return m.data[:m.brk]
}

// Len implements Region.
func (m *Mapped) Len() int { return m.brk }

// Cap implements Region.
func (m *Mapped) Cap() int { return len(m.data) }

// Reset implements Region. Committed pages stay committed for reuse.
func (m *Mapped) Reset() error {
	if m.data == nil {
		return ErrClosed
	}
	m.brk = 0
	return nil
}

// Close implements Region.
func (m *Mapped) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	m.brk, m.committed = 0, 0
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
