package arena

import "github.com/bytedance/gopkg/lang/dirtmake"

// Mem is a Region backed by a single Go-heap reservation. The full capacity
// is allocated once, so growing never copies and earlier views stay valid.
type Mem struct {
	buf []byte // len = break, cap = limit
}

// NewMem reserves limit bytes. A non-positive limit selects DefaultMaxSize.
func NewMem(limit int) *Mem {
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	// Fresh sbrk space carries no guarantee about its contents; skip zeroing.
	return &Mem{buf: dirtmake.Bytes(0, limit)}
}

// Sbrk implements Region.
func (m *Mem) Sbrk(incr int) (int, error) {
	if m.buf == nil {
		return 0, ErrClosed
	}
	old := len(m.buf)
	if err := checkGrow(old, incr, cap(m.buf)); err != nil {
		return 0, err
	}
	m.buf = m.buf[:old+incr]
	return old, nil
}

// Bytes implements Region.
func (m *Mem) Bytes() []byte { return m.buf }

// Len implements Region.
func (m *Mem) Len() int { return len(m.buf) }

// Cap implements Region.
func (m *Mem) Cap() int { return cap(m.buf) }

// Reset implements Region.
func (m *Mem) Reset() error {
	if m.buf == nil {
		return ErrClosed
	}
	m.buf = m.buf[:0]
	return nil
}

// Close implements Region.
func (m *Mem) Close() error {
	m.buf = nil
	return nil
}
