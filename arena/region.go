package arena

import (
	"context"
	"fmt"
)

// DefaultMaxSize is the reservation used when a constructor is given a
// non-positive maximum.
const DefaultMaxSize = 64 << 20

// Region is a contiguous byte range that grows at its high end.
//
// Implementations:
//   - Mem: Go-heap reservation
//   - Mapped: anonymous mmap reservation
//   - Wasm: wazero linear memory
type Region interface {
	// Sbrk extends the region by incr bytes and returns the offset of the
	// previous break, which is the first byte of the new space.
	// Returns ErrExhausted when the region cannot grow; the region is
	// unchanged in that case.
	Sbrk(incr int) (int, error)

	// Bytes returns a view of the region from offset 0 to the break.
	// The view may be replaced by the next Sbrk.
	Bytes() []byte

	// Len returns the current break.
	Len() int

	// Cap returns the maximum break the region can reach.
	Cap() int

	// Reset moves the break back to zero. Contents are not cleared.
	Reset() error

	// Close releases the reservation.
	Close() error
}

// Kind names a Region implementation.
type Kind string

const (
	KindMem    Kind = "mem"
	KindMapped Kind = "mmap"
	KindWasm   Kind = "wasm"
)

// Kinds lists the recognized region kinds.
func Kinds() []Kind {
	return []Kind{KindMem, KindMapped, KindWasm}
}

// ParseKind converts a flag value to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Open creates a region of the given kind with room for limit bytes.
func Open(ctx context.Context, kind Kind, limit int) (Region, error) {
	switch kind {
	case KindMem:
		return NewMem(limit), nil
	case KindMapped:
		return NewMapped(limit)
	case KindWasm:
		return NewWasm(ctx, limit)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// checkGrow validates an Sbrk request against the current break and limit.
func checkGrow(brk, incr, limit int) error {
	if incr < 0 {
		return fmt.Errorf("%w: %d", ErrNegative, incr)
	}
	if incr > limit-brk {
		return fmt.Errorf("%w: brk=%d incr=%d limit=%d", ErrExhausted, brk, incr, limit)
	}
	return nil
}
