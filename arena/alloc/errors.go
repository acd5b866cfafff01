package alloc

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSpace indicates that no free block was large enough and growing
	// the arena failed.
	ErrNoSpace = errors.New("alloc: arena exhausted")

	// ErrOverflow indicates that count*size of a zeroed allocation does not
	// fit in 64 bits.
	ErrOverflow = errors.New("alloc: size computation overflows")

	// ErrBadConfig indicates an invalid Config.
	ErrBadConfig = errors.New("alloc: invalid configuration")

	// ErrNilRegion indicates New was called without a region.
	ErrNilRegion = errors.New("alloc: nil region")
)

// InvariantError describes the first heap inconsistency found by CheckHeap.
type InvariantError struct {
	Off    int // Arena offset of the offending block or word
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("alloc: invariant violated at offset %#x: %s", e.Off, e.Reason)
}

func invariantf(off int, format string, args ...any) *InvariantError {
	return &InvariantError{Off: off, Reason: fmt.Sprintf(format, args...)}
}
