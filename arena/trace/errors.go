package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax indicates a malformed header or operation line.
	ErrSyntax = errors.New("trace: syntax error")

	// ErrBadID indicates an operation on an id outside [0, NumIDs) or on an
	// id in the wrong state.
	ErrBadID = errors.New("trace: bad id")

	// ErrCount indicates the number of operations differs from the header.
	ErrCount = errors.New("trace: operation count mismatch")

	// ErrMisaligned indicates the allocator returned an unaligned payload.
	ErrMisaligned = errors.New("trace: payload misaligned")

	// ErrOutOfBounds indicates a payload that does not lie inside the arena.
	ErrOutOfBounds = errors.New("trace: payload outside arena")

	// ErrOverlap indicates a payload that overlaps another live payload.
	ErrOverlap = errors.New("trace: payload overlaps live block")

	// ErrCorrupted indicates a live payload lost the bytes written to it.
	ErrCorrupted = errors.New("trace: payload contents corrupted")
)

// ParseError reports the line on which parsing failed.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErrorf(line int, sentinel error, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Err: fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))}
}

// OpError reports the operation during which replay failed.
type OpError struct {
	Index int // Position in Trace.Ops
	Op    Op
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("trace: op %d (line %d, %s): %v", e.Index, e.Op.Line, e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
