package arena

import "errors"

var (
	// ErrExhausted indicates the region cannot grow by the requested amount.
	ErrExhausted = errors.New("arena: region exhausted")

	// ErrNegative indicates a negative growth increment.
	ErrNegative = errors.New("arena: negative increment")

	// ErrClosed indicates use of a region after Close.
	ErrClosed = errors.New("arena: region closed")

	// ErrUnknownKind indicates an unrecognized region kind name.
	ErrUnknownKind = errors.New("arena: unknown region kind")
)
