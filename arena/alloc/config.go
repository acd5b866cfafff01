package alloc

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/arenakit/internal/format"
)

// Placement selects where newly free blocks join the free list.
type Placement int

const (
	// PlaceHybrid pushes a block released by Free that merged with nothing
	// at the head, and appends merged blocks, split remainders, and grown
	// space at the tail, so fresh arena space is tried last. This is the
	// default.
	PlaceHybrid Placement = iota

	// PlaceTail appends every free block at the tail.
	PlaceTail

	// PlaceHead pushes every free block at the head (LIFO reuse).
	PlaceHead
)

func (p Placement) String() string {
	switch p {
	case PlaceHybrid:
		return "hybrid"
	case PlaceTail:
		return "tail"
	case PlaceHead:
		return "head"
	default:
		return fmt.Sprintf("Placement(%d)", int(p))
	}
}

// Config tunes an Allocator. The zero value of each field selects its default.
type Config struct {
	// ChunkSize is the minimum number of bytes requested from the region on
	// every growth. Must be a multiple of 16 and at least 32.
	ChunkSize int

	// Placement selects free-list insertion order.
	Placement Placement

	// CheckEveryOp runs CheckHeap after every public operation and logs
	// violations at error level. Slow; intended for debugging.
	CheckEveryOp bool

	// Logger receives debug records for initialization and growth.
	// Nil discards all output.
	Logger *slog.Logger
}

// DefaultConfig is used when New is given a nil config.
var DefaultConfig = Config{
	ChunkSize: format.DefaultChunkSize,
	Placement: PlaceHybrid,
}

// Validate reports whether the config can be used.
func (c Config) Validate() error {
	if c.ChunkSize < format.MinBlockSize || !format.IsAligned(c.ChunkSize) {
		return fmt.Errorf("%w: chunk size %d must be a multiple of %d and >= %d",
			ErrBadConfig, c.ChunkSize, format.Alignment, format.MinBlockSize)
	}
	switch c.Placement {
	case PlaceHybrid, PlaceTail, PlaceHead:
	default:
		return fmt.Errorf("%w: placement %v", ErrBadConfig, c.Placement)
	}
	return nil
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultConfig.ChunkSize
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}
