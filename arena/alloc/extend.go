package alloc

import (
	"fmt"

	"github.com/joshuapare/arenakit/internal/format"
)

// extend grows the arena by at least size bytes and returns the free block
// covering the new space, merged with a free block that ended at the old
// epilogue. On failure the arena is unchanged.
func (a *Allocator) extend(size int) (int, error) {
	size = format.Align16(size)

	old, err := a.r.Sbrk(size)
	if err != nil {
		a.log.Debug("arena growth refused", "bytes", size, "brk", a.r.Len(), "err", err)
		return 0, fmt.Errorf("%w: grow by %d bytes: %w", ErrNoSpace, size, err)
	}
	a.mem = a.r.Bytes()

	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(size)

	// The old epilogue header becomes the header of the new block.
	b := old - format.WordSize
	prevAlloc := a.prevAllocOf(b)
	a.writeHeader(b, size, prevAlloc, false)
	a.setPred(b, 0)
	a.setSucc(b, 0)
	a.writeFooter(b, size, prevAlloc, false)

	a.writeHeader(b+size, 0, false, true)

	a.log.Debug("arena grown", "bytes", size, "brk", a.r.Len())
	return a.coalesce(b, false), nil
}
