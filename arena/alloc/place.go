package alloc

import "github.com/joshuapare/arenakit/internal/format"

// findFit returns the first free block of at least asize bytes, scanning
// from head to tail, or 0 when none fits.
func (a *Allocator) findFit(asize int) int {
	for b := a.head; b != 0; b = a.succ(b) {
		if asize <= a.sizeOf(b) {
			return b
		}
	}
	return 0
}

// place allocates asize bytes at the start of free block b. A remainder of
// at least MinBlockSize is split off and returned to the free list; a
// smaller remainder stays inside the allocation.
func (a *Allocator) place(b, asize int) {
	csize := a.sizeOf(b)
	prevAlloc := a.prevAllocOf(b)

	a.remove(b)

	if rem := csize - asize; rem >= format.MinBlockSize {
		a.stats.Splits++
		a.writeHeader(b, asize, prevAlloc, true)

		tail := b + asize
		a.writeHeader(tail, rem, true, false)
		a.writeFooter(tail, rem, true, false)
		a.coalesce(tail, false)

		a.stats.BytesAllocated += int64(asize)
		return
	}

	a.writeHeader(b, csize, prevAlloc, true)
	a.setPrevAlloc(a.next(b), true)
	a.stats.BytesAllocated += int64(csize)
}
