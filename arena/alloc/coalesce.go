package alloc

// coalesce merges a block that has just become free with its free
// neighbours and registers the result on the free list.
//
// On entry b's header and footer say free, its prev-allocated bit is correct,
// the following block's prev-allocated bit is clear, and b is not on the free
// list. freed marks blocks released by a client rather than created by a
// split or growth. Returns the block that now represents the merged extent.
func (a *Allocator) coalesce(b int, freed bool) int {
	next := a.next(b)
	prevAlloc := a.prevAllocOf(b)
	nextAlloc := a.isAlloc(next)
	size := a.sizeOf(b)
	merged := true

	switch {
	case prevAlloc && nextAlloc:
		// Case 1: no free neighbour.
		a.stats.CoalesceNone++
		merged = false

	case prevAlloc && !nextAlloc:
		// Case 2: absorb the successor.
		a.stats.CoalesceNext++
		size += a.sizeOf(next)
		a.remove(next)
		a.writeHeader(b, size, true, false)
		a.writeFooter(b, size, true, false)

	case !prevAlloc && nextAlloc:
		// Case 3: fold into the predecessor.
		a.stats.CoalescePrev++
		p := a.prev(b)
		pPrevAlloc := a.prevAllocOf(p)
		size += a.sizeOf(p)
		a.remove(p)
		a.writeHeader(p, size, pPrevAlloc, false)
		a.writeFooter(p, size, pPrevAlloc, false)
		b = p

	default:
		// Case 4: predecessor, block and successor become one.
		a.stats.CoalesceBoth++
		p := a.prev(b)
		pPrevAlloc := a.prevAllocOf(p)
		size += a.sizeOf(p) + a.sizeOf(next)
		a.remove(p)
		a.remove(next)
		a.writeHeader(p, size, pPrevAlloc, false)
		a.writeFooter(p, size, pPrevAlloc, false)
		b = p
	}

	a.register(b, freed && !merged)
	return b
}
