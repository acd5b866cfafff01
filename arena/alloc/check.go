package alloc

import "github.com/joshuapare/arenakit/internal/format"

// CheckHeap walks the whole arena and the free list and returns an
// *InvariantError describing the first inconsistency, or nil.
//
// Checked invariants:
//   - prologue and epilogue are intact and the epilogue ends the arena
//   - every block is at least MinBlockSize, a multiple of 16, with a
//     16-aligned payload, and lies inside the arena
//   - every block's prev-allocated bit matches its predecessor
//   - free blocks have identical header and footer
//   - no two free blocks are adjacent
//   - the free list holds exactly the free blocks, with consistent links
func (a *Allocator) CheckHeap() error {
	if a.heapStart == 0 {
		return invariantf(0, "arena not initialized")
	}
	mem := a.mem
	brk := len(mem)
	if brk != a.r.Len() {
		return invariantf(brk, "stale view: %d bytes, region break %d", brk, a.r.Len())
	}

	if w := format.ReadU64(mem, format.PrologueOffset); w != pack(0, true, true) {
		return invariantf(format.PrologueOffset, "bad prologue %#x", w)
	}

	free := make(map[int]bool)
	prevAlloc := true // prologue
	b := a.heapStart
	for {
		if b < format.FirstBlockOffset || b+format.WordSize > brk {
			return invariantf(b, "block header outside arena [%#x, %#x)", format.FirstBlockOffset, brk)
		}
		w := format.ReadU64(mem, b)
		t := unpack(w)
		if t.PrevAlloc != prevAlloc {
			return invariantf(b, "prev-allocated bit %v, previous block allocated %v", t.PrevAlloc, prevAlloc)
		}
		if t.Size == 0 {
			if !t.Alloc {
				return invariantf(b, "epilogue marked free")
			}
			if b != brk-format.WordSize {
				return invariantf(b, "epilogue is not the last word (break %#x)", brk)
			}
			break
		}
		if t.Size < format.MinBlockSize {
			return invariantf(b, "size %d below minimum %d", t.Size, format.MinBlockSize)
		}
		if !format.IsAligned(t.Size) {
			return invariantf(b, "size %d not a multiple of %d", t.Size, format.Alignment)
		}
		if !format.IsAligned(b + format.WordSize) {
			return invariantf(b, "payload %#x misaligned", b+format.WordSize)
		}
		if b+t.Size > brk-format.WordSize {
			return invariantf(b, "size %d overruns the epilogue at %#x", t.Size, brk-format.WordSize)
		}
		if !t.Alloc {
			if !prevAlloc {
				return invariantf(b, "adjacent free blocks")
			}
			if f := format.ReadU64(mem, b+t.Size-format.WordSize); f != w {
				return invariantf(b, "header %#x differs from footer %#x", w, f)
			}
			free[b] = false
		}
		prevAlloc = t.Alloc
		b += t.Size
	}

	count := 0
	last := 0
	for f := a.head; f != 0; f = a.succ(f) {
		seen, ok := free[f]
		if !ok {
			return invariantf(f, "free list node is not a free block")
		}
		if seen {
			return invariantf(f, "free list cycle")
		}
		free[f] = true
		if p := a.pred(f); p != last {
			return invariantf(f, "pred link %#x, expected %#x", p, last)
		}
		last = f
		count++
	}
	if a.tail != last {
		return invariantf(a.tail, "tail %#x, last node %#x", a.tail, last)
	}
	if count != len(free) {
		for off, seen := range free {
			if !seen {
				return invariantf(off, "free block missing from free list (%d of %d listed)", count, len(free))
			}
		}
	}
	return nil
}
