package alloc

import (
	"fmt"
	"io"
)

// Stats holds call counters and byte totals since the allocator was created.
type Stats struct {
	Inits          int   // Init calls, including the one in New
	MallocCalls    int   // Malloc calls
	FreeCalls      int   // Free calls
	ReallocCalls   int   // Realloc calls
	CallocCalls    int   // Calloc calls
	FastPath       int   // Allocations served from the free list
	SlowPath       int   // Allocations that required growth
	GrowCalls      int   // Successful region growths
	GrowBytes      int64 // Bytes added by growth
	Splits         int   // Blocks split during placement
	CoalesceNone   int   // Frees with no free neighbour
	CoalesceNext   int   // Merges with the successor only
	CoalescePrev   int   // Merges with the predecessor only
	CoalesceBoth   int   // Merges with both neighbours
	BytesAllocated int64 // Block bytes handed out (including headers)
	BytesFreed     int64 // Block bytes released
	CheckFailures  int   // CheckEveryOp violations
}

// Stats returns a copy of the allocator's counters.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// Sub returns the counters accumulated since o was taken.
func (s Stats) Sub(o Stats) Stats {
	return Stats{
		Inits:          s.Inits - o.Inits,
		MallocCalls:    s.MallocCalls - o.MallocCalls,
		FreeCalls:      s.FreeCalls - o.FreeCalls,
		ReallocCalls:   s.ReallocCalls - o.ReallocCalls,
		CallocCalls:    s.CallocCalls - o.CallocCalls,
		FastPath:       s.FastPath - o.FastPath,
		SlowPath:       s.SlowPath - o.SlowPath,
		GrowCalls:      s.GrowCalls - o.GrowCalls,
		GrowBytes:      s.GrowBytes - o.GrowBytes,
		Splits:         s.Splits - o.Splits,
		CoalesceNone:   s.CoalesceNone - o.CoalesceNone,
		CoalesceNext:   s.CoalesceNext - o.CoalesceNext,
		CoalescePrev:   s.CoalescePrev - o.CoalescePrev,
		CoalesceBoth:   s.CoalesceBoth - o.CoalesceBoth,
		BytesAllocated: s.BytesAllocated - o.BytesAllocated,
		BytesFreed:     s.BytesFreed - o.BytesFreed,
		CheckFailures:  s.CheckFailures - o.CheckFailures,
	}
}

// Summary is a point-in-time census of the arena.
type Summary struct {
	ArenaBytes  int `json:"arena_bytes"` // Region break
	AllocBlocks int `json:"alloc_blocks"`
	AllocBytes  int `json:"alloc_bytes"` // Block bytes of allocated blocks
	FreeBlocks  int `json:"free_blocks"`
	FreeBytes   int `json:"free_bytes"`
	LargestFree int `json:"largest_free"`
	FreeListLen int `json:"free_list_len"`
}

// Summary walks the arena and the free list.
func (a *Allocator) Summary() Summary {
	s := Summary{ArenaBytes: a.r.Len()}
	a.Walk(func(b Block) bool {
		if b.Alloc {
			s.AllocBlocks++
			s.AllocBytes += b.Size
			return true
		}
		s.FreeBlocks++
		s.FreeBytes += b.Size
		s.LargestFree = max(s.LargestFree, b.Size)
		return true
	})
	a.FreeBlocks(func(Block) bool {
		s.FreeListLen++
		return true
	})
	return s
}

// Walk calls fn for every block in address order, stopping at the epilogue
// or when fn returns false.
func (a *Allocator) Walk(fn func(Block) bool) {
	if a.heapStart == 0 {
		return
	}
	for b := a.heapStart; ; {
		t := unpack(a.header(b))
		if t.Size == 0 {
			return
		}
		if !fn(Block{Off: b, Size: t.Size, Alloc: t.Alloc, PrevAlloc: t.PrevAlloc}) {
			return
		}
		b += t.Size
	}
}

// FreeBlocks calls fn for every block on the free list in list order,
// stopping when fn returns false.
func (a *Allocator) FreeBlocks(fn func(Block) bool) {
	for b := a.head; b != 0; b = a.succ(b) {
		t := unpack(a.header(b))
		if !fn(Block{Off: b, Size: t.Size, Alloc: t.Alloc, PrevAlloc: t.PrevAlloc}) {
			return
		}
	}
}

// Dump writes a human-readable listing of the arena to w.
func (a *Allocator) Dump(w io.Writer) error {
	s := a.Summary()
	if _, err := fmt.Fprintf(w, "arena: %d bytes, %d allocated (%d bytes), %d free (%d bytes)\n",
		s.ArenaBytes, s.AllocBlocks, s.AllocBytes, s.FreeBlocks, s.FreeBytes); err != nil {
		return err
	}

	var err error
	a.Walk(func(b Block) bool {
		state := "alloc"
		if !b.Alloc {
			state = "free "
		}
		prev := "P"
		if !b.PrevAlloc {
			prev = "-"
		}
		_, err = fmt.Fprintf(w, "  %#010x  %s %s  size=%-8d payload=%#x\n",
			b.Off, state, prev, b.Size, uint64(b.Payload()))
		return err == nil
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "free list:"); err != nil {
		return err
	}
	a.FreeBlocks(func(b Block) bool {
		_, err = fmt.Fprintf(w, " %#x(%d)", b.Off, b.Size)
		return err == nil
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}
