// Package arena provides the growable byte regions an allocator manages.
//
// # Overview
//
// A Region is the single low-level growth primitive of an allocator: it
// behaves like sbrk(2) over a private address range. Sbrk extends the region
// monotonically and returns the previous break; offsets handed out earlier
// never move, so an allocator may store arena offsets inside the region
// itself and follow them later.
//
// # Implementations
//
// Mem: Go-heap reservation
//
//   - Capacity reserved up front without zeroing (dirtmake)
//   - Growth is a reslice inside the reservation
//   - Portable, the default for tests and tools
//
// Mapped: anonymous memory mapping
//
//   - Address range reserved with PROT_NONE
//   - Pages committed with mprotect as the break advances
//   - Falls back to Mem on platforms without mmap
//
// Wasm: WebAssembly linear memory
//
//   - A memory-only module instantiated in a wazero runtime
//   - Growth issues memory.grow in 64 KiB pages
//   - Useful when the allocator manages a guest's memory
//
// # Usage Example
//
//	r := arena.NewMem(1 << 20)
//	old, err := r.Sbrk(4096)
//	if err != nil {
//	    return err
//	}
//	page := r.Bytes()[old : old+4096]
//
// # Views
//
// Bytes returns a view of [0, Len()). Growth may replace the view for some
// implementations, so callers re-read Bytes after every Sbrk. Offsets remain
// stable even when the view does not.
//
// # Thread Safety
//
// Regions are not thread-safe. Callers must synchronize access externally.
package arena
