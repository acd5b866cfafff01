// Package alloc provides a general-purpose boundary-tag allocator over a
// single growable arena.
//
// # Overview
//
// The allocator hands out 16-byte aligned payloads carved from an
// arena.Region and reclaims them on Free. All bookkeeping lives inside the
// arena bytes themselves: there is no side table. The design follows the
// classic explicit-free-list allocator:
//
//   - Boundary tags: every block starts with a header word holding its size,
//     its allocated bit, and the allocated bit of its predecessor
//   - Free blocks repeat the header in a footer so the next block can find
//     them going backwards; allocated blocks reuse that word as payload
//   - Free blocks are threaded on an explicit doubly-linked list whose links
//     are stored in their own payload
//   - Immediate coalescing: no two free blocks are ever adjacent
//   - First-fit search from the head of the free list
//   - Growth through Region.Sbrk in chunks of at least Config.ChunkSize
//
// # Allocator API
//
//   - Malloc(size): allocate size bytes, Nil for size 0
//   - Free(p): release a payload, no-op for Nil
//   - Realloc(p, size): move a payload to a block of the new size
//   - Calloc(count, size): allocate count*size zeroed bytes
//   - Init(): reset the arena and start over
//
// # Usage Example
//
//	r := arena.NewMem(1 << 20)
//	a, err := alloc.New(r, nil)
//	if err != nil {
//	    return err
//	}
//
//	p, err := a.Malloc(100)
//	if err != nil {
//	    return err
//	}
//	copy(a.Bytes(p), "hello")
//
//	a.Free(p)
//
// # Block Layout
//
//	Allocated block:            Free block:
//	+--------------------+      +--------------------+
//	| header             |      | header             |
//	+--------------------+      +--------------------+ <- payload (16-aligned)
//	| payload            |      | pred link          |
//	|                    |      | succ link          |
//	|                    |      | ...                |
//	|                    |      | footer             |
//	+--------------------+      +--------------------+
//
// The minimum block is 32 bytes. A request of n bytes occupies a block of
// max(roundup(n+8, 16), 32) bytes, leaving size-8 usable payload bytes.
//
// # Free List Order
//
// A block released by Free that merges with nothing is pushed at the head of
// the free list and is the first candidate for the next request. Merged
// blocks, split remainders, and freshly grown space are appended at the
// tail, so newly acquired arena space is tried last. Config.Placement can
// force all insertions to one end (PlaceTail, PlaceHead).
//
// # Addresses
//
// A Ptr is the arena offset of a payload. Bytes(p) returns the payload as a
// slice of the region's current view; the slice is valid until the next
// operation that may grow the arena.
//
// # Thread Safety
//
// Allocator instances are not thread-safe and not re-entrant. Callers must
// serialize every call externally.
package alloc
