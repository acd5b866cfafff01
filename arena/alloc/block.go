package alloc

import "github.com/joshuapare/arenakit/internal/format"

// Tag is the decoded form of a header or footer word.
type Tag struct {
	Size      int
	Alloc     bool
	PrevAlloc bool
}

// pack encodes a header or footer word.
func pack(size int, prevAlloc, alloc bool) uint64 {
	w := uint64(size)
	if prevAlloc {
		w |= format.PrevAllocBit
	}
	if alloc {
		w |= format.AllocBit
	}
	return w
}

// unpack decodes a header or footer word.
func unpack(w uint64) Tag {
	return Tag{
		Size:      extractSize(w),
		Alloc:     extractAlloc(w),
		PrevAlloc: extractPrevAlloc(w),
	}
}

// Word re-encodes the tag.
func (t Tag) Word() uint64 {
	return pack(t.Size, t.PrevAlloc, t.Alloc)
}

func extractSize(w uint64) int       { return int(w & format.SizeMask) }
func extractAlloc(w uint64) bool     { return w&format.AllocBit != 0 }
func extractPrevAlloc(w uint64) bool { return w&format.PrevAllocBit != 0 }

// Block addressing. A block is identified by the offset of its header.

func blockToPayload(b int) Ptr { return Ptr(b + format.WordSize) }
func payloadToBlock(p Ptr) int { return int(p) - format.WordSize }

func (a *Allocator) header(b int) uint64 { return format.ReadU64(a.mem, b) }
func (a *Allocator) sizeOf(b int) int    { return extractSize(a.header(b)) }
func (a *Allocator) isAlloc(b int) bool  { return extractAlloc(a.header(b)) }

func (a *Allocator) prevAllocOf(b int) bool {
	return extractPrevAlloc(a.header(b))
}

// usable returns the payload bytes of an allocated block.
func (a *Allocator) usable(b int) int {
	return a.sizeOf(b) - format.WordSize
}

func (a *Allocator) writeHeader(b, size int, prevAlloc, alloc bool) {
	format.PutU64(a.mem, b, pack(size, prevAlloc, alloc))
}

// writeFooter writes the last word of a block that spans size bytes.
// Only free blocks carry a footer.
func (a *Allocator) writeFooter(b, size int, prevAlloc, alloc bool) {
	format.PutU64(a.mem, b+size-format.WordSize, pack(size, prevAlloc, alloc))
}

// next returns the block that follows b in the arena.
func (a *Allocator) next(b int) int {
	return b + a.sizeOf(b)
}

// prevFooter returns the offset of the word preceding b's header.
func prevFooter(b int) int {
	return b - format.WordSize
}

// prev returns the block preceding b. Valid only when b's prev-allocated bit
// is clear, because allocated blocks have no footer.
func (a *Allocator) prev(b int) int {
	return b - extractSize(format.ReadU64(a.mem, prevFooter(b)))
}

// setPrevAlloc updates b's prev-allocated bit, rewriting the footer too
// when b is free so both tags stay identical.
func (a *Allocator) setPrevAlloc(b int, prevAlloc bool) {
	t := unpack(a.header(b))
	a.writeHeader(b, t.Size, prevAlloc, t.Alloc)
	if !t.Alloc {
		a.writeFooter(b, t.Size, prevAlloc, t.Alloc)
	}
}
