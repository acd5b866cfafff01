// Package format houses the low-level word layout of an arena: the size of
// a header word, the alignment unit, and the bit assignment inside header and
// footer words. Higher-level packages decode words through these helpers and
// never touch arena bytes directly.
package format

const (
	// WordSize is the size of a header, footer, or free-list link word.
	WordSize = 8

	// DWordSize is the double-word size and the alignment unit of every
	// payload returned to clients.
	DWordSize = 2 * WordSize

	// Alignment is the fixed allocator alignment.
	Alignment = DWordSize

	// AlignmentMask masks the sub-alignment bits of an offset or size.
	AlignmentMask = Alignment - 1

	// MinBlockSize is the smallest legal block: header, two link words and
	// a footer, so any block can hold the free-list node when released.
	MinBlockSize = 2 * DWordSize

	// DefaultChunkSize is the minimum amount the arena grows by.
	DefaultChunkSize = 1 << 12
)

// Header/footer word layout:
//
//	Bits    Description
//	0       allocated
//	1       previous block allocated
//	2-3     reserved, always zero
//	4-63    block size (multiple of Alignment, so the low bits are free)
const (
	// AllocBit marks the block itself as allocated.
	AllocBit uint64 = 0x1

	// PrevAllocBit mirrors the allocated bit of the preceding block.
	PrevAllocBit uint64 = 0x2

	// SizeMask extracts the size from a header or footer word.
	SizeMask = ^uint64(AlignmentMask)
)

// Arena layout after initialization:
//
//	Offset  Size  Description
//	0x00    8     Prologue footer, pack(0, prev=1, alloc=1)
//	0x08    8     First block header (the epilogue until the first growth)
//	0x10    ...   First payload, 16-byte aligned
const (
	// PrologueOffset is the offset of the prologue footer.
	PrologueOffset = 0

	// FirstBlockOffset is the offset of the first block header.
	FirstBlockOffset = WordSize

	// InitialSize is the number of bytes acquired before the first growth.
	InitialSize = 2 * WordSize
)

// Free block layout (offsets relative to the block header):
//
//	Offset      Size  Description
//	0x00        8     Header
//	0x08        8     Predecessor link (arena offset, 0 = none)
//	0x10        8     Successor link (arena offset, 0 = none)
//	...
//	size-0x08   8     Footer, identical to the header
const (
	// PredOffset is the predecessor link position inside a free block.
	PredOffset = WordSize

	// SuccOffset is the successor link position inside a free block.
	SuccOffset = 2 * WordSize
)
