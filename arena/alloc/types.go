package alloc

import "github.com/joshuapare/arenakit/internal/format"

// Ptr is the arena offset of a payload handed to a client.
type Ptr uint64

// Nil is the null Ptr. Offset 0 holds the prologue, so no payload lives there.
const Nil Ptr = 0

// Block describes one block of the arena as seen by Walk and FreeBlocks.
type Block struct {
	Off       int  `json:"off"`        // Arena offset of the header
	Size      int  `json:"size"`       // Total size including header (and footer when free)
	Alloc     bool `json:"alloc"`      // Block is owned by a client
	PrevAlloc bool `json:"prev_alloc"` // Preceding block is allocated
}

// Payload returns the client address of the block.
func (b Block) Payload() Ptr {
	return blockToPayload(b.Off)
}

// End returns the offset one past the last byte of the block.
func (b Block) End() int {
	return b.Off + b.Size
}

// Usable returns the number of payload bytes a client may use.
func (b Block) Usable() int {
	return b.Size - format.WordSize
}
