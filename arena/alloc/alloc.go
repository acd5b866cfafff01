package alloc

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/arenakit/arena"
	"github.com/joshuapare/arenakit/internal/buf"
	"github.com/joshuapare/arenakit/internal/format"
)

// Allocator is an explicit-free-list allocator over one arena.Region.
// Multiple allocators may coexist as long as each owns its own region.
type Allocator struct {
	r   arena.Region
	mem []byte // region view, refreshed after every growth
	cfg Config
	log *slog.Logger

	heapStart int // offset of the first block header, 0 until Init succeeds
	head      int // first free block, 0 when the list is empty
	tail      int // last free block

	stats Stats
}

// New creates an allocator over r and initializes the arena.
//
// Parameters:
//   - r: The region to allocate from. The allocator resets it.
//   - cfg: Tuning (use nil for DefaultConfig)
func New(r arena.Region, cfg *Config) (*Allocator, error) {
	if r == nil {
		return nil, ErrNilRegion
	}
	if cfg == nil {
		cfg = &DefaultConfig
	}
	c := cfg.withDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	a := &Allocator{
		r:   r,
		cfg: c,
		log: c.Logger,
	}
	if err := a.Init(); err != nil {
		return nil, err
	}
	return a, nil
}

// Init resets the region and all allocator state, then acquires the initial
// chunk. Every outstanding Ptr becomes invalid.
func (a *Allocator) Init() error {
	a.heapStart, a.head, a.tail = 0, 0, 0
	a.stats.Inits++

	if err := a.r.Reset(); err != nil {
		return fmt.Errorf("alloc: reset region: %w", err)
	}
	old, err := a.r.Sbrk(format.InitialSize)
	if err != nil {
		return fmt.Errorf("%w: initial arena: %w", ErrNoSpace, err)
	}
	a.mem = a.r.Bytes()

	format.PutU64(a.mem, old+format.PrologueOffset, pack(0, true, true))
	format.PutU64(a.mem, old+format.FirstBlockOffset, pack(0, true, true)) // epilogue
	start := old + format.FirstBlockOffset

	if _, err := a.extend(a.cfg.ChunkSize); err != nil {
		return err
	}
	a.heapStart = start

	a.log.Debug("arena initialized", "chunk", a.cfg.ChunkSize, "brk", a.r.Len())
	return nil
}

// Malloc allocates size bytes and returns their 16-byte aligned address.
// A zero size returns Nil without touching the arena. ErrNoSpace means the
// region could not grow; the allocator remains usable.
func (a *Allocator) Malloc(size uint64) (Ptr, error) {
	a.stats.MallocCalls++
	if size == 0 {
		return Nil, nil
	}
	p, err := a.malloc(size)
	a.checkAfter("malloc")
	return p, err
}

// Free releases the block at p. Freeing Nil is a no-op. Freeing anything
// that did not come from this allocator, or freeing twice, is undefined.
func (a *Allocator) Free(p Ptr) {
	a.stats.FreeCalls++
	if p == Nil {
		return
	}
	a.free(p)
	a.checkAfter("free")
}

// Realloc moves the payload at p to a block of size bytes, copying the
// common prefix. A zero size frees p and returns Nil; a Nil p behaves as
// Malloc. On failure p is left intact.
func (a *Allocator) Realloc(p Ptr, size uint64) (Ptr, error) {
	a.stats.ReallocCalls++
	if size == 0 {
		if p != Nil {
			a.free(p)
			a.checkAfter("realloc")
		}
		return Nil, nil
	}
	if p == Nil {
		np, err := a.malloc(size)
		a.checkAfter("realloc")
		return np, err
	}

	np, err := a.malloc(size)
	if err != nil {
		return Nil, err
	}
	n := a.usable(payloadToBlock(p))
	if size < uint64(n) {
		n = int(size)
	}
	copy(a.mem[int(np):int(np)+n], a.mem[int(p):int(p)+n])
	a.free(p)

	a.checkAfter("realloc")
	return np, nil
}

// Calloc allocates count*size bytes and zeroes the whole payload.
// ErrOverflow is returned before any allocation when the product does not
// fit in 64 bits. A zero product returns Nil.
func (a *Allocator) Calloc(count, size uint64) (Ptr, error) {
	a.stats.CallocCalls++
	total, ok := buf.MulOverflowSafe(count, size)
	if !ok {
		return Nil, fmt.Errorf("%w: %d * %d", ErrOverflow, count, size)
	}
	if total == 0 {
		return Nil, nil
	}

	p, err := a.malloc(total)
	if err != nil {
		return Nil, err
	}
	clear(a.Bytes(p))

	a.checkAfter("calloc")
	return p, nil
}

// Bytes returns the usable payload of p. The slice aliases the arena and is
// valid until the next call that may grow it. Bytes(Nil) is nil.
func (a *Allocator) Bytes(p Ptr) []byte {
	if p == Nil {
		return nil
	}
	b, _ := buf.Range(a.mem, int(p), uint64(a.usable(payloadToBlock(p))))
	return b
}

// UsableSize returns the number of bytes a client may use at p.
func (a *Allocator) UsableSize(p Ptr) uint64 {
	if p == Nil {
		return 0
	}
	return uint64(a.usable(payloadToBlock(p)))
}

// Region returns the region the allocator manages.
func (a *Allocator) Region() arena.Region {
	return a.r
}

// Config returns the effective configuration.
func (a *Allocator) Config() Config {
	return a.cfg
}

// malloc is Malloc without call accounting, shared by Realloc and Calloc.
func (a *Allocator) malloc(size uint64) (Ptr, error) {
	if a.heapStart == 0 {
		// A previous Init failed; retry before serving the request.
		if err := a.Init(); err != nil {
			return Nil, err
		}
	}
	// Anything larger than the whole region can never fit; rejecting it here
	// also keeps the size arithmetic below from overflowing.
	if size > uint64(a.r.Cap()) {
		return Nil, fmt.Errorf("%w: request of %d bytes exceeds region capacity %d",
			ErrNoSpace, size, a.r.Cap())
	}

	asize := max(format.Align16(int(size)+format.WordSize), format.MinBlockSize)

	b := a.findFit(asize)
	if b == 0 {
		grown, err := a.extend(max(asize, a.cfg.ChunkSize))
		if err != nil {
			return Nil, err
		}
		a.stats.SlowPath++
		b = grown
	} else {
		a.stats.FastPath++
	}

	a.place(b, asize)
	return blockToPayload(b), nil
}

// free is Free without call accounting.
func (a *Allocator) free(p Ptr) {
	b := payloadToBlock(p)
	size := a.sizeOf(b)
	prevAlloc := a.prevAllocOf(b)
	a.stats.BytesFreed += int64(size)

	a.writeHeader(b, size, prevAlloc, false)
	a.writeFooter(b, size, prevAlloc, false)
	a.setPrevAlloc(a.next(b), false)

	a.coalesce(b, true)
}

// checkAfter runs CheckHeap when Config.CheckEveryOp is set.
func (a *Allocator) checkAfter(op string) {
	if !a.cfg.CheckEveryOp {
		return
	}
	if err := a.CheckHeap(); err != nil {
		a.stats.CheckFailures++
		a.log.Error("heap check failed", "op", op, "err", err)
	}
}
