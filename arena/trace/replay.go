package trace

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/joshuapare/arenakit/arena/alloc"
	"github.com/joshuapare/arenakit/internal/buf"
	"github.com/joshuapare/arenakit/internal/format"
)

// Options controls a replay.
type Options struct {
	// CheckHeap runs Allocator.CheckHeap after every operation.
	CheckHeap bool

	// Limit stops the replay after this many operations. Zero replays all.
	Limit int

	// Logger receives a debug record per failed check. Nil discards.
	Logger *slog.Logger
}

// Result summarizes a replay.
type Result struct {
	Name        string
	Ops         int // Operations executed
	Allocs      int
	Reallocs    int
	Frees       int
	PeakPayload uint64 // Largest total of live requested bytes
	ArenaBytes  int    // Region break after the replay
	Utilization float64
	Summary     alloc.Summary
	Stats       alloc.Stats // Counters accumulated by this replay
}

// span is the payload interval [lo, hi) bound to an id.
type span struct {
	lo, hi uint64
	id     int
}

// replayer holds per-replay state.
type replayer struct {
	a     *alloc.Allocator
	ptrs  []alloc.Ptr
	sizes []uint64
	spans []span // live non-empty payloads sorted by lo
	live  uint64
	peak  uint64
}

// Replay reinitializes a and executes t against it. Every payload is checked
// for alignment, containment in the arena, and overlap with other live
// payloads, then filled with a byte derived from its id; the fill is
// verified before the payload is freed and after it is reallocated.
// Cancellation of ctx is observed between operations.
func Replay(ctx context.Context, a *alloc.Allocator, t *Trace, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if t.NumIDs < 0 || t.NumIDs > MaxIDs {
		return nil, fmt.Errorf("%w: id count %d outside [0, %d]", ErrCount, t.NumIDs, MaxIDs)
	}
	before := a.Stats()
	if err := a.Init(); err != nil {
		return nil, fmt.Errorf("trace: init allocator: %w", err)
	}

	rp := &replayer{
		a:     a,
		ptrs:  make([]alloc.Ptr, t.NumIDs),
		sizes: make([]uint64, t.NumIDs),
	}
	res := &Result{Name: t.Name}

	ops := t.Ops
	if opts.Limit > 0 && opts.Limit < len(ops) {
		ops = ops[:opts.Limit]
	}
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var err error
		switch op.Kind {
		case OpAlloc:
			res.Allocs++
			err = rp.alloc(op)
		case OpRealloc:
			res.Reallocs++
			err = rp.realloc(op)
		case OpFree:
			res.Frees++
			err = rp.free(op)
		default:
			err = fmt.Errorf("%w: unknown operation %s", ErrSyntax, op.Kind)
		}
		if err == nil && opts.CheckHeap {
			err = a.CheckHeap()
		}
		if err != nil {
			log.Debug("replay failed", "trace", t.Name, "op", i, "line", op.Line, "err", err)
			return nil, &OpError{Index: i, Op: op, Err: err}
		}
		res.Ops++
	}

	res.PeakPayload = rp.peak
	res.ArenaBytes = a.Region().Len()
	if res.ArenaBytes > 0 {
		res.Utilization = float64(rp.peak) / float64(res.ArenaBytes)
	}
	res.Summary = a.Summary()
	res.Stats = a.Stats().Sub(before)
	return res, nil
}

func (rp *replayer) alloc(op Op) error {
	p, err := rp.a.Malloc(op.Size)
	if err != nil {
		return err
	}
	return rp.bind(op.ID, p, op.Size)
}

func (rp *replayer) realloc(op Op) error {
	old, oldSize := rp.ptrs[op.ID], rp.sizes[op.ID]
	if err := rp.verify(op.ID); err != nil {
		return err
	}

	p, err := rp.a.Realloc(old, op.Size)
	if err != nil {
		return err
	}
	rp.unbind(op.ID)

	keep := min(oldSize, op.Size)
	if keep > 0 && !filled(rp.a.Bytes(p)[:keep], op.ID) {
		return fmt.Errorf("%w: realloc of id %d lost its first %d bytes", ErrCorrupted, op.ID, keep)
	}
	return rp.bind(op.ID, p, op.Size)
}

func (rp *replayer) free(op Op) error {
	if err := rp.verify(op.ID); err != nil {
		return err
	}
	p := rp.ptrs[op.ID]
	rp.unbind(op.ID)
	rp.a.Free(p)
	return nil
}

// bind validates p and records it as the payload of id.
func (rp *replayer) bind(id int, p alloc.Ptr, size uint64) error {
	rp.ptrs[id], rp.sizes[id] = p, size
	rp.live += size
	rp.peak = max(rp.peak, rp.live)
	if p == alloc.Nil || size == 0 {
		return nil
	}

	if !format.IsAligned(int(p)) {
		return fmt.Errorf("%w: id %d at %#x", ErrMisaligned, id, uint64(p))
	}
	hi, ok := buf.AddU64(uint64(p), size)
	if !ok || !buf.Within(rp.a.Region().Bytes(), int(p), size) {
		return fmt.Errorf("%w: id %d at [%#x, %#x) with break %#x",
			ErrOutOfBounds, id, uint64(p), hi, rp.a.Region().Len())
	}

	s := span{lo: uint64(p), hi: hi, id: id}
	i, _ := slices.BinarySearchFunc(rp.spans, s.lo, func(e span, lo uint64) int {
		return cmp.Compare(e.lo, lo)
	})
	if i > 0 && rp.spans[i-1].hi > s.lo {
		return fmt.Errorf("%w: id %d at [%#x, %#x) overlaps id %d at [%#x, %#x)",
			ErrOverlap, id, s.lo, s.hi, rp.spans[i-1].id, rp.spans[i-1].lo, rp.spans[i-1].hi)
	}
	if i < len(rp.spans) && rp.spans[i].lo < s.hi {
		return fmt.Errorf("%w: id %d at [%#x, %#x) overlaps id %d at [%#x, %#x)",
			ErrOverlap, id, s.lo, s.hi, rp.spans[i].id, rp.spans[i].lo, rp.spans[i].hi)
	}
	rp.spans = slices.Insert(rp.spans, i, s)

	fill(rp.a.Bytes(p)[:size], id)
	return nil
}

// unbind forgets the payload of id.
func (rp *replayer) unbind(id int) {
	p, size := rp.ptrs[id], rp.sizes[id]
	rp.live -= size
	rp.ptrs[id], rp.sizes[id] = alloc.Nil, 0
	if p == alloc.Nil || size == 0 {
		return
	}
	i, found := slices.BinarySearchFunc(rp.spans, uint64(p), func(e span, lo uint64) int {
		return cmp.Compare(e.lo, lo)
	})
	if found {
		rp.spans = slices.Delete(rp.spans, i, i+1)
	}
}

// verify checks that the payload of id still holds its fill byte.
func (rp *replayer) verify(id int) error {
	p, size := rp.ptrs[id], rp.sizes[id]
	if p == alloc.Nil || size == 0 {
		return nil
	}
	if !filled(rp.a.Bytes(p)[:size], id) {
		return fmt.Errorf("%w: id %d at %#x", ErrCorrupted, id, uint64(p))
	}
	return nil
}

// pattern is the fill byte of id.
func pattern(id int) byte {
	return byte(id) ^ 0x5a
}

func fill(b []byte, id int) {
	v := pattern(id)
	for i := range b {
		b[i] = v
	}
}

func filled(b []byte, id int) bool {
	v := pattern(id)
	for _, c := range b {
		if c != v {
			return false
		}
	}
	return true
}
