package arena

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

const (
	// WasmPageSize is the WebAssembly linear memory page size.
	WasmPageSize = 64 << 10

	// maxWasmPages keeps the byte size of a memory representable in uint32.
	maxWasmPages = 65535
)

// Wasm is a Region backed by the linear memory of a memory-only WebAssembly
// module. Offsets are linear-memory addresses, so they stay valid across
// memory.grow even when the host-side view is replaced.
type Wasm struct {
	rt   wazero.Runtime
	mem  api.Memory
	view []byte // host view of the whole memory, refreshed after grow
	brk  int
	max  int
}

// NewWasm instantiates a module whose single exported memory can grow to
// limit bytes (rounded up to whole pages). A non-positive limit selects
// DefaultMaxSize.
func NewWasm(ctx context.Context, limit int) (*Wasm, error) {
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	pages := (limit + WasmPageSize - 1) / WasmPageSize
	if pages > maxWasmPages {
		return nil, fmt.Errorf("%w: %d bytes exceeds wasm32 memory", ErrExhausted, limit)
	}

	config := wazero.NewRuntimeConfig().
		WithMemoryLimitPages(uint32(pages)).
		WithMemoryCapacityFromMax(true)
	rt := wazero.NewRuntimeWithConfig(ctx, config)

	mod, err := rt.Instantiate(ctx, memoryModule(uint32(pages)))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("arena: instantiate wasm memory: %w", err)
	}
	mem := mod.Memory()
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("arena: wasm module exports no memory")
	}

	w := &Wasm{rt: rt, mem: mem, max: pages * WasmPageSize}
	w.refresh()
	return w, nil
}

// Sbrk implements Region.
func (w *Wasm) Sbrk(incr int) (int, error) {
	if w.mem == nil {
		return 0, ErrClosed
	}
	old := w.brk
	if err := checkGrow(old, incr, w.max); err != nil {
		return 0, err
	}
	need := old + incr
	if size := int(w.mem.Size()); need > size {
		delta := (need - size + WasmPageSize - 1) / WasmPageSize
		if _, ok := w.mem.Grow(uint32(delta)); !ok {
			return 0, fmt.Errorf("%w: memory.grow(%d) refused", ErrExhausted, delta)
		}
		if !w.refresh() || len(w.view) < need {
			return 0, fmt.Errorf("%w: host view of grown memory unavailable", ErrExhausted)
		}
	}
	w.brk = need
	return old, nil
}

// refresh re-reads the host view of the whole linear memory. On failure the
// previous view is kept.
func (w *Wasm) refresh() bool {
	view, ok := w.mem.Read(0, w.mem.Size())
	if ok {
		w.view = view
	}
	return ok
}

// Bytes implements Region.
func (w *Wasm) Bytes() []byte {
	if w.mem == nil {
		return nil
	}
	return w.view[:w.brk]
}

// Len implements Region.
func (w *Wasm) Len() int { return w.brk }

// Cap implements Region.
func (w *Wasm) Cap() int { return w.max }

// Reset implements Region. Linear memory cannot shrink; pages are reused.
func (w *Wasm) Reset() error {
	if w.mem == nil {
		return ErrClosed
	}
	w.brk = 0
	return nil
}

// Close implements Region.
func (w *Wasm) Close() error {
	if w.rt == nil {
		return nil
	}
	err := w.rt.Close(context.Background())
	w.rt, w.mem, w.view = nil, nil, nil
	w.brk = 0
	return err
}

// memoryModule encodes a module with one memory (min 0, max maxPages pages)
// exported as "memory" and nothing else.
//
// Layout:
//
//	\0asm 01000000          magic, version 1
//	05 <len> 01 01 00 <max> memory section: one memory, limits {min 0, max}
//	07 <len> 01 06 "memory" 02 00
//	                        export section: memory index 0
func memoryModule(maxPages uint32) []byte {
	limits := append([]byte{0x01, 0x01, 0x00}, uleb128(maxPages)...)
	name := []byte("memory")
	export := append([]byte{0x01, byte(len(name))}, name...)
	export = append(export, 0x02, 0x00)

	bin := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	bin = append(bin, 0x05)
	bin = append(bin, uleb128(uint32(len(limits)))...)
	bin = append(bin, limits...)
	bin = append(bin, 0x07)
	bin = append(bin, uleb128(uint32(len(export)))...)
	bin = append(bin, export...)
	return bin
}

// uleb128 encodes v as unsigned LEB128.
func uleb128(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}
