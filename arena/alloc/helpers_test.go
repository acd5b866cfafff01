package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/arena"
)

const (
	// Offsets of a freshly initialized arena with the default chunk size.
	firstBlock   = 8
	firstPayload = Ptr(16)
	initialBrk   = 16 + 4096
)

// newTestAllocator creates an allocator over a Mem region of limit bytes.
func newTestAllocator(t testing.TB, limit int, cfg *Config) *Allocator {
	t.Helper()
	a, err := New(arena.NewMem(limit), cfg)
	require.NoError(t, err)
	return a
}

// requireHeapOK fails the test when any heap invariant is violated.
func requireHeapOK(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.CheckHeap())
}

// mustMalloc allocates size bytes or fails the test.
func mustMalloc(t testing.TB, a *Allocator, size uint64) Ptr {
	t.Helper()
	p, err := a.Malloc(size)
	require.NoError(t, err)
	require.NotEqual(t, Nil, p)
	return p
}

// blocks returns every block in address order.
func blocks(a *Allocator) []Block {
	var out []Block
	a.Walk(func(b Block) bool {
		out = append(out, b)
		return true
	})
	return out
}

// freeOrder returns the free list from head to tail.
func freeOrder(a *Allocator) []int {
	var out []int
	a.FreeBlocks(func(b Block) bool {
		out = append(out, b.Off)
		return true
	})
	return out
}

// fill writes a pattern derived from seed into b.
func fill(b []byte, seed byte) {
	for i := range b {
		b[i] = seed + byte(i*7)
	}
}

// requireFilled verifies the pattern written by fill.
func requireFilled(t testing.TB, b []byte, seed byte) {
	t.Helper()
	for i := range b {
		if b[i] != seed+byte(i*7) {
			require.Failf(t, "pattern mismatch", "byte %d: got %#x want %#x", i, b[i], seed+byte(i*7))
		}
	}
}
