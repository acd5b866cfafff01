package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_Place_Split verifies a remainder of at least MinBlockSize becomes a
// free block that the following allocated block sees as free.
func Test_Place_Split(t *testing.T) {
	a := newTestAllocator(t, 1<<20, nil)
	p := mustMalloc(t, a, 200) // block 8, size 208
	mustMalloc(t, a, 8)        // guard at 216
	a.Free(p)

	splits := a.Stats().Splits
	q := mustMalloc(t, a, 100) // asize 112 leaves 96 bytes
	require.Equal(t, p, q)
	require.Equal(t, splits+1, a.Stats().Splits)
	require.EqualValues(t, 104, a.UsableSize(q))

	bs := blocks(a)
	require.Equal(t, Block{Off: 8, Size: 112, Alloc: true, PrevAlloc: true}, bs[0])
	require.Equal(t, Block{Off: 120, Size: 96, Alloc: false, PrevAlloc: true}, bs[1])
	require.Equal(t, Block{Off: 216, Size: 32, Alloc: true, PrevAlloc: false}, bs[2])
	requireHeapOK(t, a)
}

// Test_Place_SmallRemainderAbsorbed verifies a remainder below MinBlockSize
// stays inside the allocation.
func Test_Place_SmallRemainderAbsorbed(t *testing.T) {
	a := newTestAllocator(t, 1<<20, nil)
	mustMalloc(t, a, 32)
	pb := mustMalloc(t, a, 32) // block 56, size 48
	pc := mustMalloc(t, a, 32)
	a.Free(pb)

	splits := a.Stats().Splits
	q := mustMalloc(t, a, 24) // asize 32, remainder 16
	require.Equal(t, pb, q)
	require.Equal(t, splits, a.Stats().Splits)
	require.EqualValues(t, 40, a.UsableSize(q), "whole block handed out")
	require.True(t, a.prevAllocOf(payloadToBlock(pc)))
	requireHeapOK(t, a)
}

func Test_Place_ExactFit(t *testing.T) {
	a := newTestAllocator(t, 1<<20, nil)
	mustMalloc(t, a, 32)
	pb := mustMalloc(t, a, 32)
	mustMalloc(t, a, 32)
	a.Free(pb)

	q := mustMalloc(t, a, 40) // asize 48
	require.Equal(t, pb, q)
	require.Equal(t, []int{152}, freeOrder(a))
	requireHeapOK(t, a)
}

// Test_Place_MinimumBlock verifies requests of 1 to 24 bytes share the
// minimum block size.
func Test_Place_MinimumBlock(t *testing.T) {
	a := newTestAllocator(t, 1<<20, nil)
	for size := uint64(1); size <= 24; size++ {
		p := mustMalloc(t, a, size)
		require.EqualValues(t, 24, a.UsableSize(p), "size %d", size)
	}
	p := mustMalloc(t, a, 25)
	require.EqualValues(t, 40, a.UsableSize(p))
}
