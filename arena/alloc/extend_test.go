package alloc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/arena"
)

func Test_Init_Layout(t *testing.T) {
	a := newTestAllocator(t, 1<<20, nil)

	require.Equal(t, initialBrk, a.Region().Len())
	require.Equal(t, []Block{{Off: firstBlock, Size: 4096, PrevAlloc: true}}, blocks(a))
	require.Equal(t, []int{firstBlock}, freeOrder(a))

	s := a.Stats()
	require.Equal(t, 1, s.Inits)
	require.Equal(t, 1, s.GrowCalls)
	require.EqualValues(t, 4096, s.GrowBytes)
	requireHeapOK(t, a)
}

// Test_Extend_MergesTrailingFreeBlock verifies new space joins a free block
// that ended at the old epilogue.
func Test_Extend_MergesTrailingFreeBlock(t *testing.T) {
	a := newTestAllocator(t, 1<<20, nil)

	p := mustMalloc(t, a, 5000) // asize 5008 > 4096
	require.Equal(t, firstPayload, p, "grown space merged with the initial block")
	require.Equal(t, initialBrk+5008, a.Region().Len())

	s := a.Stats()
	require.Equal(t, 1, s.SlowPath)
	require.Equal(t, 2, s.GrowCalls)
	require.EqualValues(t, 4096+5008, s.GrowBytes)
	require.Equal(t, 1, s.CoalescePrev)

	sum := a.Summary()
	require.Equal(t, 1, sum.FreeBlocks)
	require.Equal(t, 4096, sum.FreeBytes)
	requireHeapOK(t, a)
}

// Test_Extend_AfterAllocatedBlock verifies growth past an allocated last
// block starts a new free block at the old epilogue.
func Test_Extend_AfterAllocatedBlock(t *testing.T) {
	a := newTestAllocator(t, 1<<20, nil)

	mustMalloc(t, a, 4088) // asize 4096, consumes the whole chunk
	require.Empty(t, freeOrder(a))

	p := mustMalloc(t, a, 100)
	require.Equal(t, Ptr(initialBrk), p, "payload starts right after the old epilogue")
	require.Equal(t, initialBrk+4096, a.Region().Len())
	requireHeapOK(t, a)
}

// Test_Extend_ChunkSize verifies small requests still grow by a full chunk.
func Test_Extend_ChunkSize(t *testing.T) {
	a := newTestAllocator(t, 1<<20, &Config{ChunkSize: 256})
	require.Equal(t, 16+256, a.Region().Len())

	for range 10 {
		mustMalloc(t, a, 40)
	}
	require.Zero(t, a.Region().Len()%16)
	require.Equal(t, 0, (a.Region().Len()-16)%256, "growth happens in whole chunks")
	requireHeapOK(t, a)
}

// Test_Extend_Exhausted verifies a refused growth leaves the arena intact
// and usable.
func Test_Extend_Exhausted(t *testing.T) {
	a := newTestAllocator(t, 8192, nil)
	keep := mustMalloc(t, a, 64)
	fill(a.Bytes(keep), 3)

	p, err := a.Malloc(8000)
	require.Error(t, err)
	require.Equal(t, Nil, p)
	require.True(t, errors.Is(err, ErrNoSpace))
	require.True(t, errors.Is(err, arena.ErrExhausted))

	requireHeapOK(t, a)
	requireFilled(t, a.Bytes(keep), 3)

	q := mustMalloc(t, a, 100)
	require.NotEqual(t, keep, q)
	requireHeapOK(t, a)
}

func Test_Malloc_LargerThanRegion(t *testing.T) {
	a := newTestAllocator(t, 8192, nil)

	_, err := a.Malloc(1 << 40)
	require.ErrorIs(t, err, ErrNoSpace)

	_, err = a.Malloc(^uint64(0))
	require.ErrorIs(t, err, ErrNoSpace)

	require.Equal(t, initialBrk, a.Region().Len())
	requireHeapOK(t, a)
}

// Test_Init_TooSmallRegion verifies New reports a region that cannot hold
// the initial chunk.
func Test_Init_TooSmallRegion(t *testing.T) {
	_, err := New(arena.NewMem(1024), nil)
	require.ErrorIs(t, err, ErrNoSpace)
}
