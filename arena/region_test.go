package arena

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// openAll returns one region of every kind, closed at test cleanup.
func openAll(t *testing.T, limit int) map[Kind]Region {
	t.Helper()
	regions := make(map[Kind]Region)
	for _, k := range Kinds() {
		r, err := Open(context.Background(), k, limit)
		require.NoError(t, err, "open %s", k)
		t.Cleanup(func() { _ = r.Close() })
		regions[k] = r
	}
	return regions
}

// Test_Region_SbrkReturnsOldBreak verifies the sbrk contract on every backend.
func Test_Region_SbrkReturnsOldBreak(t *testing.T) {
	for kind, r := range openAll(t, 256<<10) {
		t.Run(string(kind), func(t *testing.T) {
			require.Equal(t, 0, r.Len())

			old, err := r.Sbrk(16)
			require.NoError(t, err)
			require.Equal(t, 0, old)
			require.Equal(t, 16, r.Len())
			require.Len(t, r.Bytes(), 16)

			old, err = r.Sbrk(4096)
			require.NoError(t, err)
			require.Equal(t, 16, old)
			require.Equal(t, 16+4096, r.Len())

			old, err = r.Sbrk(0)
			require.NoError(t, err)
			require.Equal(t, 16+4096, old)
		})
	}
}

// Test_Region_ContentsSurviveGrowth verifies growth never relocates data.
func Test_Region_ContentsSurviveGrowth(t *testing.T) {
	for kind, r := range openAll(t, 256<<10) {
		t.Run(string(kind), func(t *testing.T) {
			_, err := r.Sbrk(100)
			require.NoError(t, err)
			for i := range 100 {
				r.Bytes()[i] = byte(i)
			}

			// Cross at least one page boundary of every backend.
			_, err = r.Sbrk(128 << 10)
			require.NoError(t, err)

			data := r.Bytes()
			for i := range 100 {
				require.Equal(t, byte(i), data[i], "byte %d moved", i)
			}
			// New space is writable up to the break.
			data[len(data)-1] = 0xAB
			require.Equal(t, byte(0xAB), r.Bytes()[r.Len()-1])
		})
	}
}

// Test_Region_Exhausted verifies refused growth leaves the region unchanged.
func Test_Region_Exhausted(t *testing.T) {
	for kind, r := range openAll(t, 128<<10) {
		t.Run(string(kind), func(t *testing.T) {
			_, err := r.Sbrk(64)
			require.NoError(t, err)

			_, err = r.Sbrk(r.Cap())
			require.ErrorIs(t, err, ErrExhausted)
			require.Equal(t, 64, r.Len())

			_, err = r.Sbrk(-1)
			require.ErrorIs(t, err, ErrNegative)
			require.Equal(t, 64, r.Len())

			// The remaining capacity is still usable.
			_, err = r.Sbrk(r.Cap() - 64)
			require.NoError(t, err)
			require.Equal(t, r.Cap(), r.Len())
		})
	}
}

// Test_Region_Reset verifies Reset moves the break back to zero.
func Test_Region_Reset(t *testing.T) {
	for kind, r := range openAll(t, 128<<10) {
		t.Run(string(kind), func(t *testing.T) {
			_, err := r.Sbrk(8192)
			require.NoError(t, err)
			require.NoError(t, r.Reset())
			require.Equal(t, 0, r.Len())
			require.Empty(t, r.Bytes())

			old, err := r.Sbrk(32)
			require.NoError(t, err)
			require.Equal(t, 0, old)
		})
	}
}

// Test_Region_Closed verifies growth after Close is rejected.
func Test_Region_Closed(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(string(k), func(t *testing.T) {
			r, err := Open(context.Background(), k, 64<<10)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			require.NoError(t, r.Close(), "second Close is a no-op")

			_, err = r.Sbrk(16)
			require.ErrorIs(t, err, ErrClosed)
		})
	}
}

func Test_ParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		require.Equal(t, k, got)
	}

	_, err := ParseKind("sbrk")
	require.True(t, errors.Is(err, ErrUnknownKind))

	_, err = Open(context.Background(), Kind("sbrk"), 0)
	require.ErrorIs(t, err, ErrUnknownKind)
}
