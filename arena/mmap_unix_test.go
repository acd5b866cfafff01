//go:build linux || darwin || freebsd

package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_Mapped_CommitsWholePages verifies pages are committed lazily and in
// page units.
func Test_Mapped_CommitsWholePages(t *testing.T) {
	m, err := NewMapped(1 << 20)
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, 0, m.committed)

	_, err = m.Sbrk(1)
	require.NoError(t, err)
	require.Equal(t, m.pageSize, m.committed)

	_, err = m.Sbrk(m.pageSize)
	require.NoError(t, err)
	require.Equal(t, 2*m.pageSize, m.committed)

	// Reset keeps committed pages for reuse.
	require.NoError(t, m.Reset())
	require.Equal(t, 2*m.pageSize, m.committed)
}

func Test_NewMapped_RoundsToPages(t *testing.T) {
	m, err := NewMapped(1000)
	require.NoError(t, err)
	defer m.Close()
	require.Equal(t, m.pageSize, m.Cap())
}
