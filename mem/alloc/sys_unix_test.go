//go:build linux || freebsd || darwin

package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystemAllocator_RoundTrip(t *testing.T) {
	var a SystemAllocator
	layout := Layout{Size: 4096, Align: 8}

	b, err := a.Allocate(layout)
	require.NoError(t, err)
	require.GreaterOrEqual(t, b.Size(), layout.Size)
	require.Zero(t, b.Addr()%uintptr(layout.Align))

	buf := b.Bytes()
	buf[0] = 0xAB
	buf[layout.Size-1] = 0xCD
	require.Equal(t, byte(0xAB), buf[0])
	require.Equal(t, byte(0xCD), buf[layout.Size-1])

	a.Deallocate(b, layout)
}

func TestSystemAllocator_ReallocatePreservesBytes(t *testing.T) {
	var a SystemAllocator
	layout := Layout{Size: 4096, Align: 8}

	b, err := a.Allocate(layout)
	require.NoError(t, err)
	for i := 0; i < 64; i++ {
		b.Bytes()[i] = byte(i)
	}

	nb, err := a.Reallocate(b, layout, 8192)
	require.NoError(t, err)
	require.GreaterOrEqual(t, nb.Size(), 8192)
	for i := 0; i < 64; i++ {
		require.Equal(t, byte(i), nb.Bytes()[i])
	}

	a.Deallocate(nb, Layout{Size: nb.Size(), Align: 8})
}

func TestSystemAllocator_RejectsOversizedAlign(t *testing.T) {
	var a SystemAllocator
	_, err := a.Allocate(Layout{Size: 64, Align: 1 << 22})
	var ae *AllocError
	require.ErrorAs(t, err, &ae)
}
