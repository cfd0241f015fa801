package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounting_BaselineAfterRelease(t *testing.T) {
	c := NewCounting(GoAllocator{})
	layout := Layout{Size: 256, Align: 8}

	b1, err := c.Allocate(layout)
	require.NoError(t, err)
	b2, err := c.Allocate(layout)
	require.NoError(t, err)

	require.Equal(t, 2, c.LiveBlocks())
	require.Equal(t, 512, c.LiveBytes())

	c.Deallocate(b1, layout)
	c.Deallocate(b2, layout)

	require.Equal(t, 0, c.LiveBlocks())
	require.Equal(t, 0, c.LiveBytes())
	require.Equal(t, 2, c.TotalAllocs())
	require.Equal(t, 512, c.TotalBytes())
}

func TestCounting_ReallocateAdjustsLiveBytes(t *testing.T) {
	c := NewCounting(GoAllocator{})
	layout := Layout{Size: 100, Align: 8}

	b, err := c.Allocate(layout)
	require.NoError(t, err)

	b, err = c.Reallocate(b, layout, 300)
	require.NoError(t, err)
	require.Equal(t, 300, c.LiveBytes())
	require.Equal(t, 1, c.LiveBlocks())

	c.Deallocate(b, Layout{Size: 300, Align: 8})
	require.Equal(t, 0, c.LiveBytes())
}

func TestCounting_FailedAllocateNotCounted(t *testing.T) {
	c := NewCounting(NewFailAfter(GoAllocator{}, 0))

	_, err := c.Allocate(Layout{Size: 64, Align: 8})
	var ae *AllocError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 64, ae.Layout.Size)
	require.Equal(t, 0, c.LiveBlocks())
	require.Equal(t, 0, c.TotalAllocs())
}
