package alloc

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// Runtime flag for allocation tracing - controlled by MEMKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("MEMKIT_LOG_ALLOC") != ""

// CountingAllocator wraps another Allocator and tracks live blocks and bytes.
// It is the leak-check collaborator used throughout memkit's tests: after a
// component releases everything it owns, LiveBlocks and LiveBytes return to
// their pre-test baseline.
//
// With MEMKIT_LOG_ALLOC set, every call is traced through log/slog at debug
// level.
type CountingAllocator struct {
	inner Allocator

	liveBlocks  atomic.Int64
	liveBytes   atomic.Int64
	totalAllocs atomic.Int64
	totalBytes  atomic.Int64
}

// NewCounting wraps inner with allocation accounting.
func NewCounting(inner Allocator) *CountingAllocator {
	return &CountingAllocator{inner: inner}
}

// LiveBlocks returns the number of blocks currently outstanding.
func (c *CountingAllocator) LiveBlocks() int { return int(c.liveBlocks.Load()) }

// LiveBytes returns the bytes currently outstanding.
func (c *CountingAllocator) LiveBytes() int { return int(c.liveBytes.Load()) }

// TotalAllocs returns the cumulative number of Allocate calls that succeeded.
func (c *CountingAllocator) TotalAllocs() int { return int(c.totalAllocs.Load()) }

// TotalBytes returns the cumulative bytes handed out by Allocate and by the
// growth portion of GrowInPlace/Reallocate.
func (c *CountingAllocator) TotalBytes() int { return int(c.totalBytes.Load()) }

func (c *CountingAllocator) Allocate(layout Layout) (Block, error) {
	b, err := c.inner.Allocate(layout)
	if err != nil {
		return Block{}, err
	}
	c.liveBlocks.Add(1)
	c.liveBytes.Add(int64(layout.Size))
	c.totalAllocs.Add(1)
	c.totalBytes.Add(int64(layout.Size))
	if logAlloc {
		slog.Debug("alloc", "size", layout.Size, "align", layout.Align, "addr", b.Addr())
	}
	return b, nil
}

func (c *CountingAllocator) Deallocate(b Block, layout Layout) {
	c.inner.Deallocate(b, layout)
	c.liveBlocks.Add(-1)
	c.liveBytes.Add(int64(-layout.Size))
	if logAlloc {
		slog.Debug("dealloc", "size", layout.Size, "addr", b.Addr())
	}
}

func (c *CountingAllocator) GrowInPlace(b Block, old Layout, newSize int) (Block, bool) {
	nb, ok := c.inner.GrowInPlace(b, old, newSize)
	if ok {
		c.liveBytes.Add(int64(newSize - old.Size))
		c.totalBytes.Add(int64(newSize - old.Size))
		if logAlloc {
			slog.Debug("grow-in-place", "old", old.Size, "new", newSize, "addr", b.Addr())
		}
	}
	return nb, ok
}

func (c *CountingAllocator) Reallocate(b Block, old Layout, newSize int) (Block, error) {
	nb, err := c.inner.Reallocate(b, old, newSize)
	if err != nil {
		return Block{}, err
	}
	c.liveBytes.Add(int64(newSize - old.Size))
	if newSize > old.Size {
		c.totalBytes.Add(int64(newSize - old.Size))
	}
	if logAlloc {
		slog.Debug("realloc", "old", old.Size, "new", newSize, "addr", nb.Addr())
	}
	return nb, nil
}
