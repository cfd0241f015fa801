//go:build !linux && !freebsd && !darwin

package alloc

// SystemAllocator falls back to heap-backed blocks on platforms without an
// mmap implementation.
type SystemAllocator struct {
	heap GoAllocator
}

func (a SystemAllocator) Allocate(layout Layout) (Block, error) {
	return a.heap.Allocate(layout)
}

func (a SystemAllocator) Deallocate(b Block, layout Layout) {
	a.heap.Deallocate(b, layout)
}

func (a SystemAllocator) GrowInPlace(b Block, old Layout, newSize int) (Block, bool) {
	return a.heap.GrowInPlace(b, old, newSize)
}

func (a SystemAllocator) Reallocate(b Block, old Layout, newSize int) (Block, error) {
	return a.heap.Reallocate(b, old, newSize)
}
