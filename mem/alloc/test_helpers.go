package alloc

import (
	"errors"
	"sync/atomic"
)

var errBudgetExhausted = errors.New("alloc: allocation budget exhausted")

// FailAfterAllocator declines every request once its budget of successful
// allocations is spent. Test support for exercising allocation-failure paths
// in dependent packages; not intended for production use.
type FailAfterAllocator struct {
	inner  Allocator
	budget atomic.Int64
}

// NewFailAfter wraps inner with a budget of allowed successful Allocate and
// growing Reallocate calls.
func NewFailAfter(inner Allocator, allowed int) *FailAfterAllocator {
	f := &FailAfterAllocator{inner: inner}
	f.budget.Store(int64(allowed))
	return f
}

func (f *FailAfterAllocator) spend() bool {
	return f.budget.Add(-1) >= 0
}

func (f *FailAfterAllocator) Allocate(layout Layout) (Block, error) {
	if !f.spend() {
		return Block{}, &AllocError{Layout: layout, Err: errBudgetExhausted}
	}
	return f.inner.Allocate(layout)
}

func (f *FailAfterAllocator) Deallocate(b Block, layout Layout) {
	f.inner.Deallocate(b, layout)
}

func (f *FailAfterAllocator) GrowInPlace(b Block, old Layout, newSize int) (Block, bool) {
	return f.inner.GrowInPlace(b, old, newSize)
}

func (f *FailAfterAllocator) Reallocate(b Block, old Layout, newSize int) (Block, error) {
	if newSize > old.Size && !f.spend() {
		return Block{}, &AllocError{Layout: Layout{Size: newSize, Align: old.Align}, Err: errBudgetExhausted}
	}
	return f.inner.Reallocate(b, old, newSize)
}
