package alloc

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityOverflow indicates a size or capacity computation exceeded
	// the representable or addressable range.
	ErrCapacityOverflow = errors.New("alloc: capacity overflow")

	// ErrBadAlign indicates a layout alignment that is not a power of two.
	ErrBadAlign = errors.New("alloc: alignment must be a power of two")
)

// AllocError reports a request the allocator declined. It carries the layout
// that was requested so callers can surface exact sizing in diagnostics.
type AllocError struct {
	Layout Layout
	Err    error // underlying cause, may be nil
}

func (e *AllocError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("alloc: allocation of %d bytes (align %d) failed: %v",
			e.Layout.Size, e.Layout.Align, e.Err)
	}
	return fmt.Sprintf("alloc: allocation of %d bytes (align %d) failed",
		e.Layout.Size, e.Layout.Align)
}

func (e *AllocError) Unwrap() error { return e.Err }
