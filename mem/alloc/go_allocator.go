package alloc

import "unsafe"

// GoAllocator issues heap-backed blocks with explicit alignment. Alignment is
// achieved by over-allocating by Align bytes and shifting the block start to
// the next aligned address; the unused tail is kept as slack that GrowInPlace
// may later claim.
//
// Deallocate is a no-op: the garbage collector reclaims the backing array
// once no Block handle (or slice derived from one) remains reachable.
//
// The zero value is ready to use and safe for concurrent use.
type GoAllocator struct{}

func (GoAllocator) Allocate(layout Layout) (Block, error) {
	total, ok := CheckedAdd(layout.Size, layout.Align)
	if !ok {
		return Block{}, &AllocError{Layout: layout, Err: ErrCapacityOverflow}
	}
	buf := make([]byte, total)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	align := uintptr(layout.Align)
	shift := int((align - addr%align) % align)
	// Two-index slicing keeps the tail capacity attached to the block so a
	// later GrowInPlace can extend into it.
	return Block{data: buf[shift : shift+layout.Size]}, nil
}

func (GoAllocator) Deallocate(_ Block, _ Layout) {}

func (GoAllocator) GrowInPlace(b Block, _ Layout, newSize int) (Block, bool) {
	if b.IsZero() || newSize < len(b.data) {
		return b, false
	}
	if newSize <= cap(b.data) {
		return Block{data: b.data[:newSize]}, true
	}
	return b, false
}

func (a GoAllocator) Reallocate(b Block, old Layout, newSize int) (Block, error) {
	if newSize == len(b.data) {
		return b, nil
	}
	if newSize < len(b.data) {
		// Shrink never moves; the tail stays as slack.
		return Block{data: b.data[:newSize]}, nil
	}
	if grown, ok := a.GrowInPlace(b, old, newSize); ok {
		return grown, nil
	}
	nb, err := a.Allocate(Layout{Size: newSize, Align: old.Align})
	if err != nil {
		return Block{}, err
	}
	copy(nb.data, b.data)
	a.Deallocate(b, old)
	return nb, nil
}
