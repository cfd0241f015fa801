//go:build linux

package alloc

import (
	"golang.org/x/sys/unix"
)

// GrowInPlace extends the mapping with mremap(2) without MREMAP_MAYMOVE.
// The kernel refuses with ENOMEM when the adjacent address range is taken,
// which surfaces here as a plain false.
func (SystemAllocator) GrowInPlace(b Block, old Layout, newSize int) (Block, bool) {
	if b.IsZero() || newSize <= len(b.data) {
		return b, false
	}
	data, err := unix.Mremap(b.data, newSize, 0)
	if err != nil {
		return b, false
	}
	return Block{data: data}, true
}

// Reallocate resizes the mapping with mremap(2), letting the kernel move it
// when the adjacent range is unavailable. Bytes are preserved by the kernel.
func (SystemAllocator) Reallocate(b Block, old Layout, newSize int) (Block, error) {
	if b.IsZero() {
		return Block{}, &AllocError{Layout: Layout{Size: newSize, Align: old.Align}}
	}
	if newSize == len(b.data) {
		return b, nil
	}
	data, err := unix.Mremap(b.data, newSize, unix.MREMAP_MAYMOVE)
	if err != nil {
		return Block{}, &AllocError{Layout: Layout{Size: newSize, Align: old.Align}, Err: err}
	}
	return Block{data: data}, nil
}
