//go:build linux || freebsd || darwin

package alloc

import (
	"golang.org/x/sys/unix"
)

// SystemAllocator issues page-backed blocks obtained with mmap(2). Blocks are
// page-aligned, so any layout alignment up to the page size is satisfied.
// Larger alignments are declined.
//
// Deallocate unmaps the block immediately; unlike GoAllocator, a dangling
// Bytes() slice after Deallocate faults instead of lingering.
//
// The zero value is ready to use and safe for concurrent use.
type SystemAllocator struct{}

func (SystemAllocator) Allocate(layout Layout) (Block, error) {
	if layout.Align > unix.Getpagesize() {
		return Block{}, &AllocError{Layout: layout, Err: ErrBadAlign}
	}
	data, err := unix.Mmap(-1, 0, layout.Size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return Block{}, &AllocError{Layout: layout, Err: err}
	}
	return Block{data: data}, nil
}

func (SystemAllocator) Deallocate(b Block, _ Layout) {
	if b.IsZero() {
		return
	}
	// Best-effort: the kernel reclaims the mapping at process exit anyway.
	_ = unix.Munmap(b.data)
}
