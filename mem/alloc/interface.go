package alloc

// Allocator is the capability contract for requesting, releasing, and
// resizing raw memory blocks.
//
// Contracts shared by all implementations:
//
//   - Allocate is never invoked with a zero-size layout; zero-sized requests
//     are resolved above the allocator boundary.
//   - A returned block satisfies the requested size and alignment exactly or
//     larger.
//   - GrowInPlace and Reallocate preserve existing bytes up to
//     min(oldSize, newSize).
//   - A failed call leaves allocator state unchanged; failures are reported
//     as *AllocError and never retried internally.
//
// Implementations:
//   - GoAllocator: heap-backed, GC-reclaimed
//   - SystemAllocator: mmap-backed (golang.org/x/sys/unix)
//   - CountingAllocator: instrumentation wrapper
type Allocator interface {
	// Allocate returns a block satisfying the layout, or *AllocError.
	Allocate(layout Layout) (Block, error)

	// Deallocate returns a block obtained with the given layout.
	Deallocate(b Block, layout Layout)

	// GrowInPlace attempts to extend the block to newSize bytes without
	// moving its contents. On success it returns the extended block, which
	// shares the original base address. Refusal is a normal outcome, not an
	// error.
	GrowInPlace(b Block, old Layout, newSize int) (Block, bool)

	// Reallocate resizes the block to newSize bytes, moving it if required.
	// Existing bytes are preserved up to min(old.Size, newSize). On failure
	// the original block remains valid.
	Reallocate(b Block, old Layout, newSize int) (Block, error)
}
