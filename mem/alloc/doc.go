// Package alloc provides the allocator abstraction underlying memkit's memory
// primitives: a (size, alignment) Layout descriptor, an opaque Block handle
// for allocator-issued memory, and the Allocator capability interface.
//
// # Overview
//
// Every memkit component that owns memory is parameterized over an Allocator.
// The interface is deliberately small:
//
//   - Allocate(layout): request a block satisfying size and alignment
//   - Deallocate(block, layout): return a block
//   - GrowInPlace(block, old, newSize): extend without moving (may refuse)
//   - Reallocate(block, old, newSize): resize, preserving existing bytes
//
// Callers never pass a zero-size layout; zero-sized requests are handled
// above the allocator boundary (see mem/rawbuf for the zero-sized-element
// rules).
//
// # Implementations
//
// GoAllocator: heap-backed blocks with explicit alignment. Deallocate is a
// no-op; the garbage collector reclaims blocks once no Block handle remains.
//
// SystemAllocator: page-backed blocks obtained with mmap(2) via
// golang.org/x/sys/unix. On Linux, GrowInPlace and Reallocate map to
// mremap(2) without and with MREMAP_MAYMOVE respectively. On platforms
// without an mmap implementation it falls back to GoAllocator behavior.
//
// CountingAllocator: wraps any Allocator and tracks live blocks and bytes.
// Useful for leak checks in tests and for instrumentation. Set
// MEMKIT_LOG_ALLOC=1 to trace every call through log/slog.
//
// # Error Model
//
// Fallible operations return either ErrCapacityOverflow (a size computation
// left the addressable range) or *AllocError (the allocator declined a
// request; carries the failed Layout). Nothing in this package retries a
// failed allocation.
//
// # Thread Safety
//
// GoAllocator and SystemAllocator are stateless and safe for concurrent use.
// CountingAllocator uses atomic counters and is likewise safe. Custom
// implementations holding mutable state must supply their own
// synchronization.
package alloc
