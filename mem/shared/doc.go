// Package shared provides an atomically reference-counted shared-ownership
// pointer with a non-owning weak counterpart, parameterized over a pluggable
// allocator.
//
// # Overview
//
// Strong[T] and Weak[T] reference a single inner block holding the allocator
// instance, two atomic counters, and the payload value. A block starts Live
// with strong=1 and weak=1: the weak counter carries one implicit unit held
// collectively by all strong handles. The payload is alive while strong > 0;
// the block itself is released exactly when weak reaches 0.
//
// Handles have explicit lifecycles: Clone creates a handle, Drop retires one.
// The last strong Drop destructs the payload (running the WithDrop hook if
// set) and releases the implicit weak unit; the last weak Drop returns the
// block to the allocator. Dropping a handle twice is a no-op.
//
// # Copy-on-Write Mutation
//
// Mutating a possibly-shared payload goes through MakeMut:
//
//   - other strong handles exist: the payload is cloned (WithClone hook, or a
//     plain value copy) into a brand-new block and the handle is repointed
//   - sole strong handle but weak handles survive: the payload moves to a new
//     block and the old one is left weak-only, so surviving weak handles
//     observe "gone" on Upgrade
//   - fully unique: mutate in place, no allocation
//
// TryGetMut performs only the uniqueness check, using the weak-counter lock:
// the weak counter is briefly swapped to a reserved sentinel while strong is
// inspected. This is the sole mutation entry point requiring that protocol.
//
// # Cyclic Construction
//
// NewCyclic builds self-referential payloads in two phases: the block is
// allocated with strong=0 and the initializer receives a borrowed weak handle
// it may clone into the payload; after the initializer returns the payload is
// written and strong is published as 1, so any handle racing to Upgrade
// observes a fully initialized payload once it sees strong > 0.
//
// # Counter Ceiling
//
// Counts are guarded by a soft ceiling well below the counter's true range.
// Exceeding it means handles are being leaked at a pathological rate; the
// package treats that as unrecoverable and panics instead of risking a
// counter wrap and use-after-release.
//
// # Thread Safety
//
// Independent handles to the same block may be used from any number of
// goroutines without external locking. A single handle value is a
// single-owner resource: hand a goroutine its own Clone instead of sharing
// one. The allocator instance embedded in the block is shared read-only by
// all holders.
package shared
