// Package rawbuf provides a growable contiguous buffer for building
// collection types, parameterized over a pluggable allocator.
//
// # Overview
//
// Buffer[T] owns exactly one allocator-issued block sized for a whole number
// of T elements. It performs all of the corner-case capacity arithmetic a
// vector-like collection needs:
//
//   - starts empty with no allocation
//   - grows by amortized doubling (Reserve) or exactly (ReserveExact)
//   - can attempt in-place extension (GrowInPlace) and shrinking (ShrinkTo)
//   - catches every overflow in capacity computations
//   - guards against allocations past the addressable range
//
// Buffer never inspects or destructs element contents: it manages raw bytes,
// and the owning collection is responsible for element lifecycles. Bytes()
// exposes the block for element storage.
//
// # Zero-Sized Elements
//
// For a zero-sized T the buffer never allocates and Cap reports MaxCap, so a
// collection tracking its own length still detects length overflow through
// the ordinary Reserve path.
//
// # Calling Conventions
//
// Every fallible operation returns ErrCapacityOverflow or *alloc.AllocError.
// The Must* variants convert either failure into a panic for callers written
// against the infallible convention.
//
// # Thread Safety
//
// A Buffer is a single-owner resource. Cross-goroutine use requires external
// synchronization supplied by the owner.
package rawbuf
