package rawbuf

import (
	"unsafe"

	"github.com/joshuapare/memkit/mem/alloc"
)

// MaxCap is the capacity reported for buffers of zero-sized elements: the
// maximum representable element count.
const MaxCap = alloc.MaxSize

// Buffer manages one contiguous block sized for a whole number of T elements.
// The zero value is not usable; construct with New or NewWithCapacity.
type Buffer[T any] struct {
	block  alloc.Block
	layout alloc.Layout // layout the block was obtained with; zero when empty
	cap    int          // capacity in elements (see Cap for zero-sized T)
	a      alloc.Allocator
}

func elemSize[T any]() int {
	// The argument of unsafe.Sizeof is never evaluated.
	return int(unsafe.Sizeof(*new(T)))
}

// New returns an empty buffer: no allocation, capacity 0 (or MaxCap for a
// zero-sized T).
func New[T any](a alloc.Allocator) *Buffer[T] {
	return &Buffer[T]{a: a}
}

// NewWithCapacity returns a buffer allocated for exactly n elements. For a
// zero-sized T or n == 0 no allocation is issued.
func NewWithCapacity[T any](n int, a alloc.Allocator) (*Buffer[T], error) {
	if n < 0 {
		return nil, alloc.ErrCapacityOverflow
	}
	layout, err := alloc.ArrayLayout[T](n)
	if err != nil {
		return nil, alloc.ErrCapacityOverflow
	}
	b := &Buffer[T]{a: a, cap: n}
	if layout.Size == 0 {
		return b, nil
	}
	blk, err := a.Allocate(layout)
	if err != nil {
		return nil, err
	}
	b.block = blk
	b.layout = layout
	return b, nil
}

// MustNewWithCapacity is NewWithCapacity for the infallible convention.
func MustNewWithCapacity[T any](n int, a alloc.Allocator) *Buffer[T] {
	b, err := NewWithCapacity[T](n, a)
	if err != nil {
		panic(err)
	}
	return b
}

// FromBlock reconstitutes a buffer from a block previously released with
// IntoBlock. The block must have been obtained from a for exactly capacity
// elements of T; passing a different allocator or block corrupts the
// allocator's bookkeeping. A capacity whose byte size is not representable
// fails with ErrCapacityOverflow.
func FromBlock[T any](blk alloc.Block, capacity int, a alloc.Allocator) (*Buffer[T], error) {
	b := &Buffer[T]{block: blk, cap: capacity, a: a}
	if blk.IsZero() {
		return b, nil
	}
	layout, err := alloc.ArrayLayout[T](capacity)
	if err != nil {
		return nil, alloc.ErrCapacityOverflow
	}
	b.layout = layout
	return b, nil
}

// Cap returns the element capacity. Always MaxCap for a zero-sized T.
func (b *Buffer[T]) Cap() int {
	if elemSize[T]() == 0 {
		return MaxCap
	}
	return b.cap
}

// Bytes exposes the raw block, nil while empty. The slice aliases the block
// and is invalidated by any growth, shrink, or release.
func (b *Buffer[T]) Bytes() []byte { return b.block.Bytes() }

// Addr returns the block's base address, 0 while empty.
func (b *Buffer[T]) Addr() uintptr { return b.block.Addr() }

// Allocator returns the allocator instance backing this buffer.
func (b *Buffer[T]) Allocator() alloc.Allocator { return b.a }

// Reserve ensures capacity for used+extra elements, growing by amortized
// doubling: the target is max(2*cap, used+extra). A no-op when the current
// capacity already suffices.
func (b *Buffer[T]) Reserve(used, extra int) error {
	return b.reserve(used, extra, false)
}

// MustReserve is Reserve for the infallible convention.
func (b *Buffer[T]) MustReserve(used, extra int) {
	if err := b.Reserve(used, extra); err != nil {
		panic(err)
	}
}

// ReserveExact is Reserve without doubling headroom: the target capacity is
// used+extra exactly.
func (b *Buffer[T]) ReserveExact(used, extra int) error {
	return b.reserve(used, extra, true)
}

// MustReserveExact is ReserveExact for the infallible convention.
func (b *Buffer[T]) MustReserveExact(used, extra int) {
	if err := b.ReserveExact(used, extra); err != nil {
		panic(err)
	}
}

// haveEnough is the wraparound-aware "already enough capacity" check shared
// by the growth paths. Callers pass validated non-negative counts.
func (b *Buffer[T]) haveEnough(used, extra int) bool {
	return uint(b.Cap())-uint(used) >= uint(extra)
}

func (b *Buffer[T]) reserve(used, extra int, exact bool) error {
	if used < 0 || extra < 0 {
		return alloc.ErrCapacityOverflow
	}
	if b.haveEnough(used, extra) {
		return nil
	}

	// Past the fast path a zero-sized T means the imaginary buffer of MaxCap
	// slots is overfull.
	if elemSize[T]() == 0 {
		return alloc.ErrCapacityOverflow
	}

	newCap, err := b.growthTarget(used, extra, exact)
	if err != nil {
		return err
	}
	layout, err := alloc.ArrayLayout[T](newCap)
	if err != nil {
		return alloc.ErrCapacityOverflow
	}

	var (
		blk  alloc.Block
		aerr error
	)
	if b.block.IsZero() {
		blk, aerr = b.a.Allocate(layout)
	} else {
		blk, aerr = b.a.Reallocate(b.block, b.layout, layout.Size)
	}
	if aerr != nil {
		return aerr
	}
	b.block = blk
	b.layout = layout
	b.cap = newCap
	return nil
}

// growthTarget computes the element capacity a growth operation aims for.
func (b *Buffer[T]) growthTarget(used, extra int, exact bool) (int, error) {
	required, ok := alloc.CheckedAdd(used, extra)
	if !ok {
		return 0, alloc.ErrCapacityOverflow
	}
	if exact {
		return required, nil
	}
	double, ok := alloc.CheckedMul(b.cap, 2)
	if !ok {
		return 0, alloc.ErrCapacityOverflow
	}
	if double > required {
		return double, nil
	}
	return required, nil
}

// GrowInPlace asks the allocator to extend the current block without moving
// data, using the amortized growth target. The bool reports whether the
// extension happened; "extension impossible" is a normal false. The error is
// reserved for capacity-arithmetic overflow.
func (b *Buffer[T]) GrowInPlace(used, extra int) (bool, error) {
	if used < 0 || extra < 0 {
		return false, alloc.ErrCapacityOverflow
	}
	if b.haveEnough(used, extra) {
		return false, nil
	}
	if elemSize[T]() == 0 {
		return false, alloc.ErrCapacityOverflow
	}
	if b.block.IsZero() {
		// Nothing to extend.
		return false, nil
	}

	newCap, err := b.growthTarget(used, extra, false)
	if err != nil {
		return false, err
	}
	layout, err := alloc.ArrayLayout[T](newCap)
	if err != nil {
		return false, alloc.ErrCapacityOverflow
	}

	blk, ok := b.a.GrowInPlace(b.block, b.layout, layout.Size)
	if !ok {
		return false, nil
	}
	b.block = blk
	b.layout = layout
	b.cap = newCap
	return true, nil
}

// doubleFloor is the capacity Double assigns to an empty buffer: 4 elements,
// or 1 when a single element exceeds an eighth of the address space.
func doubleFloor(elemSize int) int {
	if elemSize > MaxCap/8 {
		return 1
	}
	return 4
}

// Double grows capacity for the single-element push fast path: from empty to
// doubleFloor elements, otherwise to twice the current capacity.
func (b *Buffer[T]) Double() error {
	size := elemSize[T]()

	// Capacity is MaxCap for a zero-sized T, so reaching Double means the
	// caller's length tracking is overfull.
	if size == 0 {
		return alloc.ErrCapacityOverflow
	}

	if b.block.IsZero() {
		newCap := doubleFloor(size)
		layout, err := alloc.ArrayLayout[T](newCap)
		if err != nil {
			return alloc.ErrCapacityOverflow
		}
		blk, aerr := b.a.Allocate(layout)
		if aerr != nil {
			return aerr
		}
		b.block = blk
		b.layout = layout
		b.cap = newCap
		return nil
	}

	newCap, ok := alloc.CheckedMul(b.cap, 2)
	if !ok {
		return alloc.ErrCapacityOverflow
	}
	layout, err := alloc.ArrayLayout[T](newCap)
	if err != nil {
		return alloc.ErrCapacityOverflow
	}
	blk, aerr := b.a.Reallocate(b.block, b.layout, layout.Size)
	if aerr != nil {
		return aerr
	}
	b.block = blk
	b.layout = layout
	b.cap = newCap
	return nil
}

// MustDouble is Double for the infallible convention.
func (b *Buffer[T]) MustDouble() {
	if err := b.Double(); err != nil {
		panic(err)
	}
}

// ShrinkTo reallocates down to exactly amount elements. Amount 0 fully
// releases the block and resets the buffer to its empty state. Fails with
// ErrCapacityOverflow when amount exceeds the current capacity.
func (b *Buffer[T]) ShrinkTo(amount int) error {
	if amount < 0 {
		return alloc.ErrCapacityOverflow
	}
	if elemSize[T]() == 0 {
		// No block exists; record the capacity for ownership handoff.
		b.cap = amount
		return nil
	}
	if b.cap < amount {
		return alloc.ErrCapacityOverflow
	}
	if amount == 0 {
		b.Release()
		return nil
	}
	if b.cap == amount {
		return nil
	}
	layout, err := alloc.ArrayLayout[T](amount)
	if err != nil {
		return alloc.ErrCapacityOverflow
	}
	blk, aerr := b.a.Reallocate(b.block, b.layout, layout.Size)
	if aerr != nil {
		return aerr
	}
	b.block = blk
	b.layout = layout
	b.cap = amount
	return nil
}

// MustShrinkTo is ShrinkTo for the infallible convention.
func (b *Buffer[T]) MustShrinkTo(amount int) {
	if err := b.ShrinkTo(amount); err != nil {
		panic(err)
	}
}

// IntoBlock converts the buffer into a fixed-size block, handing ownership to
// the caller and resetting the buffer to its empty state. The returned layout
// and element capacity are what FromBlock needs to reconstitute the buffer;
// alternatively release the block directly through the allocator.
func (b *Buffer[T]) IntoBlock() (alloc.Block, alloc.Layout, int) {
	blk, layout, capacity := b.block, b.layout, b.cap
	b.block = alloc.Block{}
	b.layout = alloc.Layout{}
	b.cap = 0
	return blk, layout, capacity
}

// Release frees the block without touching element contents and resets the
// buffer to its empty state. Element destruction is the owning collection's
// responsibility and must happen before Release.
func (b *Buffer[T]) Release() {
	if !b.block.IsZero() {
		b.a.Deallocate(b.block, b.layout)
	}
	b.block = alloc.Block{}
	b.layout = alloc.Layout{}
	b.cap = 0
}
