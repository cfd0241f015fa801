package alloc

import (
	"math/bits"
	"unsafe"
)

// MaxSize is the largest block size a Layout may describe. Sizes are plain
// ints, so this is the half-address-space bound on 32-bit platforms and the
// full non-negative int range on 64-bit platforms.
const MaxSize = int(^uint(0) >> 1)

// Layout describes a memory request: a byte size and an alignment.
// Align must be a power of two.
type Layout struct {
	Size  int
	Align int
}

// NewLayout validates and builds a Layout.
func NewLayout(size, align int) (Layout, error) {
	if align <= 0 || align&(align-1) != 0 {
		return Layout{}, ErrBadAlign
	}
	if size < 0 {
		return Layout{}, ErrCapacityOverflow
	}
	return Layout{Size: size, Align: align}, nil
}

// LayoutOf returns the layout of a single value of type T.
func LayoutOf[T any]() Layout {
	// unsafe.Sizeof/Alignof never evaluate their argument, so this is free
	// even for enormous element types.
	return Layout{Size: int(unsafe.Sizeof(*new(T))), Align: int(unsafe.Alignof(*new(T)))}
}

// ArrayLayout returns the layout of n contiguous values of type T.
// Fails with ErrCapacityOverflow if n*sizeof(T) is not representable.
func ArrayLayout[T any](n int) (Layout, error) {
	if n < 0 {
		return Layout{}, ErrCapacityOverflow
	}
	elem := LayoutOf[T]()
	size, ok := CheckedMul(n, elem.Size)
	if !ok {
		return Layout{}, ErrCapacityOverflow
	}
	return Layout{Size: size, Align: elem.Align}, nil
}

// CheckedMul multiplies two non-negative ints, reporting overflow past
// MaxSize.
func CheckedMul(a, b int) (int, bool) {
	hi, lo := bits.Mul(uint(a), uint(b))
	if hi != 0 || lo > uint(MaxSize) {
		return 0, false
	}
	return int(lo), true
}

// CheckedAdd adds two non-negative ints, reporting overflow past MaxSize.
func CheckedAdd(a, b int) (int, bool) {
	sum, carry := bits.Add(uint(a), uint(b), 0)
	if carry != 0 || sum > uint(MaxSize) {
		return 0, false
	}
	return int(sum), true
}
