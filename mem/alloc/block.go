package alloc

import "unsafe"

// Block is an allocator-issued contiguous memory region. The zero value is
// the empty sentinel: no allocation backs it and it must never be passed to
// Deallocate, GrowInPlace, or Reallocate.
//
// A Block is identified by its base address together with the Layout used to
// obtain it; callers are responsible for presenting the same layout back to
// the allocator that issued the block.
type Block struct {
	data []byte
}

// BlockOf wraps raw bytes as a Block. Intended for Allocator implementations;
// ordinary consumers receive Blocks from Allocate or Reallocate.
func BlockOf(data []byte) Block {
	return Block{data: data}
}

// Addr returns the base address of the block, or 0 for the empty sentinel.
func (b Block) Addr() uintptr {
	if len(b.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b.data[0]))
}

// Bytes exposes the block's memory. The returned slice aliases the block;
// it remains valid until the block is deallocated or reallocated.
func (b Block) Bytes() []byte { return b.data }

// Size returns the usable byte size of the block.
func (b Block) Size() int { return len(b.data) }

// IsZero reports whether this is the empty sentinel.
func (b Block) IsZero() bool { return b.data == nil }
