//go:build freebsd || darwin

package alloc

// GrowInPlace always refuses: there is no portable mremap on BSD/darwin.
func (SystemAllocator) GrowInPlace(b Block, _ Layout, _ int) (Block, bool) {
	return b, false
}

// Reallocate maps a fresh region, copies the preserved prefix, and unmaps the
// old block.
func (a SystemAllocator) Reallocate(b Block, old Layout, newSize int) (Block, error) {
	if newSize == len(b.data) {
		return b, nil
	}
	nb, err := a.Allocate(Layout{Size: newSize, Align: old.Align})
	if err != nil {
		return Block{}, err
	}
	copy(nb.data, b.data)
	a.Deallocate(b, old)
	return nb, nil
}
