package shared

// Weak is a non-owning handle to a shared block. It never prevents payload
// destruction; it keeps only the block itself alive. The zero-like handle
// from NewEmptyWeak references no allocation and never upgrades.
type Weak[T any] struct {
	in *inner[T]
}

// NewEmptyWeak returns a dangling weak handle: no allocation, Upgrade always
// fails, Drop is a no-op.
func NewEmptyWeak[T any]() *Weak[T] {
	return &Weak[T]{}
}

// Upgrade attempts to obtain a strong handle. It succeeds only while the
// payload is alive (strong > 0).
func (w *Weak[T]) Upgrade() (*Strong[T], bool) {
	in := w.in
	if in == nil {
		return nil, false
	}
	// CAS loop rather than a plain increment: the strong counter must never
	// be taken from 0 back to 1 here. Observing strong > 0 also guarantees a
	// fully initialized payload (see NewCyclic).
	n := in.strong.Load()
	for {
		if n == 0 {
			return nil, false
		}
		if n > maxRefCount {
			refCountAbort()
		}
		if in.strong.CompareAndSwap(n, n+1) {
			return &Strong[T]{in: in}, true
		}
		n = in.strong.Load()
	}
}

// Clone creates another weak handle to the same block.
func (w *Weak[T]) Clone() *Weak[T] {
	in := w.in
	if in == nil {
		return &Weak[T]{}
	}
	// A plain increment is safe even though the counter can be locked: the
	// lock is only taken when no weak handles exist, and w is one.
	old := in.weak.Add(1) - 1
	if old > maxRefCount {
		refCountAbort()
	}
	return &Weak[T]{in: in}
}

// Drop retires this handle; the handle observing the weak counter reach 0
// releases the block. Dropping an already-dropped or empty handle is a no-op.
func (w *Weak[T]) Drop() {
	in := w.in
	if in == nil {
		return
	}
	w.in = nil
	in.dropWeakUnit()
}

// StrongCount returns the block's current strong count, 0 for an empty
// handle.
func (w *Weak[T]) StrongCount() int {
	if w.in == nil {
		return 0
	}
	return int(w.in.strong.Load())
}

// WeakCount approximates the number of weak handles to the block, 0 for an
// empty handle or once the payload is gone.
func (w *Weak[T]) WeakCount() int {
	in := w.in
	if in == nil {
		return 0
	}
	weak := in.weak.Load()
	strong := in.strong.Load()
	if strong == 0 {
		return 0
	}
	if weak == lockedWeak {
		return 0
	}
	return int(weak - 1)
}

// Same reports whether two weak handles reference the same block.
func (w *Weak[T]) Same(o *Weak[T]) bool { return w.in == o.in }
