package shared

import (
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/memkit/mem/alloc"
)

const (
	// maxRefCount is the soft ceiling on both counters: half the counter's
	// representable range. Exceeding it requires leaking handles at a rate no
	// realistic program reaches, so the margin below the true maximum is kept
	// deliberately wide rather than detecting overflow at the exact boundary.
	maxRefCount = uint64(math.MaxInt64)

	// lockedWeak is a transient sentinel for the weak counter: the uniqueness
	// check holds it while inspecting the strong counter. Never a genuine
	// count.
	lockedWeak = ^uint64(0)
)

// refCountAbort reports a counter past the soft ceiling. The state is
// unrecoverable - continuing risks a wrapped counter and use-after-release.
func refCountAbort() {
	panic("shared: reference count overflow")
}

// inner is the shared block: allocator instance, the two counters, lifecycle
// hooks, and the payload. It is reachable from every Strong and Weak handle
// and from raw payload pointers handed out by IntoRaw.
type inner[T any] struct {
	a       alloc.Allocator
	block   alloc.Block
	layout  alloc.Layout
	strong  atomic.Uint64
	weak    atomic.Uint64
	hooks   hooks[T]
	payload T
}

func newInner[T any](v T, a alloc.Allocator, strong, weak uint64, h hooks[T]) (*inner[T], error) {
	in := &inner[T]{a: a, hooks: h, payload: v}
	in.layout = alloc.LayoutOf[inner[T]]()
	blk, err := a.Allocate(in.layout)
	if err != nil {
		return nil, err
	}
	in.block = blk
	in.strong.Store(strong)
	in.weak.Store(weak)
	return in, nil
}

func (in *inner[T]) cloneVal() T {
	if in.hooks.clone != nil {
		return in.hooks.clone(in.payload)
	}
	return in.payload
}

func (in *inner[T]) destroyPayload() {
	if in.hooks.drop != nil {
		in.hooks.drop(&in.payload)
	}
	var zero T
	in.payload = zero
}

// dropWeakUnit retires one weak unit and releases the block when the counter
// reaches 0.
func (in *inner[T]) dropWeakUnit() {
	if in.weak.Add(^uint64(0)) == 0 {
		in.a.Deallocate(in.block, in.layout)
		in.block = alloc.Block{}
	}
}

// Strong is an owning handle to a shared block. It extends the payload's
// lifetime collectively with all other strong handles via the strong counter.
type Strong[T any] struct {
	in *inner[T]
}

// New constructs a Live block with strong=1, weak=1 around v.
func New[T any](v T, a alloc.Allocator, opts ...Option[T]) (*Strong[T], error) {
	var h hooks[T]
	for _, opt := range opts {
		opt(&h)
	}
	in, err := newInner(v, a, 1, 1, h)
	if err != nil {
		return nil, err
	}
	return &Strong[T]{in: in}, nil
}

// MustNew is New for the infallible convention.
func MustNew[T any](v T, a alloc.Allocator, opts ...Option[T]) *Strong[T] {
	s, err := New(v, a, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// NewCyclic constructs a block whose payload may reference itself. The block
// starts with strong=0 and weak=1; init receives a weak handle to it, valid
// only for the duration of the call (Clone it to retain). Upgrade fails until
// NewCyclic returns. After init returns, the payload is written and strong is
// published as 1.
func NewCyclic[T any](a alloc.Allocator, init func(*Weak[T]) T, opts ...Option[T]) (*Strong[T], error) {
	var h hooks[T]
	for _, opt := range opts {
		opt(&h)
	}
	var zero T
	in, err := newInner(zero, a, 0, 1, h)
	if err != nil {
		return nil, err
	}

	// If init panics, retire the weak unit on the way out so the block is
	// returned to the allocator.
	published := false
	defer func() {
		if !published {
			in.dropWeakUnit()
		}
	}()

	w := &Weak[T]{in: in}
	in.payload = init(w)

	// Publish: a racing Upgrade that observes strong > 0 must also observe
	// the payload write above. sync/atomic gives sequentially consistent
	// ordering, which covers the required release semantics.
	in.strong.Add(1)
	published = true

	// The borrowed handle's weak unit becomes the implicit unit held
	// collectively by the strong handles; neutralize it so a stray Drop by
	// the initializer's caller is a no-op.
	w.in = nil

	return &Strong[T]{in: in}, nil
}

// MustNewCyclic is NewCyclic for the infallible convention.
func MustNewCyclic[T any](a alloc.Allocator, init func(*Weak[T]) T, opts ...Option[T]) *Strong[T] {
	s, err := NewCyclic(a, init, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Clone creates another strong handle to the same block.
func (s *Strong[T]) Clone() *Strong[T] {
	// A plain increment suffices: holding s keeps strong > 0, so no other
	// goroutine can release the payload concurrently.
	old := s.in.strong.Add(1) - 1
	if old > maxRefCount {
		refCountAbort()
	}
	return &Strong[T]{in: s.in}
}

// Drop retires this handle. The handle observing the strong counter reach 0
// destructs the payload and releases the implicit weak unit. Dropping an
// already-dropped handle is a no-op.
func (s *Strong[T]) Drop() {
	in := s.in
	if in == nil {
		return
	}
	s.in = nil
	if in.strong.Add(^uint64(0)) != 0 {
		return
	}
	in.destroyPayload()
	in.dropWeakUnit()
}

// Downgrade creates a weak handle, spinning while the weak counter is held by
// a concurrent uniqueness check.
func (s *Strong[T]) Downgrade() *Weak[T] {
	in := s.in
	cur := in.weak.Load()
	for {
		if cur == lockedWeak {
			cur = in.weak.Load()
			continue
		}
		if in.weak.CompareAndSwap(cur, cur+1) {
			return &Weak[T]{in: in}
		}
		cur = in.weak.Load()
	}
}

// Get returns the payload. The pointer is valid while any strong handle to
// the block remains live.
func (s *Strong[T]) Get() *T { return &s.in.payload }

// StrongCount returns the current strong count. Other goroutines may change
// it at any time; treat the value as advisory.
func (s *Strong[T]) StrongCount() int { return int(s.in.strong.Load()) }

// WeakCount returns the number of weak handles. A locked counter means the
// count was 0 just before the lock was taken.
func (s *Strong[T]) WeakCount() int {
	cnt := s.in.weak.Load()
	if cnt == lockedWeak {
		return 0
	}
	return int(cnt - 1)
}

// Allocator returns the allocator instance embedded in the block.
func (s *Strong[T]) Allocator() alloc.Allocator { return s.in.a }

// Same reports whether two handles reference the same block.
func (s *Strong[T]) Same(o *Strong[T]) bool { return s.in == o.in }

// isUnique reports whether this is the only handle of either kind. It locks
// the weak counter for the duration of the strong-counter read.
func (s *Strong[T]) isUnique() bool {
	in := s.in
	// Lock only succeeds when the sole weak unit is the implicit one, i.e.
	// no weak handles exist.
	if !in.weak.CompareAndSwap(1, lockedWeak) {
		return false
	}
	unique := in.strong.Load() == 1
	in.weak.Store(1)
	return unique
}

// TryGetMut returns a mutable payload pointer only when this is the unique
// handle of either kind; otherwise it reports false and mutation must go
// through MakeMut.
func (s *Strong[T]) TryGetMut() (*T, bool) {
	if s.isUnique() {
		return &s.in.payload, true
	}
	return nil, false
}

// GetMutUnchecked returns a mutable payload pointer without any uniqueness
// check. The caller asserts that no other handle dereferences the block for
// the duration of the mutation.
func (s *Strong[T]) GetMutUnchecked() *T { return &s.in.payload }

// MakeMut returns a mutable payload pointer, cloning or moving the payload
// into a fresh block first when the current one is shared (copy-on-write).
// When strong == 1 and weak == 1 no allocation happens. A failed allocation
// leaves the handle and counters unchanged.
func (s *Strong[T]) MakeMut() (*T, error) {
	in := s.in
	if !in.strong.CompareAndSwap(1, 0) {
		// Other strong handles exist: clone payload and allocator into a
		// brand-new block; the old block's counts unwind through Drop.
		ns, err := newInner(in.cloneVal(), in.a, 1, 1, in.hooks)
		if err != nil {
			return nil, err
		}
		s.Drop()
		s.in = ns
	} else if in.weak.Load() != 1 {
		// Sole strong handle, but weak handles survive. Move the payload to
		// a minimal new block and leave the old one weak-only (strong stays
		// 0), so surviving weak handles observe "gone" on Upgrade.
		//
		// The weak read cannot observe the locked sentinel: only a strong
		// handle locks, and we are the sole strong handle.
		ns, err := newInner(in.payload, in.a, 1, 1, in.hooks)
		if err != nil {
			in.strong.Store(1)
			return nil, err
		}
		var zero T
		in.payload = zero
		// Retire the implicit weak unit the strong handles held.
		in.dropWeakUnit()
		s.in = ns
	} else {
		// Sole handle of either kind: mutate in place.
		in.strong.Store(1)
	}
	return &s.in.payload, nil
}

// MustMakeMut is MakeMut for the infallible convention.
func (s *Strong[T]) MustMakeMut() *T {
	p, err := s.MakeMut()
	if err != nil {
		panic(err)
	}
	return p
}

// TryUnwrap takes the payload out when this is the last strong handle,
// consuming the handle. On failure the handle remains usable and no state
// changes. The WithDrop hook does not run: ownership of the value moves to
// the caller.
func (s *Strong[T]) TryUnwrap() (T, bool) {
	in := s.in
	if in == nil || !in.strong.CompareAndSwap(1, 0) {
		var zero T
		return zero, false
	}
	s.in = nil
	v := in.payload
	var zero T
	in.payload = zero
	in.dropWeakUnit()
	return v, true
}

// IntoRaw disarms the handle and returns a raw payload pointer for handoff
// across an opaque boundary. The pointer must be passed to FromRaw exactly
// once; anything else leaks the block or double-releases it.
func (s *Strong[T]) IntoRaw() *T {
	in := s.in
	s.in = nil
	return &in.payload
}

// FromRaw reconstitutes the strong handle disarmed by IntoRaw.
func FromRaw[T any](p *T) *Strong[T] {
	var probe inner[T]
	off := unsafe.Offsetof(probe.payload)
	in := (*inner[T])(unsafe.Add(unsafe.Pointer(p), -int(off)))
	return &Strong[T]{in: in}
}
