package shared

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/mem/alloc"
)

func TestNew_InitialCounts(t *testing.T) {
	s := MustNew(42, alloc.GoAllocator{})
	require.Equal(t, 1, s.StrongCount())
	require.Equal(t, 0, s.WeakCount())
	require.Equal(t, 42, *s.Get())
	s.Drop()
}

// Full lifecycle: construct over 42, clone, drop both, observe destruction
// and block release.
func TestLifecycle_CloneThenDropAll(t *testing.T) {
	c := alloc.NewCounting(alloc.GoAllocator{})
	destructed := 0

	s := MustNew(42, c, WithDrop(func(v *int) { destructed++ }))
	require.Equal(t, 1, s.StrongCount())
	require.Equal(t, 1, c.LiveBlocks())

	s2 := s.Clone()
	require.Equal(t, 2, s.StrongCount())

	s.Drop()
	require.Equal(t, 1, s2.StrongCount())
	require.Equal(t, 0, destructed, "payload must outlive the first drop")

	s2.Drop()
	require.Equal(t, 1, destructed, "last strong drop destructs the payload")
	require.Equal(t, 0, c.LiveBlocks(), "block released with the implicit weak unit")
}

func TestClone_ThenDrop_NetUnchanged(t *testing.T) {
	s := MustNew("x", alloc.GoAllocator{})
	before := s.StrongCount()

	cl := s.Clone()
	cl.Drop()

	assert.Equal(t, before, s.StrongCount())
	s.Drop()
}

func TestClone_Concurrent(t *testing.T) {
	const n = 64
	s := MustNew(0, alloc.GoAllocator{})

	var wg sync.WaitGroup
	clones := make([]*Strong[int], n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clones[i] = s.Clone()
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1+n, s.StrongCount())

	for _, cl := range clones {
		cl.Drop()
	}
	require.Equal(t, 1, s.StrongCount())
	s.Drop()
}

func TestDrop_Twice_NoOp(t *testing.T) {
	c := alloc.NewCounting(alloc.GoAllocator{})
	s := MustNew(7, c)
	s.Drop()
	s.Drop()
	require.Equal(t, 0, c.LiveBlocks())
}

func TestDowngrade_CountsAndUpgrade(t *testing.T) {
	s := MustNew("payload", alloc.GoAllocator{})

	w := s.Downgrade()
	require.Equal(t, 1, s.WeakCount())
	require.Equal(t, 1, w.StrongCount())

	up, ok := w.Upgrade()
	require.True(t, ok)
	require.Equal(t, "payload", *up.Get())
	require.Equal(t, 2, s.StrongCount())

	up.Drop()
	w.Drop()
	s.Drop()
}

func TestUpgrade_AfterAllStrongDropped(t *testing.T) {
	s := MustNew(1, alloc.GoAllocator{})
	w := s.Downgrade()
	s.Drop()

	_, ok := w.Upgrade()
	require.False(t, ok)
	require.Equal(t, 0, w.StrongCount())
	w.Drop()
}

func TestWeak_LastDropReleasesBlock(t *testing.T) {
	c := alloc.NewCounting(alloc.GoAllocator{})
	baseline := c.LiveBlocks()

	s := MustNew(9, c)
	w := s.Downgrade()

	s.Drop()
	require.Equal(t, baseline+1, c.LiveBlocks(), "weak handle keeps the block alive")

	w.Drop()
	require.Equal(t, baseline, c.LiveBlocks())
}

func TestWeak_CloneAndCounts(t *testing.T) {
	s := MustNew(5, alloc.GoAllocator{})
	w := s.Downgrade()
	w2 := w.Clone()

	require.Equal(t, 2, s.WeakCount())
	require.Equal(t, 2, w.WeakCount())
	require.True(t, w.Same(w2))

	w.Drop()
	w2.Drop()
	require.Equal(t, 0, s.WeakCount())
	s.Drop()
}

func TestNewEmptyWeak_NeverUpgrades(t *testing.T) {
	w := NewEmptyWeak[string]()
	_, ok := w.Upgrade()
	require.False(t, ok)
	require.Equal(t, 0, w.StrongCount())
	require.Equal(t, 0, w.WeakCount())
	w.Drop() // no-op
}

func TestNew_AllocFailure(t *testing.T) {
	fa := alloc.NewFailAfter(alloc.GoAllocator{}, 0)
	_, err := New(1, fa)
	var ae *alloc.AllocError
	require.ErrorAs(t, err, &ae)
}

func TestMustNew_PanicsOnAllocFailure(t *testing.T) {
	fa := alloc.NewFailAfter(alloc.GoAllocator{}, 0)
	require.Panics(t, func() {
		MustNew(1, fa)
	})
}

func TestSame(t *testing.T) {
	s := MustNew(1, alloc.GoAllocator{})
	cl := s.Clone()
	other := MustNew(1, alloc.GoAllocator{})

	require.True(t, s.Same(cl))
	require.False(t, s.Same(other))

	cl.Drop()
	s.Drop()
	other.Drop()
}

func TestAllocator_Introspection(t *testing.T) {
	c := alloc.NewCounting(alloc.GoAllocator{})
	s := MustNew(1, c)
	require.Same(t, c, s.Allocator())
	s.Drop()
}

func TestIntoRaw_FromRaw_RoundTrip(t *testing.T) {
	c := alloc.NewCounting(alloc.GoAllocator{})
	s := MustNew("cross the boundary", c)
	cl := s.Clone()

	p := cl.IntoRaw()
	require.Equal(t, "cross the boundary", *p)
	require.Equal(t, 2, s.StrongCount(), "IntoRaw must not touch the counters")

	back := FromRaw(p)
	require.True(t, s.Same(back))
	require.Equal(t, 2, back.StrongCount())

	back.Drop()
	s.Drop()
	require.Equal(t, 0, c.LiveBlocks())
}

func TestTryUnwrap_Unique(t *testing.T) {
	c := alloc.NewCounting(alloc.GoAllocator{})
	dropped := false
	s := MustNew(42, c, WithDrop(func(*int) { dropped = true }))

	v, ok := s.TryUnwrap()
	require.True(t, ok)
	require.Equal(t, 42, v)
	require.False(t, dropped, "ownership moved to the caller, no destructor")
	require.Equal(t, 0, c.LiveBlocks())
}

func TestTryUnwrap_SharedFails(t *testing.T) {
	s := MustNew(42, alloc.GoAllocator{})
	cl := s.Clone()

	_, ok := s.TryUnwrap()
	require.False(t, ok)
	require.Equal(t, 42, *s.Get(), "failed unwrap leaves the handle usable")

	cl.Drop()
	s.Drop()
}
