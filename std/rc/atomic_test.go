package rc_test

import (
	"sync"
	"testing"

	"github.com/arclib/arclib/std/rc"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestAtomicStrongLoadStore(t *testing.T) {
	a := rc.NewAtomicStrong(rc.NewStrong(1))

	got := a.Load()
	require.Equal(t, 1, *got.Get())
	got.Release()

	a.Store(rc.NewStrong(2))
	got = a.Load()
	require.Equal(t, 2, *got.Get())
	got.Release()
}

func TestAtomicStrongExchange(t *testing.T) {
	a := rc.NewAtomicStrong(rc.NewStrong(1))

	desired := rc.NewStrong(2)
	old := a.Exchange(&desired)
	require.True(t, desired.IsNull())
	require.Equal(t, 1, *old.Get())
	old.Release()

	got := a.Load()
	require.Equal(t, 2, *got.Get())
	got.Release()
}

func TestAtomicStrongCompareAndSwapStrong(t *testing.T) {
	a := rc.NewAtomicStrong(rc.NewStrong(1))

	expected := a.Load()
	desired := rc.NewStrong(2)
	ok := a.CompareAndSwapStrong(&expected, desired)
	require.True(t, ok)
	desired.Release() // copy variant: caller keeps ownership of its own handle
	expected.Release()

	got := a.Load()
	require.Equal(t, 2, *got.Get())
	got.Release()

	// stale expected -> failure, expected refreshed
	stale := rc.NewStrong(999)
	another := rc.NewStrong(3)
	ok = a.CompareAndSwapStrong(&stale, another)
	require.False(t, ok)
	require.Equal(t, 2, *stale.Get())
	another.Release()
	stale.Release()
}

func TestAtomicStrongCompareAndSwapStrongMove(t *testing.T) {
	a := rc.NewAtomicStrong(rc.NewStrong(1))

	expected := a.Load()
	desired := rc.NewStrong(2)
	ok := a.CompareAndSwapStrongMove(&expected, &desired)
	require.True(t, ok)
	require.True(t, desired.IsNull())
	expected.Release()

	got := a.Load()
	require.Equal(t, 2, *got.Get())
	got.Release()
}

func TestAtomicStrongGetSnapshotAndCompareAndSwapSnapshot(t *testing.T) {
	a := rc.NewAtomicStrong(rc.NewStrong(1))

	snap := a.GetSnapshot()
	require.Equal(t, 1, *snap.Get())

	desired := rc.NewStrong(2)
	ok := a.CompareAndSwapSnapshot(&snap, desired)
	require.True(t, ok)
	desired.Release()
	snap.Release()

	got := a.Load()
	require.Equal(t, 2, *got.Get())
	got.Release()
}

func TestAtomicStrongSwapRequiresIndependentReference(t *testing.T) {
	owned := rc.NewStrong(1)
	a := rc.NewAtomicStrong(owned.Clone())

	replacement := rc.NewStrong(2)
	a.Swap(&replacement)
	require.Equal(t, 1, *replacement.Get()) // displaced value, returned by swap

	got := a.Load()
	require.Equal(t, 2, *got.Get())
	got.Release()

	replacement.Release()
	owned.Release()
}

func TestAtomicStrongConcurrentLoadStore(t *testing.T) {
	a := rc.NewAtomicStrong(rc.NewStrong(0))

	var g errgroup.Group
	for i := 1; i <= 50; i++ {
		i := i
		g.Go(func() error {
			a.Store(rc.NewStrong(i))
			return nil
		})
	}
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			s := a.Load()
			defer s.Release()
			_ = *s.Get() // must never read freed memory
			return nil
		})
	}
	require.NoError(t, g.Wait())

	got := a.Load()
	require.NotNil(t, got.Get())
	got.Release()
}

func TestAtomicStrongConcurrentCompareAndSwapStrongRetryLoop(t *testing.T) {
	a := rc.NewAtomicStrong(rc.NewStrong(0))

	var wg sync.WaitGroup
	const incrs = 200
	for i := 0; i < incrs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				expected := a.Load()
				next := *expected.Get() + 1
				desired := rc.NewStrong(next)
				ok := a.CompareAndSwapStrong(&expected, desired)
				desired.Release() // copy variant: caller's own handle, always theirs to release
				expected.Release()
				if ok {
					return
				}
			}
		}()
	}
	wg.Wait()

	got := a.Load()
	require.Equal(t, incrs, *got.Get())
	got.Release()
}
