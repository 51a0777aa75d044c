package rcstack_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/arclib/arclib/std/rc/rcstack"
	"github.com/stretchr/testify/require"
)

func TestStackEmptyPopFront(t *testing.T) {
	s := rcstack.New[int]()

	_, ok := s.Front()
	require.False(t, ok)

	_, ok = s.PopFront()
	require.False(t, ok)
}

func TestStackPushPopLIFOOrder(t *testing.T) {
	s := rcstack.New[int]()

	for i := 0; i < 5; i++ {
		s.PushFront(i)
	}

	for i := 4; i >= 0; i-- {
		v, ok := s.PopFront()
		require.True(t, ok)
		require.Equal(t, i, v)
	}

	_, ok := s.PopFront()
	require.False(t, ok)
}

func TestStackFront(t *testing.T) {
	s := rcstack.New[string]()
	s.PushFront("a")
	s.PushFront("b")

	v, ok := s.Front()
	require.True(t, ok)
	require.Equal(t, "b", v)

	// Front must not remove.
	v, ok = s.PopFront()
	require.True(t, ok)
	require.Equal(t, "b", v)
}

func TestStackFind(t *testing.T) {
	s := rcstack.New[int]()
	for i := 0; i < 10; i++ {
		s.PushFront(i)
	}

	v, ok := s.Find(func(x int) bool { return x == 3 })
	require.True(t, ok)
	require.Equal(t, 3, v)

	_, ok = s.Find(func(x int) bool { return x == 99 })
	require.False(t, ok)
}

func TestStackConcurrentPushPop(t *testing.T) {
	s := rcstack.New[int]()

	const pushers = 20
	const perPusher = 50

	var wg sync.WaitGroup
	for i := 0; i < pushers; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < perPusher; j++ {
				s.PushFront(base*perPusher + j)
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for {
		v, ok := s.PopFront()
		if !ok {
			break
		}
		require.False(t, seen[v], "value popped twice: %d", v)
		seen[v] = true
	}
	require.Len(t, seen, pushers*perPusher)
}

// TestStackConcurrentPushPopInterleaved has every goroutine push and pop
// against the shared stack throughout its run, rather than completing all
// pushes before any pop begins (TestStackConcurrentPushPop above), so a
// pusher's CompareAndSwapStrongMove retry loop actually races a concurrent
// popper's CompareAndSwapSnapshotMove the way cmd/rcbench stack's workers
// do. Every pushed value is globally unique, so conservation -- every
// pushed value is popped by exactly one goroutine, either during the run
// or while draining what's left afterward -- is enough to catch a
// resurrected or double-freed node without relying on LIFO order, which
// interleaved pushers/poppers don't preserve.
func TestStackConcurrentPushPopInterleaved(t *testing.T) {
	s := rcstack.New[int]()

	const workers = 20
	const perWorker = 2000

	var next atomic.Int64
	var popped sync.Map // int -> struct{}, guards against a value seen twice
	var poppedCount atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				s.PushFront(int(next.Add(1)))
				if v, ok := s.PopFront(); ok {
					if _, dup := popped.LoadOrStore(v, struct{}{}); dup {
						t.Errorf("value popped twice: %d", v)
					}
					poppedCount.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	for {
		v, ok := s.PopFront()
		if !ok {
			break
		}
		if _, dup := popped.LoadOrStore(v, struct{}{}); dup {
			t.Errorf("value popped twice: %d", v)
		}
		poppedCount.Add(1)
	}

	require.Equal(t, int64(workers*perWorker), next.Load())
	require.Equal(t, next.Load(), poppedCount.Load())
}

func TestStackLongChainDropDoesNotOverflowStack(t *testing.T) {
	s := rcstack.New[int]()
	const depth = 100_000
	for i := 0; i < depth; i++ {
		s.PushFront(i)
	}

	_, ok := s.PopFront() // would stack-overflow on drop if the tail recursed synchronously
	require.True(t, ok)
}
