package rc

import "sync"

// scheduleDrop runs fn, a closure that releases one cell's share of
// ownership and destroys it if that was the last one, without letting a
// long chain of nested Destroyer.RCDestroy calls recurse the Go call
// stack (see Destroyer and the linked-structure teardown scenario this
// package's scenario tests exercise).
//
// The first caller on any goroutine to find no drop already draining
// becomes the drainer: it runs its own fn, then keeps pulling off a
// shared queue until empty, running each queued fn in turn. Any drop
// scheduled while a drain is already in progress -- including one
// triggered by RCDestroy of the cell the drainer is currently
// destroying -- is appended to the queue instead of being run inline.
//
// A single shared queue serializes drains that happen to race across
// goroutines. That is a deliberate simplification: only the atomic slot's
// Load/Store/CompareAndSwap/GetSnapshot path is required to be wait-free;
// releasing a handle for the last time is not on that path.
var (
	dropMu       sync.Mutex
	dropQueue    []func()
	dropDraining bool
)

func scheduleDrop(fn func()) {
	dropMu.Lock()
	if dropDraining {
		dropQueue = append(dropQueue, fn)
		dropMu.Unlock()
		return
	}
	dropDraining = true
	dropQueue = append(dropQueue, fn)
	dropMu.Unlock()

	for {
		dropMu.Lock()
		if len(dropQueue) == 0 {
			dropDraining = false
			dropMu.Unlock()
			return
		}
		next := dropQueue[0]
		dropQueue = dropQueue[1:]
		dropMu.Unlock()

		next()
	}
}
