package rc

import "sync/atomic"

// cell is the heap allocation shared by every Strong/AtomicStrong/Snapshot
// that co-owns a given value of T. Its address is the identity used
// throughout this package and the acquire-retire engine: two handles
// refer to the same object iff their cell pointers are equal.
type cell[T any] struct {
	value  T
	refcnt atomic.Int64
}

func newCell[T any](v T) *cell[T] {
	c := &cell[T]{value: v}
	c.refcnt.Store(1)
	return c
}

func (c *cell[T]) addRefs(n int64) {
	c.refcnt.Add(n)
}

// releaseRefs drops n references and reports whether the count reached
// zero as a result of this call.
func (c *cell[T]) releaseRefs(n int64) bool {
	return c.refcnt.Add(-n) == 0
}

func (c *cell[T]) get() *T {
	return &c.value
}

// Destroyer lets a cell's value release further rc-managed handles it
// holds (e.g. a linked structure's "next" pointer) when its own reference
// count reaches zero. Types with no nested Strong/AtomicStrong fields need
// not implement it.
//
// Implementations must not call Release/Store directly on nested handles:
// doing so can recurse the Go call stack by chain depth for a long
// structure. Instead they call enqueue with a closure that performs the
// drop; runDestroy runs enqueued drops on a trampoline after RCDestroy
// returns, bounding the stack to a constant depth regardless of how deep
// the structure is.
type Destroyer interface {
	RCDestroy(enqueue func(func()))
}

func runDestroy[T any](c *cell[T]) {
	if d, ok := any(c.get()).(Destroyer); ok {
		d.RCDestroy(func(fn func()) { scheduleDrop(fn) })
	}
}

// decCell drops one reference and, if that was the last one, destroys the
// cell's value via runDestroy. This is the single decrement-and-maybe-
// destroy path shared by Strong.Release, the acquire-retire engine's
// deleter, and snapshot eviction give-back.
func decCell[T any](c *cell[T]) {
	if c.releaseRefs(1) {
		scheduleDrop(func() { runDestroy(c) })
	}
}

func incrCell[T any](c *cell[T]) {
	c.addRefs(1)
}
