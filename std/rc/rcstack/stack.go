// Package rcstack is a lock-free, multi-producer/multi-consumer stack
// built entirely on the exported std/rc atomic reference-counted pointer
// surface: the stack's only shared mutable state is a single
// AtomicStrong[node[T]] holding the head, and every node's "next" pointer
// is set once at construction and never mutated again, so concurrent
// readers can walk the chain reached from a GetSnapshot without any
// further protection.
package rcstack

import "github.com/arclib/arclib/std/rc"

type node[T any] struct {
	value T
	next  rc.Strong[node[T]]
}

// RCDestroy drops this node's tail via the trampoline rather than
// releasing it directly, so popping or dropping a long stack cannot
// recurse the Go call stack by stack depth.
func (n *node[T]) RCDestroy(enqueue func(func())) {
	if n.next.IsNull() {
		return
	}
	next := n.next
	n.next = rc.Strong[node[T]]{}
	enqueue(func() { next.Release() })
}

// Stack is a lock-free stack of values of type T.
type Stack[T any] struct {
	head *rc.AtomicStrong[node[T]]
}

// New creates an empty stack.
func New[T any]() *Stack[T] {
	return &Stack[T]{head: rc.NewAtomicStrong(rc.Strong[node[T]]{})}
}

// NewConfig creates an empty stack, tuning the acquire-retire engine
// shared by every Stack[T] (and every other AtomicStrong[node[T]]) via
// cfg.
func NewConfig[T any](cfg rc.Config) *Stack[T] {
	return &Stack[T]{head: rc.NewAtomicStrongConfig(rc.Strong[node[T]]{}, cfg)}
}

// PushFront pushes v onto the stack.
func (s *Stack[T]) PushFront(v T) {
	newNode := rc.NewStrong(node[T]{value: v})
	newNode.Get().next = s.head.Load() // move: Load's reference now lives in next

	for {
		if s.head.CompareAndSwapStrongMove(&newNode.Get().next, &newNode) {
			return
		}
		// CompareAndSwapStrongMove refreshed newNode.Get().next to the
		// current head (and released the stale one) on failure, so the
		// retry needs nothing further before trying again.
	}
}

// PopFront removes and returns the value at the top of the stack, or the
// zero value and false if the stack is empty.
func (s *Stack[T]) PopFront() (T, bool) {
	for {
		snap := s.head.GetSnapshot()
		if snap.IsNull() {
			var zero T
			snap.Release()
			return zero, false
		}

		next := snap.Get().next.Clone()
		if s.head.CompareAndSwapSnapshotMove(&snap, &next) {
			val := snap.Get().value
			snap.Release()
			return val, true
		}
		next.Release()
		snap.Release()
	}
}

// Front returns the value at the top of the stack without removing it, or
// the zero value and false if the stack is empty.
func (s *Stack[T]) Front() (T, bool) {
	snap := s.head.GetSnapshot()
	defer snap.Release()

	if snap.IsNull() {
		var zero T
		return zero, false
	}
	return snap.Get().value, true
}

// Find returns the first value (searching from the top) for which match
// returns true, walking a single point-in-time snapshot of the stack.
func (s *Stack[T]) Find(match func(T) bool) (T, bool) {
	snap := s.head.GetSnapshot()
	defer snap.Release()

	for cur := snap.Get(); cur != nil; cur = cur.next.Get() {
		if match(cur.value) {
			return cur.value, true
		}
	}

	var zero T
	return zero, false
}
