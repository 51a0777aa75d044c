package rc_test

import (
	"testing"

	"github.com/arclib/arclib/std/rc"
	"github.com/stretchr/testify/require"
)

func TestStrongNullHandle(t *testing.T) {
	var s rc.Strong[int]
	require.True(t, s.IsNull())
	require.Nil(t, s.Get())
	require.Equal(t, int64(0), s.UseCount())
	s.Release() // no-op, must not panic
	s.Release() // idempotent
}

func TestStrongCloneUseCount(t *testing.T) {
	s := rc.NewStrong(42)
	require.False(t, s.IsNull())
	require.Equal(t, 42, *s.Get())
	require.Equal(t, int64(1), s.UseCount())

	s2 := s.Clone()
	require.Equal(t, int64(2), s.UseCount())
	require.True(t, s.Equal(s2))

	s2.Release()
	require.Equal(t, int64(1), s.UseCount())

	s.Release()
}

type destroyRecorder struct {
	destroyed *bool
}

func (d destroyRecorder) RCDestroy(enqueue func(func())) {
	*d.destroyed = true
}

func TestStrongDestroyerRunsAtZero(t *testing.T) {
	destroyed := false
	s := rc.NewStrong(destroyRecorder{destroyed: &destroyed})
	clone := s.Clone()

	s.Release()
	require.False(t, destroyed, "destructor must not run while a clone is still live")

	clone.Release()
	require.True(t, destroyed)
}

// listNode models a self-referential structure whose destructor drops the
// next node, the way a linked list's node destructor would. RCDestroy
// enqueues the drop instead of releasing next directly so that a long
// chain cannot recurse the Go call stack when the head is released.
type listNode struct {
	val  int
	next rc.Strong[listNode]
}

func (n *listNode) RCDestroy(enqueue func(func())) {
	if n.next.IsNull() {
		return
	}
	next := n.next
	n.next = rc.Strong[listNode]{}
	enqueue(func() { next.Release() })
}

func TestStrongLongChainReleaseDoesNotOverflowStack(t *testing.T) {
	const depth = 100_000

	head := rc.NewStrong(listNode{val: 0})
	for i := 1; i < depth; i++ {
		node := rc.NewStrong(listNode{val: i, next: head})
		head = node
	}

	head.Release() // would stack-overflow if RCDestroy recursed synchronously
}
