package rc

// Strong is a strong, independently-owning reference to a cell of T. The
// zero value is the null handle.
//
// Strong has no copy constructor the way its C++ counterpart does: Go
// cannot hook plain assignment. Copying a Strong by assignment (s2 := s1)
// aliases the same cell without adjusting its reference count, which is
// almost always a bug -- call Clone to create a second owning reference,
// and Release exactly once per Clone/NewStrong call.
type Strong[T any] struct {
	c *cell[T]
}

// NewStrong allocates a new cell holding v with an initial reference
// count of one, analogous to make_shared.
func NewStrong[T any](v T) Strong[T] {
	return Strong[T]{c: newCell(v)}
}

// IsNull reports whether this handle owns no cell.
func (s Strong[T]) IsNull() bool {
	return s.c == nil
}

// Get returns a pointer to the owned value, or nil for the null handle.
// The pointer is valid for as long as this Strong (or any handle cloned
// from it) has not been released.
func (s Strong[T]) Get() *T {
	if s.c == nil {
		return nil
	}
	return s.c.get()
}

// UseCount returns a snapshot of the cell's live reference count. It is
// informational only: by the time the caller observes the result, any
// number of concurrent Clone/Release calls may have changed it. Do not
// use it for synchronization.
func (s Strong[T]) UseCount() int64 {
	if s.c == nil {
		return 0
	}
	return s.c.refcnt.Load()
}

// Clone returns a new Strong co-owning the same cell, incrementing its
// reference count. The null handle clones to itself.
func (s Strong[T]) Clone() Strong[T] {
	if s.c != nil {
		s.c.addRefs(1)
	}
	return s
}

// Equal reports whether two handles refer to the same cell.
func (s Strong[T]) Equal(o Strong[T]) bool {
	return s.c == o.c
}

// Release drops this handle's share of ownership, running the value's
// destructor (if it implements Destroyer) when the count reaches zero.
// Safe to call on the zero value; safe to call more than once, since the
// null handle and an already-released handle are indistinguishable by
// design (both simply do nothing).
func (s *Strong[T]) Release() {
	if s.c == nil {
		return
	}
	c := s.c
	s.c = nil
	decCell(c)
}

// release transfers ownership of the underlying cell to the caller
// without touching the reference count, leaving s null. Used internally
// by AtomicStrong to move a Strong's cell into or out of an atomic slot.
func (s *Strong[T]) release() *cell[T] {
	c := s.c
	s.c = nil
	return c
}

// strongFromRaw wraps a raw cell pointer (which may be nil) in a Strong,
// optionally taking out a new reference rather than assuming the caller's
// existing reference transfers.
func strongFromRaw[T any](c *cell[T], addRef bool) Strong[T] {
	if c != nil && addRef {
		c.addRefs(1)
	}
	return Strong[T]{c: c}
}
