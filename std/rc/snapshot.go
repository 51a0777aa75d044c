package rc

import "github.com/arclib/arclib/std/rc/internal/retire"

// Snapshot is a reference-count-free read of an AtomicStrong's current
// cell, obtained from GetSnapshot. While live, the acquire-retire engine's
// announcement keeps the cell from being reclaimed, but no atomic
// increment was paid to obtain it -- the tradeoff being that it must be
// released with Release before it goes out of scope, the way the
// original's destructor would do automatically.
type Snapshot[T any] struct {
	c   *cell[T]
	res retire.SnapshotReservation[cell[T]]
}

// IsNull reports whether this snapshot observed an empty slot.
func (s Snapshot[T]) IsNull() bool {
	return s.c == nil
}

// Get returns a pointer to the observed value, or nil for a null
// snapshot. Valid only until Release.
func (s Snapshot[T]) Get() *T {
	if s.c == nil {
		return nil
	}
	return s.c.get()
}

// Equal reports whether two snapshots (or a snapshot and a Strong's cell)
// observed the same cell.
func (s Snapshot[T]) Equal(o Snapshot[T]) bool {
	return s.c == o.c
}

// ToStrong promotes this snapshot to an independently owning Strong by
// taking out a real reference count increment, leaving the snapshot
// releasable (and in fact released) as normal.
func (s *Snapshot[T]) ToStrong() Strong[T] {
	if s.c == nil {
		return Strong[T]{}
	}
	strong := strongFromRaw(s.c, true)
	s.Release()
	return strong
}

// Release returns this snapshot's announcement slot. Safe to call on the
// zero value and more than once.
func (s *Snapshot[T]) Release() {
	if s.c == nil {
		return
	}
	s.res.Release()
	s.c = nil
}
