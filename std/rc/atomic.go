package rc

import (
	"sync/atomic"

	"github.com/arclib/arclib/std/rc/internal/retire"
	"github.com/arclib/arclib/std/rc/workerpool"
)

// AtomicStrong is an atomic slot holding a Strong[T]'s cell, safe for any
// number of concurrent Load/Store/Exchange/Swap/CompareAndSwap*/
// GetSnapshot calls. Every cell a Load/GetSnapshot observes stays valid
// for the duration of that call even if a concurrent Store displaces and
// retires it, courtesy of the shared acquire-retire engine.
type AtomicStrong[T any] struct {
	slot   atomic.Pointer[cell[T]]
	engine *retire.Engine[cell[T]]
	pool   *workerpool.Pool
}

// NewAtomicStrong creates an atomic slot initialized to desired, using
// the package defaults for the shared engine.
func NewAtomicStrong[T any](desired Strong[T]) *AtomicStrong[T] {
	return NewAtomicStrongConfig[T](desired, Config{})
}

// NewAtomicStrongConfig creates an atomic slot initialized to desired,
// configuring the engine shared by every AtomicStrong[T] if this is the
// first one constructed for T.
func NewAtomicStrongConfig[T any](desired Strong[T], cfg Config) *AtomicStrong[T] {
	a := &AtomicStrong[T]{
		engine: engineFor[T](cfg),
		pool:   cfg.pool(),
	}
	a.slot.Store(desired.release())
	return a
}

// Load returns a new Strong co-owning the cell currently in the slot (or
// the null handle if the slot is empty), incrementing its reference
// count.
func (a *AtomicStrong[T]) Load() Strong[T] {
	w, done := a.pool.Acquire()
	defer done()

	p, res := a.engine.Acquire(w, &a.slot)
	defer res.Release()

	return strongFromRaw(p, true)
}

// Store installs desired in the slot, transferring ownership of its
// reference count into the slot, and retires whatever was previously
// there.
func (a *AtomicStrong[T]) Store(desired Strong[T]) {
	newPtr := desired.release()

	w, done := a.pool.Acquire()
	defer done()

	old := a.slot.Swap(newPtr)
	if old != nil {
		a.engine.Retire(w, old)
	}
}

// Exchange installs desired in the slot and returns a Strong owning
// whatever was previously there, with no reference-count traffic in
// either direction: ownership simply changes hands.
func (a *AtomicStrong[T]) Exchange(desired *Strong[T]) Strong[T] {
	newPtr := desired.release()
	old := a.slot.Swap(newPtr)
	return Strong[T]{c: old}
}

// Swap exchanges the slot's content with desired with no reference-count
// traffic in either direction. Unlike Load/GetSnapshot, this performs no
// announcement of its own: it is safe only when the caller already holds
// an independent strong reference to the slot's current value (for
// example, a lock-free stack's push, which already owns the node whose
// "next" field it is about to install as the new head) -- not a general
// hazard-safe read. See DESIGN.md for why this method exists despite that
// restriction.
func (a *AtomicStrong[T]) Swap(desired *Strong[T]) {
	newPtr := desired.release()
	for {
		curPtr := a.slot.Load()
		if a.slot.CompareAndSwap(curPtr, newPtr) {
			desired.c = curPtr
			return
		}
	}
}

// GetSnapshot returns a reference-count-free read of the slot's current
// cell, protected by the acquire-retire engine's bounded snapshot
// announcement slots rather than by an increment.
func (a *AtomicStrong[T]) GetSnapshot() Snapshot[T] {
	w, done := a.pool.Acquire()
	defer done()

	p, res := a.engine.ProtectSnapshot(w, &a.slot, incrCell[T], decCell[T])
	return Snapshot[T]{c: p, res: res}
}

// CompareAndSwapStrong implements the Strong-expected, copy-desired
// overload: on success the displaced cell is retired and desired's
// reference count is incremented, leaving desired itself unchanged and
// still owned by the caller. On failure, expected is updated to the
// slot's current value, refreshed through the same announced Acquire
// Load uses (not a bare load) before its reference count is incremented,
// so a concurrent retire can't reclaim it out from under the refresh.
func (a *AtomicStrong[T]) CompareAndSwapStrong(expected *Strong[T], desired Strong[T]) bool {
	w, done := a.pool.Acquire()
	defer done()

	desiredPtr := desired.c
	expectedPtr := expected.c

	var res retire.Reservation[cell[T]]
	if desiredPtr != nil {
		res = a.engine.Reserve(w, desiredPtr)
		defer res.Release()
	}

	if a.slot.CompareAndSwap(expectedPtr, desiredPtr) {
		if expectedPtr != nil {
			a.engine.Retire(w, expectedPtr)
		}
		if desiredPtr != nil {
			desiredPtr.addRefs(1)
		}
		return true
	}

	cur, curRes := a.engine.Acquire(w, &a.slot)
	defer curRes.Release()
	if expectedPtr != nil {
		decCell(expectedPtr) // expected's old reference is being replaced, not just overwritten
	}
	*expected = strongFromRaw(cur, true)
	return false
}

// CompareAndSwapStrongMove implements the Strong-expected, move-desired
// overload: on success, ownership of desired's reference transfers into
// the slot with no ref-count traffic, leaving desired null. On failure,
// desired is left untouched (still owned by the caller, for a retry) and
// expected is refreshed through an announced Acquire as in
// CompareAndSwapStrong.
func (a *AtomicStrong[T]) CompareAndSwapStrongMove(expected *Strong[T], desired *Strong[T]) bool {
	w, done := a.pool.Acquire()
	defer done()

	desiredPtr := desired.c
	expectedPtr := expected.c

	if a.slot.CompareAndSwap(expectedPtr, desiredPtr) {
		if expectedPtr != nil {
			a.engine.Retire(w, expectedPtr)
		}
		desired.c = nil
		return true
	}

	cur, curRes := a.engine.Acquire(w, &a.slot)
	defer curRes.Release()
	if expectedPtr != nil {
		decCell(expectedPtr)
	}
	*expected = strongFromRaw(cur, true)
	return false
}

// CompareAndSwapSnapshot implements the Snapshot-expected, copy-desired
// overload. No pre-reservation of expected is needed: the caller's live
// Snapshot already guarantees its cell is protected. Unlike the
// Strong-expected overloads, expected is left untouched on failure.
func (a *AtomicStrong[T]) CompareAndSwapSnapshot(expected *Snapshot[T], desired Strong[T]) bool {
	w, done := a.pool.Acquire()
	defer done()

	desiredPtr := desired.c
	expectedPtr := expected.c

	var res retire.Reservation[cell[T]]
	if desiredPtr != nil {
		res = a.engine.Reserve(w, desiredPtr)
		defer res.Release()
	}

	if a.slot.CompareAndSwap(expectedPtr, desiredPtr) {
		if expectedPtr != nil {
			a.engine.Retire(w, expectedPtr)
		}
		if desiredPtr != nil {
			desiredPtr.addRefs(1)
		}
		return true
	}
	return false
}

// CompareAndSwapSnapshotMove implements the Snapshot-expected,
// move-desired overload.
func (a *AtomicStrong[T]) CompareAndSwapSnapshotMove(expected *Snapshot[T], desired *Strong[T]) bool {
	w, done := a.pool.Acquire()
	defer done()

	desiredPtr := desired.c
	expectedPtr := expected.c

	if a.slot.CompareAndSwap(expectedPtr, desiredPtr) {
		if expectedPtr != nil {
			a.engine.Retire(w, expectedPtr)
		}
		desired.c = nil
		return true
	}
	return false
}

// Close drains this AtomicStrong's shared engine to quiescence, running
// every outstanding destructor. Since the engine is shared by every
// AtomicStrong[T], this should only be called when the caller knows no
// other AtomicStrong[T] is still in use -- typically at process shutdown
// or in a test's cleanup.
func (a *AtomicStrong[T]) Close() {
	a.engine.Close()
}
