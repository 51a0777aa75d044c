package retire

import "sync/atomic"

// Reservation is the RAII-style handle returned by Acquire/Reserve: it
// guarantees the caller's primary announcement slot is cleared on every
// exit path, however the caller's operation returns. It is a plain value,
// never reassigned after construction, and stored only in a defer --
// Go's lack of assignment operators means the missing-return-statement
// bug the original acquired&& move-assignment carried cannot recur here.
type Reservation[T any] struct {
	slot *atomic.Pointer[T]
}

// Release clears the announcement slot this reservation pinned. Safe to
// call on the zero value and more than once.
func (r Reservation[T]) Release() {
	if r.slot != nil {
		r.slot.Store(nil)
	}
}

// SnapshotReservation is the Reservation returned by ProtectSnapshot. Its
// protection can be evicted by a later ProtectSnapshot call on the same
// worker before the caller is done with it; Release accounts for that by
// giving back the reference count the eviction took out on its behalf,
// rather than assuming it still owns the slot outright.
//
// Ownership is tracked by ticket, not by comparing the slot's current
// pointer value against ptr: the same cell can legitimately re-occupy the
// same slot across successive eviction generations (claimSnapshotSlot
// keeps re-storing whatever pointer it's handed), which would make two
// different reservations indistinguishable by pointer value alone. gen is
// the slot's ticket counter and ticket is the value claimSnapshotSlot
// handed out when this reservation was made; seeing them still match at
// Release time is what proves no later claim has superseded this one.
type SnapshotReservation[T any] struct {
	slot   *atomic.Pointer[T]
	gen    *atomic.Uint64
	ticket uint64
	ptr    *T
	dec    func(*T)
}

// Release returns this snapshot's announcement. If no later claim has
// reused this slot (gen still reads as the ticket this reservation was
// issued), the announcement is simply cleared. If it has since been
// evicted by another snapshot on the same worker, eviction already
// promoted the protection into a real reference count increment (see
// workerSlots.claimSnapshotSlot) -- Release gives that increment back via
// dec instead, without touching the slot, which by now belongs to the
// newer claim.
func (r SnapshotReservation[T]) Release() {
	if r.ptr == nil {
		return
	}
	if r.gen.Load() == r.ticket {
		r.slot.Store(nil)
		return
	}
	r.dec(r.ptr)
}
