package retire

import "sync/atomic"

// DefaultSnapshotSlots is the number of bounded snapshot announcement
// slots (S) a worker gets when a Config leaves it unset.
const DefaultSnapshotSlots = 3

// DefaultDelay is the number of retires a worker accumulates, per worker
// in the pool (itself included), before it attempts a reclamation pass.
const DefaultDelay = 5

// workerSlots holds one worker's announcement and retire-list state. It
// is owned exclusively by whichever goroutine currently holds that
// worker's id (see std/rc/workerpool): no field here is touched by two
// goroutines at once, except primary/snapshots, which other workers only
// ever read (never write) while scanning for a reclamation pass.
//
// The primary slot is kept off the snapshot slots' cache line with
// explicit padding, the same idiom this corpus uses for its own
// single-producer/single-consumer ring buffers, to avoid false sharing
// between a worker publishing a read and another worker scanning
// everyone's announcements during a reclamation pass.
type workerSlots[T any] struct {
	primary atomic.Pointer[T]
	_pad    [56]byte

	snapshots []atomic.Pointer[T]
	// snapGen is a per-slot ticket counter, bumped every time claimSnapshotSlot
	// (re)assigns that index, whether to a freshly empty slot or by evicting
	// an occupant. The same cell pointer can legitimately re-occupy a slot
	// across successive eviction generations (claimSnapshotSlot keeps
	// re-storing whatever value it's handed), so a SnapshotReservation cannot
	// tell whether it was evicted by comparing the slot's pointer value
	// against the one it observed -- it compares the ticket it was handed
	// against this counter instead. See reservation.go.
	snapGen  []atomic.Uint64
	lastFree int // round-robin eviction cursor, owned exclusively by this worker

	busy    atomic.Bool
	pending []*T
}

// claimSnapshotSlot returns the index of a snapshot slot to publish into,
// and the ticket that now owns it: preferably an empty slot, otherwise the
// slot at the round-robin eviction cursor, whose incumbent protection (if
// any) is promoted to a real reference count increment via incr before
// being overwritten. incr always completes before the ticket is minted, so
// a SnapshotReservation that later observes its ticket superseded can be
// sure the matching incr already ran.
func (ws *workerSlots[T]) claimSnapshotSlot(incr func(*T)) (int, uint64) {
	for i := range ws.snapshots {
		if ws.snapshots[i].Load() == nil {
			return i, ws.snapGen[i].Add(1)
		}
	}
	idx := ws.lastFree
	ws.lastFree = (ws.lastFree + 1) % len(ws.snapshots)
	if evicted := ws.snapshots[idx].Load(); evicted != nil {
		incr(evicted)
	}
	return idx, ws.snapGen[idx].Add(1)
}
