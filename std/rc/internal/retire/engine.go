package retire

import (
	"sync"
	"sync/atomic"

	"github.com/arclib/arclib/std/log"
)

// Deleter drops one reference count a retired cell was holding on the
// engine's behalf, destroying the cell's value if that was the last one.
// It is a stateless function, fixed for the lifetime of an Engine.
type Deleter[T any] func(*T)

// Engine implements the acquire-retire scheme for cells of type T. It is
// shared by every AtomicStrong[T] in the process (see std/rc's per-type
// engine registry): an Engine's memory overhead is bounded by the number
// of workers and snapshot slots, not by how many atomic slots exist.
type Engine[T any] struct {
	numWorkers func() int
	snapshotS  int
	delay      int
	deleter    Deleter[T]
	tag        log.Tag

	mu      sync.RWMutex
	workers []*workerSlots[T]
}

// NewEngine constructs an Engine. numWorkers is consulted on every
// reclamation pass, so it may reflect a worker pool that grows over time.
func NewEngine[T any](numWorkers func() int, snapshotSlots, delay int, deleter Deleter[T], tag log.Tag) *Engine[T] {
	if snapshotSlots <= 0 {
		snapshotSlots = DefaultSnapshotSlots
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Engine[T]{
		numWorkers: numWorkers,
		snapshotS:  snapshotSlots,
		delay:      delay,
		deleter:    deleter,
		tag:        tag,
	}
}

func (e *Engine[T]) slot(w int) *workerSlots[T] {
	e.mu.RLock()
	if w < len(e.workers) && e.workers[w] != nil {
		s := e.workers[w]
		e.mu.RUnlock()
		return s
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.workers) <= w {
		e.workers = append(e.workers, nil)
	}
	if e.workers[w] == nil {
		e.workers[w] = &workerSlots[T]{
			snapshots: make([]atomic.Pointer[T], e.snapshotS),
			snapGen:   make([]atomic.Uint64, e.snapshotS),
		}
	}
	return e.workers[w]
}

// Acquire runs the double-collect protocol against p: load, publish the
// result in worker w's primary announcement, then re-load to confirm
// nothing changed underneath. A mismatch retries. The returned
// Reservation must be released once the caller is done reading the
// result (by incrementing its reference count or otherwise).
func (e *Engine[T]) Acquire(w int, p *atomic.Pointer[T]) (*T, Reservation[T]) {
	ws := e.slot(w)
	for {
		result := p.Load()
		ws.primary.Store(result)
		if p.Load() == result {
			return result, Reservation[T]{slot: &ws.primary}
		}
	}
}

// Reserve unconditionally publishes p in worker w's primary announcement,
// for callers (such as a CAS's desired-side pre-reservation) that already
// hold a valid reference to p and only need it protected from reclamation
// until the operation completes.
func (e *Engine[T]) Reserve(w int, p *T) Reservation[T] {
	ws := e.slot(w)
	ws.primary.Store(p)
	return Reservation[T]{slot: &ws.primary}
}

// ProtectSnapshot runs the double-collect protocol into one of worker w's
// bounded snapshot announcement slots, evicting the one at the worker's
// round-robin cursor via incr if all are occupied. dec is the decrement used later by the returned
// reservation's Release if this protection itself gets evicted before the
// caller releases it.
func (e *Engine[T]) ProtectSnapshot(w int, p *atomic.Pointer[T], incr, dec func(*T)) (*T, SnapshotReservation[T]) {
	ws := e.slot(w)
	idx, ticket := ws.claimSnapshotSlot(incr)
	for {
		result := p.Load()
		ws.snapshots[idx].Store(result)
		if p.Load() == result {
			return result, SnapshotReservation[T]{
				slot:   &ws.snapshots[idx],
				gen:    &ws.snapGen[idx],
				ticket: ticket,
				ptr:    result,
				dec:    dec,
			}
		}
	}
}

// Retire defers p for reclamation on worker w's list, attempting a
// reclamation pass once that list has accumulated delay*numWorkers()
// entries.
func (e *Engine[T]) Retire(w int, p *T) {
	if p == nil {
		return
	}
	ws := e.slot(w)
	ws.pending = append(ws.pending, p)
	e.tryReclaim(w, ws)
}

func (e *Engine[T]) tryReclaim(w int, ws *workerSlots[T]) {
	if ws.busy.Load() {
		return
	}
	if len(ws.pending) < e.delay*e.numWorkers() {
		return
	}

	ws.busy.Store(true)
	defer ws.busy.Store(false)

	local := ws.pending
	ws.pending = nil

	log.Default().Trace(e.tag, "reclamation pass", "worker", w, "candidates", len(local))

	table := e.announcedTable()
	kept := local[:0]
	for _, p := range local {
		if table.consumeOne(p) {
			kept = append(kept, p)
		} else {
			e.deleter(p)
		}
	}
	ws.pending = append(ws.pending, kept...)
}

// announcedTable scans every worker's primary and snapshot announcements
// into a duplicate-tolerant multiset.
func (e *Engine[T]) announcedTable() *multiset[T] {
	e.mu.RLock()
	workers := e.workers
	e.mu.RUnlock()

	table := newMultiset[T](len(workers) * (1 + e.snapshotS))
	for _, ws := range workers {
		if ws == nil {
			continue
		}
		if p := ws.primary.Load(); p != nil {
			table.insert(p)
		}
		for i := range ws.snapshots {
			if p := ws.snapshots[i].Load(); p != nil {
				table.insert(p)
			}
		}
	}
	return table
}

// Close drains every worker's retire list to quiescence, running the
// deleter on every outstanding cell. A deleter may itself retire more
// cells (e.g. a destroyed node dropping its "next" pointer); Close loops
// until a full pass finds nothing left.
func (e *Engine[T]) Close() {
	e.mu.Lock()
	for _, ws := range e.workers {
		if ws != nil {
			ws.busy.Store(true)
		}
	}
	e.mu.Unlock()

	for {
		e.mu.RLock()
		workers := e.workers
		e.mu.RUnlock()

		var local []*T
		for _, ws := range workers {
			if ws == nil || len(ws.pending) == 0 {
				continue
			}
			local = append(local, ws.pending...)
			ws.pending = nil
		}
		if len(local) == 0 {
			return
		}
		for _, p := range local {
			e.deleter(p)
		}
	}
}
