// Package rc implements a lock-free atomically reference-counted pointer
// with safe, deferred memory reclamation.
//
// Three handle types share one underlying counted cell:
//
//   - Strong[T] is an exclusive, copy-by-Clone owning reference. It is the
//     analogue of a shared_ptr/Arc handle: Get reads the value, UseCount
//     is an informational (non-synchronizing) snapshot of the live count,
//     and Release drops this handle's share of ownership.
//   - AtomicStrong[T] is an atomic slot that stores a Strong's cell and
//     supports Load/Store/Exchange/Swap/CompareAndSwap* concurrently from
//     any number of goroutines without ever freeing a cell out from under
//     a concurrent reader.
//   - Snapshot[T] is a read obtained from an AtomicStrong without paying
//     for a reference-count increment; it stays valid only because the
//     underlying acquire-retire engine (std/rc/internal/retire) defers
//     reclamation while the snapshot's announcement is outstanding.
//
// The package has no notion of weak references, custom per-object
// allocators, or cross-process sharing; see DESIGN.md for the reasoning.
package rc
