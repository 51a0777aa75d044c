// Package retire implements the acquire-retire safe memory reclamation
// scheme shared by every AtomicStrong[T] of a given T: per-worker
// announcement slots publish which cells a goroutine is currently reading
// through an atomic slot, and retire defers freeing a displaced cell until
// a batched scan confirms no announcement still protects it.
//
// This is an internal implementation detail of std/rc; nothing here is
// part of the exported type surface.
package retire
