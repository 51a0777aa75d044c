package rc

import (
	"github.com/arclib/arclib/std/rc/workerpool"
	"github.com/arclib/arclib/std/types/optional"
)

// Config tunes the reclamation engine shared by every AtomicStrong[T] of a
// given T. The zero value selects the package defaults: three snapshot
// slots per worker, a retire-list threshold of five entries per worker,
// and the default global worker pool.
type Config struct {
	SnapshotSlots optional.Optional[int]
	Delay         optional.Optional[int]
	Workers       *workerpool.Pool
}

func (c Config) pool() *workerpool.Pool {
	if c.Workers != nil {
		return c.Workers
	}
	return workerpool.Default
}

func (c Config) validate() {
	if v, ok := c.SnapshotSlots.Get(); ok && v <= 0 {
		panic(ErrInvalidConfig)
	}
	if v, ok := c.Delay.Get(); ok && v <= 0 {
		panic(ErrInvalidConfig)
	}
}
