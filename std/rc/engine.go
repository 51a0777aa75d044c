package rc

import (
	"reflect"
	"sync"

	"github.com/arclib/arclib/std/rc/internal/retire"
)

// typeTag lets the acquire-retire engine's debug/trace logging identify
// which instantiation of AtomicStrong[T] a reclamation pass belongs to.
type typeTag string

func (t typeTag) String() string { return string(t) }

var (
	engineMu sync.Mutex
	engines  = map[reflect.Type]any{}
)

// engineFor returns the process-wide acquire-retire engine shared by every
// AtomicStrong[T], constructing it on first use from cfg. Later calls with
// a different cfg for the same T are ignored -- the engine, like the
// original's function-local static, is sized once.
func engineFor[T any](cfg Config) *retire.Engine[cell[T]] {
	cfg.validate()

	var key *cell[T]
	t := reflect.TypeOf(key)

	engineMu.Lock()
	defer engineMu.Unlock()
	if e, ok := engines[t]; ok {
		return e.(*retire.Engine[cell[T]])
	}

	pool := cfg.pool()
	e := retire.NewEngine[cell[T]](
		pool.NumWorkers,
		cfg.SnapshotSlots.GetOr(retire.DefaultSnapshotSlots),
		cfg.Delay.GetOr(retire.DefaultDelay),
		decCell[T],
		typeTag(t.String()),
	)
	engines[t] = e
	return e
}
