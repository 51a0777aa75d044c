package rc

import "errors"

// ErrInvalidConfig is the panic value used when a Config explicitly sets a
// tunable (SnapshotSlots, Delay) to a non-positive value. Leaving a field
// unset selects the default instead of triggering this.
var ErrInvalidConfig = errors.New("rc: invalid Config value")
