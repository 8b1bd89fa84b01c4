package fuse

import "time"

// Clock is the time source used to measure how long the circuit has been
// open and the spacing between probes. Inject a fake via WithClock for
// deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}
