package fuse

import (
	"log/slog"
	"time"
)

type config struct {
	maxFailures int
	timeout     time.Duration
	pauseTime   time.Duration
	condition   Condition
	clock       Clock
	logger      *slog.Logger

	onOpen     func()
	onClose    func()
	onHalfOpen func()

	onStateChange OnStateChangeFunc
	onCall        OnCallFunc
	onReject      OnRejectFunc
}

// Option configures a Circuit.
type Option func(*config)

// WithMaxFailures sets consecutive failures before tripping the circuit.
// Default is 5. Zero is legal: the circuit trips on the first failure.
func WithMaxFailures(n int) Option {
	return func(c *config) {
		c.maxFailures = n
	}
}

// WithTimeout sets how long the circuit stays open before a recovery
// probe becomes eligible. Default is 30 seconds. Zero is legal: the
// circuit becomes probe-eligible immediately.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithPauseTime sets the minimum spacing between admitted half-open
// probes, guarding against trial-call storms. Default is 0 (no spacing).
func WithPauseTime(d time.Duration) Option {
	return func(c *config) {
		c.pauseTime = d
	}
}

// If sets the condition that determines whether an error counts as a failure.
// By default, any non-nil error is a failure.
func If(cond Condition) Option {
	return func(c *config) {
		c.condition = cond
	}
}

// IfNot sets a condition where matching errors are NOT counted as failures.
// This is equivalent to If(Not(cond)).
func IfNot(cond Condition) Option {
	return If(Not(cond))
}

// Not inverts a condition.
func Not(cond Condition) Condition {
	return func(err error) bool {
		return !cond(err)
	}
}

// WithClock sets the clock for time operations. Useful for testing.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// OnOpen sets the callback fired each time the circuit transitions to open.
// The same registration is available after construction via SetOnOpen.
func OnOpen(fn func()) Option {
	return func(c *config) {
		c.onOpen = fn
	}
}

// OnClose sets the callback fired each time the circuit transitions to closed.
func OnClose(fn func()) Option {
	return func(c *config) {
		c.onClose = fn
	}
}

// OnHalfOpen sets the callback fired each time the circuit transitions to
// half-open.
func OnHalfOpen(fn func()) Option {
	return func(c *config) {
		c.onHalfOpen = fn
	}
}

// OnStateChange sets a hook called when the circuit changes state.
func OnStateChange(fn OnStateChangeFunc) Option {
	return func(c *config) {
		c.onStateChange = fn
	}
}

// OnCall sets a hook called after each call attempt.
func OnCall(fn OnCallFunc) Option {
	return func(c *config) {
		c.onCall = fn
	}
}

// OnReject sets a hook called when a call is rejected due to open circuit.
func OnReject(fn OnRejectFunc) Option {
	return func(c *config) {
		c.onReject = fn
	}
}
