package fuse

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// Closed is the normal operating state. Requests flow through.
	Closed State = iota

	// Open is the tripped state. Requests are rejected immediately.
	Open

	// HalfOpen is the recovery testing state. A single probe is allowed.
	HalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Func is the function signature for protected operations.
type Func func(ctx context.Context) error

// Condition determines whether an error should count as a failure.
type Condition func(error) bool

// OnStateChangeFunc is called when the circuit changes state.
type OnStateChangeFunc func(name string, from, to State)

// OnCallFunc is called after each call attempt.
type OnCallFunc func(name string, state State, err error)

// OnRejectFunc is called when a call is rejected without running.
type OnRejectFunc func(name string)

// ErrOpen is returned when the circuit rejects a call without running it:
// either the circuit is open and its timeout has not elapsed, or it is
// half-open and a probe is already in flight or the pause window has not
// elapsed. It is never produced by the protected operation itself, so
// callers can always tell a rejection from an executed failure.
var ErrOpen = errors.New("circuit open")

// IsOpen reports whether err is because the circuit rejected the call.
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpen)
}

// Default values.
const (
	DefaultMaxFailures = 5
	DefaultTimeout     = 30 * time.Second
	DefaultPauseTime   = 0
)

// Stats is a point-in-time snapshot of a circuit's counters.
type Stats struct {
	State          State
	Failures       int    // consecutive failures since the last success or reset
	TotalSuccesses uint64 // lifetime successful calls
	TotalFailures  uint64 // lifetime failed calls
	Rejected       uint64 // lifetime calls rejected with ErrOpen
}

// Circuit is a circuit breaker. Safe for concurrent use.
//
// A Circuit starts closed. Consecutive failures at or above the configured
// maximum trip it open, after which calls are rejected with ErrOpen until
// the timeout elapses. It then admits exactly one probe call at a time,
// spaced at least the configured pause apart; a successful probe closes
// the circuit, a failed probe reopens it.
type Circuit struct {
	name string
	cfg  config

	mu          sync.Mutex
	state       State
	failures    int
	openedAt    time.Time
	lastProbeAt time.Time
	probing     bool
	probeGen    uint64

	totalSuccesses uint64
	totalFailures  uint64
	rejected       uint64

	onOpen     func()
	onClose    func()
	onHalfOpen func()
}

// New creates a Circuit with the given options.
func New(name string, opts ...Option) *Circuit {
	cfg := config{
		maxFailures: DefaultMaxFailures,
		timeout:     DefaultTimeout,
		pauseTime:   DefaultPauseTime,
		condition:   defaultCondition,
		clock:       realClock{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger != nil {
		cfg.onStateChange = logStateChange(cfg.logger, cfg.onStateChange)
		cfg.onReject = logReject(cfg.logger, cfg.onReject)
	}
	return &Circuit{
		name:       name,
		cfg:        cfg,
		state:      Closed,
		onOpen:     cfg.onOpen,
		onClose:    cfg.onClose,
		onHalfOpen: cfg.onHalfOpen,
	}
}

// Do executes fn with circuit breaker protection.
//
// The admission decision and the accounting of fn's outcome each hold the
// circuit's lock; fn itself runs outside it, so a slow call never blocks
// other callers from being admitted or rejected. fn's own error or success
// is always returned unchanged; Do only adds ErrOpen as a possible outcome.
func (c *Circuit) Do(ctx context.Context, fn Func) error {
	state, probe, err := c.allow()
	if err != nil {
		if c.cfg.onReject != nil {
			c.cfg.onReject(c.name)
		}
		return err
	}

	fnErr := fn(ctx)

	c.record(fnErr, probe)

	if c.cfg.onCall != nil {
		c.cfg.onCall(c.name, state, fnErr)
	}

	return fnErr
}

// State returns the current state.
func (c *Circuit) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentState()
}

// Trip forces the circuit open. No-op if already open.
func (c *Circuit) Trip() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setState(Open)
}

// Reset forces the circuit closed and clears the failure count. No-op if
// already closed. Exposed for manual intervention; the automatic path back
// to closed runs through a successful half-open probe.
func (c *Circuit) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setState(Closed)
}

// Name returns the circuit name.
func (c *Circuit) Name() string {
	return c.name
}

// Counts returns the current consecutive failure count.
func (c *Circuit) Counts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

// Stats returns a snapshot of the circuit's state and counters.
func (c *Circuit) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		State:          c.currentState(),
		Failures:       c.failures,
		TotalSuccesses: c.totalSuccesses,
		TotalFailures:  c.totalFailures,
		Rejected:       c.rejected,
	}
}

// SetOnOpen registers fn to be called each time the circuit transitions to
// open. It replaces any previously registered callback. Callbacks run
// synchronously inside the transition, so they must be short and must not
// call back into the same circuit.
func (c *Circuit) SetOnOpen(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onOpen = fn
}

// SetOnClose registers fn to be called each time the circuit transitions to
// closed, replacing any previously registered callback.
func (c *Circuit) SetOnClose(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClose = fn
}

// SetOnHalfOpen registers fn to be called each time the circuit transitions
// to half-open, replacing any previously registered callback.
func (c *Circuit) SetOnHalfOpen(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onHalfOpen = fn
}

// allow decides whether a call may run. It returns the state the decision
// was made in, a probe token (nonzero when this call claimed the probe
// slot), and ErrOpen if the call is rejected. In half-open at most one
// caller at a time gets past it.
func (c *Circuit) allow() (State, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.currentState()
	switch state {
	case Open:
		c.rejected++
		return state, 0, ErrOpen
	case HalfOpen:
		now := c.cfg.clock.Now()
		if c.probing || now.Sub(c.lastProbeAt) < c.cfg.pauseTime {
			c.rejected++
			return state, 0, ErrOpen
		}
		c.probing = true
		c.probeGen++
		c.lastProbeAt = now
		return state, c.probeGen, nil
	}
	return state, 0, nil
}

// record accounts for a completed call and applies the resulting
// transition, if any. probe is the token handed out by allow; only the
// call that owns the probe slot decides the half-open outcome.
func (c *Circuit) record(err error, probe uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	isFailure := c.cfg.condition(err)
	if isFailure {
		c.totalFailures++
	} else {
		c.totalSuccesses++
	}

	if probe != 0 {
		// A transition since admission (Trip, Reset) clears probing and
		// invalidates the slot; the outcome then only counts toward the
		// lifetime totals.
		if !c.probing || probe != c.probeGen {
			return
		}
		c.probing = false
		if isFailure {
			c.recordFailure()
			c.setState(Open)
		} else {
			c.recordSuccess()
			c.setState(Closed)
		}
		return
	}

	// Admitted while closed. If the circuit has moved on in the meantime,
	// a straggler's outcome must not decide the half-open probe or reopen
	// the circuit; it only counts toward the lifetime totals.
	if c.state != Closed {
		return
	}
	if isFailure {
		c.recordFailure()
	} else {
		c.recordSuccess()
	}
}

// recordFailure bumps the consecutive failure count and trips the circuit
// when the count reaches the maximum while closed. Transitions out of other
// states are decided by the caller.
func (c *Circuit) recordFailure() {
	c.failures++
	if c.state == Closed && c.failures >= c.cfg.maxFailures {
		c.setState(Open)
	}
}

// recordSuccess clears the consecutive failure count. State-agnostic: any
// transition the success implies belongs to the caller.
func (c *Circuit) recordSuccess() {
	c.failures = 0
}

// currentState flips an expired open circuit to half-open before reporting.
func (c *Circuit) currentState() State {
	if c.state == Open && c.cfg.clock.Now().Sub(c.openedAt) >= c.cfg.timeout {
		c.setState(HalfOpen)
	}
	return c.state
}

// setState applies a transition. Same-state transitions are no-ops and fire
// no callbacks. openedAt is set exactly while open; lastProbeAt is kept
// across transitions so the pause spacing holds between half-open episodes.
func (c *Circuit) setState(to State) {
	if c.state == to {
		return
	}
	from := c.state
	c.state = to

	c.failures = 0
	c.probing = false

	if to == Open {
		c.openedAt = c.cfg.clock.Now()
	} else {
		c.openedAt = time.Time{}
	}

	switch to {
	case Open:
		if c.onOpen != nil {
			c.onOpen()
		}
	case Closed:
		if c.onClose != nil {
			c.onClose()
		}
	case HalfOpen:
		if c.onHalfOpen != nil {
			c.onHalfOpen()
		}
	}

	if c.cfg.onStateChange != nil {
		c.cfg.onStateChange(c.name, from, to)
	}
}

func defaultCondition(err error) bool {
	return err != nil
}
