// Package fuse implements the circuit breaker pattern for resilient distributed systems.
//
// fuse protects services from cascading failures by:
//
//   - Tracking Failures: Consecutive errors trip the circuit open
//   - Fast Rejection: Open circuits reject calls immediately without load
//   - Guarded Recovery: A single spaced probe tests if the service has recovered
//   - Transition Callbacks: OnOpen, OnClose, OnHalfOpen per-transition hooks
//   - Observability Hooks: OnStateChange, OnCall, OnReject and WithLogger
//
// # Quick Start
//
// Create a circuit and protect calls:
//
//	circuit := fuse.New("payment-service")
//
//	err := circuit.Do(ctx, func(ctx context.Context) error {
//	    return client.Charge(ctx, amount)
//	})
//	if fuse.IsOpen(err) {
//	    return handleFallback()
//	}
//
// For functions that return values, use the generic Run helper:
//
//	user, err := fuse.Run(ctx, circuit, func(ctx context.Context) (*User, error) {
//	    return client.GetUser(ctx, id)
//	})
//
// # Circuit States
//
// The circuit breaker has three states:
//
//	Closed (normal):
//	    - Requests flow through to the protected function
//	    - Consecutive failures are counted; any success resets the count
//	    - When failures reach the maximum, the circuit opens
//
//	Open (tripped):
//	    - Requests are rejected immediately with ErrOpen
//	    - After the timeout, the circuit transitions to half-open
//
//	HalfOpen (testing):
//	    - Exactly one probe call is admitted at a time
//	    - Probes are spaced at least the pause time apart
//	    - A successful probe closes the circuit, a failed one reopens it
//
// # Configuration
//
// Configure thresholds and timing with options:
//
//	circuit := fuse.New("api",
//	    fuse.WithMaxFailures(3),              // Open after 3 consecutive failures
//	    fuse.WithTimeout(30*time.Second),     // Wait 30s before half-open
//	    fuse.WithPauseTime(250*time.Millisecond), // Space probes 250ms apart
//	)
//
// Default values:
//
//   - MaxFailures: 5 consecutive failures
//   - Timeout: 30 seconds
//   - PauseTime: 0 (no spacing)
//
// A MaxFailures of 0 is legal but degenerate: the circuit trips on the
// first failure.
//
// # Rejections vs Failures
//
// Do never substitutes its own error for an executed call's outcome. The
// protected function's success value or error is always returned unchanged;
// ErrOpen is only returned instead of running the function at all. Use
// IsOpen to tell the two apart:
//
//	if fuse.IsOpen(err) {
//	    return cachedValue, nil // breaker rejected the call
//	}
//	if err != nil {
//	    return nil, err // call executed and failed
//	}
//
// # Failure Conditions
//
// By default, any non-nil error counts as a failure. Customize this with If:
//
//	// Only count specific errors as failures
//	circuit := fuse.New("api",
//	    fuse.If(func(err error) bool {
//	        return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable)
//	    }),
//	)
//
// Use IfNot to exclude certain errors:
//
//	// Don't count 404s as failures
//	circuit := fuse.New("api",
//	    fuse.IfNot(func(err error) bool {
//	        return errors.Is(err, ErrNotFound)
//	    }),
//	)
//
// # Transition Callbacks
//
// Each transition has a zero-argument callback, settable at construction or
// afterwards. A callback fires exactly once per real transition and never
// for a no-op Trip or Reset:
//
//	circuit := fuse.New("service",
//	    fuse.OnOpen(func() { alerts.Page("circuit opened") }),
//	)
//	circuit.SetOnClose(func() { alerts.Resolve("circuit closed") })
//
// Callbacks run synchronously inside the transition. Keep them short and
// never call back into the same circuit from one.
//
// # Observability Hooks
//
// Hooks provide observability without coupling to a specific logger or metrics system:
//
//	circuit := fuse.New("service",
//	    fuse.OnStateChange(func(name string, from, to fuse.State) {
//	        metrics.Gauge("circuit.state", float64(to), "circuit:"+name)
//	    }),
//	    fuse.OnCall(func(name string, state fuse.State, err error) {
//	        if err != nil {
//	            metrics.Increment("circuit.failure", "circuit:"+name)
//	        } else {
//	            metrics.Increment("circuit.success", "circuit:"+name)
//	        }
//	    }),
//	    fuse.OnReject(func(name string) {
//	        metrics.Increment("circuit.rejected", "circuit:"+name)
//	    }),
//	)
//
// For structured logs, hand the circuit a *slog.Logger:
//
//	circuit := fuse.New("service", fuse.WithLogger(slog.Default()))
//
// # Registry
//
// Protect many dependencies with one Registry; circuits are created on
// first use with the registry's options:
//
//	registry := fuse.NewRegistry(fuse.WithMaxFailures(3))
//	err := registry.Get("http://backend-1:8081").Do(ctx, call)
//
// # Manual Control
//
// Trip and Reset force the circuit open or closed, e.g. from an admin
// endpoint. Both are no-ops when the circuit is already in the target
// state, and fire no callbacks in that case:
//
//	circuit.Trip()
//	circuit.Reset()
//
// # Inspecting State
//
// Query the circuit's current status:
//
//	state := circuit.State()    // Closed, Open, or HalfOpen
//	name := circuit.Name()      // The circuit's name
//	stats := circuit.Stats()    // lifetime totals and consecutive failures
//
// # Testing
//
// Inject a fake clock to control time in tests:
//
//	type fakeClock struct {
//	    now time.Time
//	}
//
//	func (c *fakeClock) Now() time.Time { return c.now }
//	func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
//
//	func TestCircuitProbesAfterTimeout(t *testing.T) {
//	    clock := &fakeClock{now: time.Now()}
//	    circuit := fuse.New("test",
//	        fuse.WithMaxFailures(1),
//	        fuse.WithTimeout(30*time.Second),
//	        fuse.WithClock(clock),
//	    )
//
//	    // Trip the circuit
//	    _ = circuit.Do(ctx, func(ctx context.Context) error {
//	        return errors.New("fail")
//	    })
//	    assert.Equal(t, fuse.Open, circuit.State())
//
//	    // Advance time past the open timeout
//	    clock.Advance(31 * time.Second)
//	    assert.Equal(t, fuse.HalfOpen, circuit.State())
//	}
//
// # Loading Settings
//
// The config subpackage loads breaker settings from YAML and environment
// variables and converts them to options:
//
//	cfg, err := config.Load()
//	opts, err := cfg.Breaker.Options()
//	circuit := fuse.New("api", opts...)
//
// # Best Practices
//
// 1. Name circuits after the service they protect:
//
//	fuse.New("payment-gateway")
//	fuse.New("user-service")
//
// 2. Provide fallbacks for open circuits:
//
//	if fuse.IsOpen(err) {
//	    return cachedValue, nil
//	}
//
// 3. Tune the maximum based on your traffic patterns:
//
//	// High-traffic: higher threshold to avoid false positives
//	fuse.WithMaxFailures(10)
//
//	// Low-traffic: lower threshold for faster detection
//	fuse.WithMaxFailures(3)
//
// 4. Set a pause time when many callers share a circuit, so a flapping
// dependency is not hammered with back-to-back probes:
//
//	fuse.WithPauseTime(500 * time.Millisecond)
package fuse
