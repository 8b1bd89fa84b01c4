package fuse

import "sync"

// Registry hands out named circuits created on demand with a shared set of
// options, so one process can protect many downstream dependencies without
// threading *Circuit values around. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	circuits map[string]*Circuit
	opts     []Option
}

// NewRegistry creates a Registry whose circuits are built with opts.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		circuits: make(map[string]*Circuit),
		opts:     opts,
	}
}

// Get returns the circuit for name, creating it on first use.
func (r *Registry) Get(name string) *Circuit {
	r.mu.RLock()
	c, ok := r.circuits[name]
	r.mu.RUnlock()

	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check: another goroutine may have created it.
	if c, ok = r.circuits[name]; ok {
		return c
	}

	c = New(name, r.opts...)
	r.circuits[name] = c
	return c
}

// Reset forces every registered circuit back to closed.
func (r *Registry) Reset() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.circuits {
		c.Reset()
	}
}

// Stats returns a snapshot of every registered circuit's state and counters.
func (r *Registry) Stats() map[string]Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[string]Stats, len(r.circuits))
	for name, c := range r.circuits {
		stats[name] = c.Stats()
	}
	return stats
}
