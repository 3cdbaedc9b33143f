package memoize

import "time"

// Option mutates a cell at construction time.
type Option func(*Memoized)

// WithObserver attaches an observer receiving one event per operation.
func WithObserver(o Observer) Option {
	return func(m *Memoized) {
		m.observer = o
	}
}

// WithName sets the operation name used in observer events and registry keys.
func WithName(name string) Option {
	return func(m *Memoized) {
		m.name = name
	}
}

// WithMaxDepth overrides the recursion budget used when comparing arguments.
// Values below 1 fall back to DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(m *Memoized) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}
		m.maxDepth = depth
	}
}

// WithTTL gives the cell an expiry window, like NewTTL. Panics when ttl is
// negative.
func WithTTL(ttl time.Duration) Option {
	return func(m *Memoized) {
		if ttl < 0 {
			panic("memoize: ttl must not be negative")
		}
		m.ttl = ttl
		m.expires = true
	}
}

// WithRegistry registers the cell's Invalidate under name in reg on the
// cell's first invocation. Equivalent to BindTo for callers that hold the
// registry directly.
func WithRegistry(reg *Registry, name string) Option {
	return func(m *Memoized) {
		m.registry = reg
		m.name = name
	}
}
