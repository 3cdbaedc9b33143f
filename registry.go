package memoize

import "sync"

// Registry indexes invalidate callbacks by operation name for one owning
// object. It has no expiry of its own; entries live as long as the owner.
type Registry struct {
	mu      sync.Mutex
	entries map[string]func()
}

// NewRegistry returns an empty registry.
// @group Registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]func())}
}

// Register stores invalidate under name. Re-registering the same name
// overwrites the entry, so a cell registering again after InvalidateAll never
// produces duplicates.
func (r *Registry) Register(name string, invalidate func()) {
	if invalidate == nil {
		return
	}
	r.mu.Lock()
	r.entries[name] = invalidate
	r.mu.Unlock()
}

// InvalidateAll invokes every registered callback in unspecified order and
// leaves the entries intact.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	callbacks := make([]func(), 0, len(r.entries))
	for _, fn := range r.entries {
		callbacks = append(callbacks, fn)
	}
	r.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

// Len reports how many operations have registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Owner is the shape contract required from objects hosting memoized
// operations: a single well-known slot holding their registry.
type Owner interface {
	MemoRegistry() *Registry
}

// Memos is an embeddable slot implementing Owner. The registry is allocated
// lazily on first use.
//
// Example: owner with memoized operations
//
//	type Report struct {
//		memoize.Memos
//		total *memoize.Memoized
//	}
type Memos struct {
	registry *Registry
}

// MemoRegistry implements Owner.
func (m *Memos) MemoRegistry() *Registry {
	if m.registry == nil {
		m.registry = NewRegistry()
	}
	return m.registry
}

// ClearAllMemoized invalidates every operation on owner that has been invoked
// at least once. Operations never invoked have no registry entry and are
// unaffected. Nil-safe.
// @group Registry
//
// Example: clear an owner's caches together
//
//	r := &Report{}
//	_, _ = r.Total()   // computes and registers
//	memoize.ClearAllMemoized(r)
//	_, _ = r.Total()   // computes again
func ClearAllMemoized(owner Owner) {
	if owner == nil {
		return
	}
	reg := owner.MemoRegistry()
	if reg == nil {
		return
	}
	reg.InvalidateAll()
}
