package memoize

import (
	"context"
	"time"
)

// Func is the underlying computation wrapped by a cell. Errors propagate to
// the caller unchanged and are never cached.
type Func func(ctx context.Context, args ...any) (any, error)

// Stats reports per-cell counters. Failed computations count as errors, not
// misses, because they leave the cell untouched.
type Stats struct {
	Hits          uint64
	Misses        uint64
	Errors        uint64
	Invalidations uint64
}

// Memoized is a single-slot cache cell around one computation: it holds the
// last-seen argument list and the last-computed result, and skips the
// computation when a call repeats the stored arguments (and, for TTL cells,
// arrives inside the window).
//
// A cell is owned by one call site and performs no internal locking; use
// Shared when callers overlap.
type Memoized struct {
	fn       Func
	ttl      time.Duration
	expires  bool
	maxDepth int
	name     string
	observer Observer

	registry   *Registry
	registered bool

	args       []any
	result     any
	hasRun     bool
	computedAt time.Time

	stats Stats
	now   func() time.Time
}

// New wraps fn in a cell without expiry. It panics when fn is nil: wrapping a
// missing computation is a programming error surfaced at construction, not on
// first call.
// @group Memoization
//
// Example: repeat calls skip the computation
//
//	calls := 0
//	m := memoize.New(func(ctx context.Context, args ...any) (any, error) {
//		calls++
//		return args[0].(int) + args[1].(int), nil
//	})
//	sum, _ := m.Call(1, 2)
//	sum, _ = m.Call(1, 2)
//	fmt.Println(sum, calls) // 3 1
func New(fn Func, opts ...Option) *Memoized {
	return newCell("New", fn, 0, false, opts)
}

// NewTTL wraps fn in a cell whose stored result also expires ttl after the
// last successful computation, regardless of argument match. Hits do not
// extend the window; only a recomputation resets it. Panics when fn is nil or
// ttl is negative.
// @group Memoization
//
// Example: expiry forces a recompute even for identical arguments
//
//	m := memoize.NewTTL(fetchRates, 100*time.Millisecond)
//	first, _ := m.Call("EUR")
//	time.Sleep(150 * time.Millisecond)
//	second, _ := m.Call("EUR") // recomputed
//	_, _ = first, second
func NewTTL(fn Func, ttl time.Duration, opts ...Option) *Memoized {
	return newCell("NewTTL", fn, ttl, true, opts)
}

func newCell(caller string, fn Func, ttl time.Duration, expires bool, opts []Option) *Memoized {
	if fn == nil {
		panic("memoize: " + caller + " requires a non-nil function")
	}
	if ttl < 0 {
		panic("memoize: ttl must not be negative")
	}
	m := &Memoized{
		fn:       fn,
		ttl:      ttl,
		expires:  expires,
		maxDepth: DefaultMaxDepth,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BindTo attaches the cell's Invalidate to owner's registry under name. The
// registry entry is written lazily, on the cell's first invocation.
// @group Memoization
//
// Example: registry-aware cell
//
//	type Report struct{ memoize.Memos }
//	r := &Report{}
//	m := memoize.New(buildSummary).BindTo(r, "summary")
//	_, _ = m.Call()
//	memoize.ClearAllMemoized(r) // next Call recomputes
func (m *Memoized) BindTo(owner Owner, name string) *Memoized {
	m.registry = owner.MemoRegistry()
	m.name = name
	m.registered = false
	return m
}

// Name returns the cell's operation name, empty unless configured.
func (m *Memoized) Name() string { return m.name }

// HasRun reports whether the cell holds a computed result.
func (m *Memoized) HasRun() bool { return m.hasRun }

// Stats returns a snapshot of the cell's counters.
func (m *Memoized) Stats() Stats { return m.stats }

// Call invokes the cell with a background context.
// @group Memoization
func (m *Memoized) Call(args ...any) (any, error) {
	return m.CallCtx(context.Background(), args...)
}

// CallCtx returns the stored result when args match the stored argument list
// (and the TTL window, if any, has not elapsed); otherwise it runs the
// computation and stores its outcome. A failing computation leaves the cell
// exactly as it was, so the same-arguments retry computes again.
func (m *Memoized) CallCtx(ctx context.Context, args ...any) (any, error) {
	start := time.Now()
	m.bind()
	if m.hit(args) {
		m.stats.Hits++
		m.observe(ctx, "call", true, nil, start)
		return m.result, nil
	}
	out, err := m.fn(ctx, args...)
	if err != nil {
		m.stats.Errors++
		m.observe(ctx, "call", false, err, start)
		return nil, err
	}
	m.commit(args, out)
	m.stats.Misses++
	m.observe(ctx, "call", false, nil, start)
	return out, nil
}

// Invalidate resets the cell to its never-run state. Idempotent; safe before
// any invocation. Registry entries survive, so the next call simply
// re-registers at the same key.
// @group Memoization
func (m *Memoized) Invalidate() {
	start := time.Now()
	m.args = nil
	m.result = nil
	m.hasRun = false
	m.computedAt = time.Time{}
	m.stats.Invalidations++
	m.observe(context.Background(), "invalidate", false, nil, start)
}

func (m *Memoized) hit(args []any) bool {
	if !m.hasRun {
		return false
	}
	if m.expires && m.now().Sub(m.computedAt) >= m.ttl {
		return false
	}
	if len(args) != len(m.args) {
		return false
	}
	for i := range args {
		if !EqualDepth(args[i], m.args[i], m.maxDepth) {
			return false
		}
	}
	return true
}

// commit stores a successful computation. The argument slice is copied so a
// caller mutating its own slice afterwards cannot corrupt the stored key.
func (m *Memoized) commit(args []any, out any) {
	m.args = append([]any(nil), args...)
	m.result = out
	m.hasRun = true
	m.computedAt = m.now()
}

func (m *Memoized) bind() {
	if m.registry == nil || m.registered {
		return
	}
	m.registry.Register(m.name, m.Invalidate)
	m.registered = true
}

func (m *Memoized) observe(ctx context.Context, op string, hit bool, err error, start time.Time) {
	if m.observer == nil {
		return
	}
	m.observer.OnMemoOp(ctx, op, m.name, hit, err, time.Since(start))
}
