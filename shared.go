package memoize

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// Shared is a concurrency-safe wrapper around a cell. Overlapping calls with
// the same argument list during a miss share one computation instead of each
// triggering it; calls with different argument lists still race for the slot
// and the last completion wins, as with the bare cell.
type Shared struct {
	mu    sync.Mutex
	cell  *Memoized
	group singleflight.Group

	registry   *Registry
	name       string
	registered bool
}

// NewShared wraps fn in a concurrency-safe cell without expiry. Panics when
// fn is nil.
// @group Memoization
//
// Example: concurrent identical calls compute once
//
//	s := memoize.NewShared(fetchCatalog)
//	for i := 0; i < 10; i++ {
//		go s.Call("books")
//	}
func NewShared(fn Func, opts ...Option) *Shared {
	return &Shared{cell: newCell("NewShared", fn, 0, false, opts)}
}

// NewSharedTTL is NewShared with an expiry window, like NewTTL.
// @group Memoization
func NewSharedTTL(fn Func, ttl time.Duration, opts ...Option) *Shared {
	return &Shared{cell: newCell("NewSharedTTL", fn, ttl, true, opts)}
}

// BindTo attaches the wrapper's Invalidate to owner's registry under name on
// the first invocation.
func (s *Shared) BindTo(owner Owner, name string) *Shared {
	s.mu.Lock()
	s.registry = owner.MemoRegistry()
	s.name = name
	s.registered = false
	s.mu.Unlock()
	return s
}

// HasRun reports whether the cell holds a computed result.
func (s *Shared) HasRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cell.HasRun()
}

// Stats returns a snapshot of the cell's counters.
func (s *Shared) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cell.Stats()
}

// Call invokes the wrapper with a background context.
// @group Memoization
func (s *Shared) Call(args ...any) (any, error) {
	return s.CallCtx(context.Background(), args...)
}

// CallCtx applies the cell's hit rule under a lock, then collapses concurrent
// misses for the same argument list into a single computation.
func (s *Shared) CallCtx(ctx context.Context, args ...any) (any, error) {
	s.mu.Lock()
	s.bind()
	if s.cell.hit(args) {
		s.cell.stats.Hits++
		out := s.cell.result
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	out, err, _ := s.group.Do(argsKey(args), func() (any, error) {
		// A sibling call may have committed these arguments while this one
		// waited in line.
		s.mu.Lock()
		if s.cell.hit(args) {
			s.cell.stats.Hits++
			out := s.cell.result
			s.mu.Unlock()
			return out, nil
		}
		s.mu.Unlock()

		out, err := s.cell.fn(ctx, args...)
		if err != nil {
			s.mu.Lock()
			s.cell.stats.Errors++
			s.mu.Unlock()
			return nil, err
		}
		s.mu.Lock()
		s.cell.commit(args, out)
		s.cell.stats.Misses++
		s.mu.Unlock()
		return out, nil
	})
	return out, err
}

// Invalidate resets the cell to its never-run state.
// @group Memoization
func (s *Shared) Invalidate() {
	s.mu.Lock()
	s.cell.Invalidate()
	s.mu.Unlock()
}

func (s *Shared) bind() {
	if s.registry == nil || s.registered {
		return
	}
	s.registry.Register(s.name, s.Invalidate)
	s.registered = true
}

// argsKey fingerprints an argument list for single-flight grouping. Distinct
// lists colliding here only serialize, never share a result, because the
// in-flight callback re-applies the structural hit rule.
func argsKey(args []any) string {
	d := xxhash.New()
	fmt.Fprintf(d, "%d", len(args))
	for _, arg := range args {
		fmt.Fprintf(d, "|%T=%v", arg, arg)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
