// Package memoize provides single-slot, optionally time-bounded memoization
// for expensive pure computations.
//
// Each cell caches exactly one result: the one produced by the last-seen
// argument list. A call whose arguments compare structurally equal to the
// stored list returns the stored result without running the computation; any
// other call recomputes and replaces the slot. Equality is decided by Equal,
// a deep structural comparator exposed for direct use.
//
//	m := memoize.New(func(ctx context.Context, args ...any) (any, error) {
//		return querySummary(ctx, args[0].(string))
//	})
//	out, err := m.Call("2024-q3") // computes
//	out, err = m.Call("2024-q3")  // cached
//	m.Invalidate()                // next call recomputes
//
// NewTTL adds an expiry window measured from the last successful computation.
// Owners embedding Memos can clear every cell bound to them with
// ClearAllMemoized. Cells perform no locking of their own; NewShared wraps a
// cell for concurrent callers and collapses overlapping identical calls into
// one computation.
package memoize
