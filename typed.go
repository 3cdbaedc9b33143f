package memoize

import "context"

// Typed wrappers put a compile-time signature in front of an any-based cell.
// The equality engine still decides hits, so structurally identical composite
// arguments hit even when reference-distinct.

// Memoized0 is a typed cell around a zero-argument computation.
type Memoized0[R any] struct {
	cell *Memoized
}

// New0 wraps a zero-argument computation. Panics when fn is nil.
// @group Memoization
//
// Example: typed zero-argument cell
//
//	m := memoize.New0(func(ctx context.Context) (int, error) { return expensive(ctx) })
//	total, err := m.Call()
//	_, _ = total, err
func New0[R any](fn func(ctx context.Context) (R, error), opts ...Option) *Memoized0[R] {
	if fn == nil {
		panic("memoize: New0 requires a non-nil function")
	}
	cell := New(func(ctx context.Context, _ ...any) (any, error) {
		return fn(ctx)
	}, opts...)
	return &Memoized0[R]{cell: cell}
}

// BindTo attaches the cell to owner's registry under name.
func (m *Memoized0[R]) BindTo(owner Owner, name string) *Memoized0[R] {
	m.cell.BindTo(owner, name)
	return m
}

// Call invokes the cell with a background context.
func (m *Memoized0[R]) Call() (R, error) {
	return m.CallCtx(context.Background())
}

// CallCtx invokes the cell.
func (m *Memoized0[R]) CallCtx(ctx context.Context) (R, error) {
	out, err := m.cell.CallCtx(ctx)
	return typedResult[R](out, err)
}

// Invalidate resets the cell to its never-run state.
func (m *Memoized0[R]) Invalidate() { m.cell.Invalidate() }

// Stats returns a snapshot of the cell's counters.
func (m *Memoized0[R]) Stats() Stats { return m.cell.Stats() }

// Memoized1 is a typed cell around a one-argument computation.
type Memoized1[A, R any] struct {
	cell *Memoized
}

// New1 wraps a one-argument computation. Panics when fn is nil.
// @group Memoization
//
// Example: typed one-argument cell
//
//	m := memoize.New1(func(ctx context.Context, user string) (Profile, error) {
//		return loadProfile(ctx, user)
//	})
//	p, err := m.Call("ada")
//	_, _ = p, err
func New1[A, R any](fn func(ctx context.Context, a A) (R, error), opts ...Option) *Memoized1[A, R] {
	if fn == nil {
		panic("memoize: New1 requires a non-nil function")
	}
	cell := New(func(ctx context.Context, args ...any) (any, error) {
		a, _ := args[0].(A)
		return fn(ctx, a)
	}, opts...)
	return &Memoized1[A, R]{cell: cell}
}

// BindTo attaches the cell to owner's registry under name.
func (m *Memoized1[A, R]) BindTo(owner Owner, name string) *Memoized1[A, R] {
	m.cell.BindTo(owner, name)
	return m
}

// Call invokes the cell with a background context.
func (m *Memoized1[A, R]) Call(a A) (R, error) {
	return m.CallCtx(context.Background(), a)
}

// CallCtx invokes the cell.
func (m *Memoized1[A, R]) CallCtx(ctx context.Context, a A) (R, error) {
	out, err := m.cell.CallCtx(ctx, a)
	return typedResult[R](out, err)
}

// Invalidate resets the cell to its never-run state.
func (m *Memoized1[A, R]) Invalidate() { m.cell.Invalidate() }

// Stats returns a snapshot of the cell's counters.
func (m *Memoized1[A, R]) Stats() Stats { return m.cell.Stats() }

// Memoized2 is a typed cell around a two-argument computation.
type Memoized2[A, B, R any] struct {
	cell *Memoized
}

// New2 wraps a two-argument computation. Panics when fn is nil.
// @group Memoization
func New2[A, B, R any](fn func(ctx context.Context, a A, b B) (R, error), opts ...Option) *Memoized2[A, B, R] {
	if fn == nil {
		panic("memoize: New2 requires a non-nil function")
	}
	cell := New(func(ctx context.Context, args ...any) (any, error) {
		a, _ := args[0].(A)
		b, _ := args[1].(B)
		return fn(ctx, a, b)
	}, opts...)
	return &Memoized2[A, B, R]{cell: cell}
}

// BindTo attaches the cell to owner's registry under name.
func (m *Memoized2[A, B, R]) BindTo(owner Owner, name string) *Memoized2[A, B, R] {
	m.cell.BindTo(owner, name)
	return m
}

// Call invokes the cell with a background context.
func (m *Memoized2[A, B, R]) Call(a A, b B) (R, error) {
	return m.CallCtx(context.Background(), a, b)
}

// CallCtx invokes the cell.
func (m *Memoized2[A, B, R]) CallCtx(ctx context.Context, a A, b B) (R, error) {
	out, err := m.cell.CallCtx(ctx, a, b)
	return typedResult[R](out, err)
}

// Invalidate resets the cell to its never-run state.
func (m *Memoized2[A, B, R]) Invalidate() { m.cell.Invalidate() }

// Stats returns a snapshot of the cell's counters.
func (m *Memoized2[A, B, R]) Stats() Stats { return m.cell.Stats() }

func typedResult[R any](out any, err error) (R, error) {
	var zero R
	if err != nil {
		return zero, err
	}
	val, _ := out.(R)
	return val, nil
}
