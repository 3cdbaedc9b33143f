package memoize

// Lazy is the accessor variant: a zero-argument computation evaluated at most
// once per owner lifetime. The first Get computes and keeps the literal value;
// later Gets return it without calling the function. There are no arguments to
// compare and no invalidation; a Lazy lives and dies with its owner. Wrap the
// function in a cell via New0 when registry participation is needed.
type Lazy[T any] struct {
	fn    func() T
	done  bool
	value T
}

// NewLazy wraps fn in a compute-once accessor. Panics when fn is nil.
// @group Memoization
//
// Example: compute once per lifetime
//
//	l := memoize.NewLazy(func() int { return expensive() })
//	a := l.Get() // computes
//	b := l.Get() // stored value
//	fmt.Println(a == b) // true
func NewLazy[T any](fn func() T) *Lazy[T] {
	if fn == nil {
		panic("memoize: NewLazy requires a non-nil function")
	}
	return &Lazy[T]{fn: fn}
}

// Get returns the value, computing it on first access.
func (l *Lazy[T]) Get() T {
	if !l.done {
		l.value = l.fn()
		l.fn = nil
		l.done = true
	}
	return l.value
}
