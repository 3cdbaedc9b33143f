package memoize

import (
	"context"
	"time"
)

// Observer receives events for cell operations.
// It is called after each operation completes.
type Observer interface {
	OnMemoOp(ctx context.Context, op string, name string, hit bool, err error, dur time.Duration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, op string, name string, hit bool, err error, dur time.Duration)

// OnMemoOp implements Observer.
func (f ObserverFunc) OnMemoOp(ctx context.Context, op string, name string, hit bool, err error, dur time.Duration) {
	if f == nil {
		return
	}
	f(ctx, op, name, hit, err, dur)
}
