package memo

import (
	"context"
	"time"
)

// Op names reported to observers.
const (
	OpGet      = "get"
	OpFallback = "fallback"
	OpSet      = "set"
	OpAdd      = "add"
)

// Observer receives events for memoizer operations.
// It is called after each operation completes, never while a store lock is held.
type Observer interface {
	OnMemoOp(ctx context.Context, op string, key Key, hit bool, err error, dur time.Duration, driver Driver)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, op string, key Key, hit bool, err error, dur time.Duration, driver Driver)

// OnMemoOp implements Observer.
func (f ObserverFunc) OnMemoOp(ctx context.Context, op string, key Key, hit bool, err error, dur time.Duration, driver Driver) {
	if f == nil {
		return
	}
	f(ctx, op, key, hit, err, dur, driver)
}
