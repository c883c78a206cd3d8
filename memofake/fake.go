package memofake

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goforj/memo"
)

// Fake wraps a fallback function and records every invocation, plus every
// operation of memoizers built through it, for assertions in tests.
type Fake[T any] struct {
	fn    memo.StoreFunc[T]
	calls map[memo.Key]int
	ops   map[string]map[memo.Key]int
	mu    sync.Mutex
}

// New creates a Fake around a key-only fallback function.
func New[T any](fn func(ctx context.Context, key memo.Key) (T, error)) *Fake[T] {
	return NewStoreAware[T](func(ctx context.Context, key memo.Key, _ memo.View[T]) (T, error) {
		return fn(ctx, key)
	})
}

// NewStoreAware creates a Fake around a fallback that reads the store.
func NewStoreAware[T any](fn memo.StoreFunc[T]) *Fake[T] {
	return &Fake[T]{
		fn:    fn,
		calls: make(map[memo.Key]int),
		ops:   make(map[string]map[memo.Key]int),
	}
}

// Failing creates a Fake whose fallback always returns err.
func Failing[T any](err error) *Fake[T] {
	return New[T](func(context.Context, memo.Key) (T, error) {
		var zero T
		return zero, err
	})
}

// Fallback returns an immediate fallback that records each call.
func (f *Fake[T]) Fallback() memo.Fallback[T] {
	return memo.StoreFunc[T](func(ctx context.Context, key memo.Key, view memo.View[T]) (T, error) {
		f.recordCall(key)
		return f.fn(ctx, key, view)
	})
}

// Deferred returns a fallback that records each call and runs the wrapped
// function on its own goroutine.
func (f *Fake[T]) Deferred() memo.Fallback[T] {
	return memo.DeferredStoreFunc[T](func(ctx context.Context, key memo.Key, view memo.View[T]) *memo.Future[T] {
		f.recordCall(key)
		return memo.Go(ctx, func(ctx context.Context) (T, error) {
			return f.fn(ctx, key, view)
		})
	})
}

// Memoizer builds a memoizer wired to the immediate fallback and to the
// Fake's operation recorder. An observer passed in opts replaces the recorder.
func (f *Fake[T]) Memoizer(opts ...memo.Option) *memo.Memoizer[T] {
	return memo.New[T](f.Fallback(), append([]memo.Option{memo.WithObserver(f.observer())}, opts...)...)
}

// DeferredMemoizer is Memoizer with the deferred fallback.
func (f *Fake[T]) DeferredMemoizer(opts ...memo.Option) *memo.Memoizer[T] {
	return memo.New[T](f.Deferred(), append([]memo.Option{memo.WithObserver(f.observer())}, opts...)...)
}

// Reset clears recorded counts.
func (f *Fake[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[memo.Key]int)
	f.ops = make(map[string]map[memo.Key]int)
}

// Count returns fallback calls for key.
func (f *Fake[T]) Count(key memo.Key) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

// Total returns fallback calls across keys.
func (f *Fake[T]) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int
	for _, v := range f.calls {
		sum += v
	}
	return sum
}

// OpCount returns how many times op completed for key on memoizers built by this Fake.
func (f *Fake[T]) OpCount(op string, key memo.Key) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ops[op][key]
}

// AssertCalled verifies the fallback ran for key the expected number of times.
func (f *Fake[T]) AssertCalled(t *testing.T, key memo.Key, times int) {
	t.Helper()
	if got := f.Count(key); got != times {
		t.Fatalf("expected fallback for %q called %d times, got %d", key, times, got)
	}
}

// AssertNotCalled ensures the fallback never ran for key.
func (f *Fake[T]) AssertNotCalled(t *testing.T, key memo.Key) {
	t.Helper()
	if got := f.Count(key); got != 0 {
		t.Fatalf("expected fallback for %q not called, got %d", key, got)
	}
}

// AssertTotal ensures the total fallback call count matches times.
func (f *Fake[T]) AssertTotal(t *testing.T, times int) {
	t.Helper()
	if got := f.Total(); got != times {
		t.Fatalf("expected fallback total=%d, got %d", times, got)
	}
}

func (f *Fake[T]) recordCall(key memo.Key) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
}

func (f *Fake[T]) observer() memo.Observer {
	return memo.ObserverFunc(func(_ context.Context, op string, key memo.Key, _ bool, _ error, _ time.Duration, _ memo.Driver) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.ops[op] == nil {
			f.ops[op] = make(map[memo.Key]int)
		}
		f.ops[op][key]++
	})
}
