package memotest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goforj/memo"
)

// Options configures shared store contract checks.
type Options struct {
	// SkipConcurrency disables the racing-miss check.
	SkipConcurrency bool
	// Wait bounds how long the harness waits on asynchronous steps.
	Wait time.Duration
}

// Factory returns a new, empty store.
type Factory func() memo.Store[int]

// RunStoreContract runs a backend-agnostic memoizer contract suite against
// stores built by newStore.
func RunStoreContract(t *testing.T, newStore Factory, opts Options) {
	t.Helper()

	wait := opts.Wait
	if wait <= 0 {
		wait = 2 * time.Second
	}
	ctx := context.Background()
	k := memo.IntKey

	// Set/Get round-trip.
	m := memo.NewWithStore[int](newStore(), nil)
	m.Set(k(1), 7, false)
	if got, err := m.Get(k(1)); err != nil || got != 7 {
		t.Fatalf("unexpected get after set: value=%d err=%v", got, err)
	}

	// Overwrite guard.
	m.Set(k(1), 8, false)
	if got, _ := m.Get(k(1)); got != 7 {
		t.Fatalf("expected set without overwrite to keep 7, got %d", got)
	}
	m.Set(k(1), 9, true)
	if got, _ := m.Get(k(1)); got != 9 {
		t.Fatalf("expected set with overwrite to store 9, got %d", got)
	}

	// Zero values are present.
	m.Set(k(2), 0, false)
	if !m.Has(k(2)) {
		t.Fatalf("expected zero value to be present")
	}
	m.Set(k(2), 5, false)
	if got, _ := m.Get(k(2)); got != 0 {
		t.Fatalf("expected stored zero to survive set without overwrite, got %d", got)
	}

	// Int and string keys never collide.
	m.Set(memo.StringKey("1"), 100, false)
	if got, _ := m.Get(k(1)); got != 9 {
		t.Fatalf("string key clobbered int key: %d", got)
	}
	if got, _ := m.Get(memo.StringKey("1")); got != 100 {
		t.Fatalf("unexpected string key value: %d", got)
	}

	// Len and Range.
	if m.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", m.Len())
	}
	seen := 0
	m.Range(func(memo.Key, int) bool {
		seen++
		return true
	})
	if seen != 3 {
		t.Fatalf("expected range over 3 entries, got %d", seen)
	}
	seen = 0
	m.Range(func(memo.Key, int) bool {
		seen++
		return false
	})
	if seen != 1 {
		t.Fatalf("expected range to stop after first entry, got %d", seen)
	}

	// Missing key without fallback.
	empty := memo.NewWithStore[int](newStore(), nil)
	if _, err := empty.Get(k(1)); !errors.Is(err, memo.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if empty.Len() != 0 {
		t.Fatalf("expected failed get to leave store empty")
	}

	// Fallback runs once per key, immediate and deferred alike.
	for name, mk := range map[string]func(*int32) memo.Fallback[int]{
		"immediate": func(calls *int32) memo.Fallback[int] {
			return memo.KeyFunc[int](func(_ context.Context, key memo.Key) (int, error) {
				atomic.AddInt32(calls, 1)
				n, _ := key.Int()
				return int(n) * 2, nil
			})
		},
		"deferred": func(calls *int32) memo.Fallback[int] {
			return memo.DeferredKeyFunc[int](func(ctx context.Context, key memo.Key) *memo.Future[int] {
				atomic.AddInt32(calls, 1)
				return memo.Go(ctx, func(context.Context) (int, error) {
					n, _ := key.Int()
					return int(n) * 2, nil
				})
			})
		},
	} {
		var calls int32
		fm := memo.NewWithStore[int](newStore(), mk(&calls))
		for i := 0; i < 2; i++ {
			got, err := fm.GetCtx(ctx, k(21))
			if err != nil || got != 42 {
				t.Fatalf("%s fallback: value=%d err=%v", name, got, err)
			}
		}
		if atomic.LoadInt32(&calls) != 1 {
			t.Fatalf("%s fallback: expected 1 call, got %d", name, calls)
		}
		if fm.Len() != 1 {
			t.Fatalf("%s fallback: expected 1 entry, got %d", name, fm.Len())
		}
	}

	// Store-aware fallback derives from earlier entries.
	fib := memo.NewWithStore[int](newStore(), memo.StoreFunc[int](func(_ context.Context, key memo.Key, store memo.View[int]) (int, error) {
		n, _ := key.Int()
		a, okA := store.Lookup(memo.IntKey(n - 1))
		b, okB := store.Lookup(memo.IntKey(n - 2))
		if !okA || !okB {
			return 0, fmt.Errorf("missing predecessors of %d", n)
		}
		return a + b, nil
	}))
	fib.Set(k(3), 10, false)
	fib.Set(k(4), 12, false)
	if got, err := fib.Get(k(5)); err != nil || got != 22 {
		t.Fatalf("unexpected derived value: value=%d err=%v", got, err)
	}

	// Fallback failure propagates and writes nothing.
	boom := errors.New("boom")
	failing := memo.NewWithStore[int](newStore(), memo.KeyFunc[int](func(context.Context, memo.Key) (int, error) {
		return 0, boom
	}))
	if _, err := failing.Get(k(1)); err != boom {
		t.Fatalf("expected fallback error verbatim, got %v", err)
	}
	if failing.Has(k(1)) {
		t.Fatalf("expected failed fallback to leave key absent")
	}
	failing.Set(k(1), 3, false)
	if got, err := failing.Get(k(1)); err != nil || got != 3 {
		t.Fatalf("expected set after failure to work: value=%d err=%v", got, err)
	}

	if !opts.SkipConcurrency {
		runRacingMisses(t, newStore, wait)
	}
}

// runRacingMisses starts two misses for one key, lets the first fallback
// finish and store, then lets the second finish. Both callers must see the
// first value.
func runRacingMisses(t *testing.T, newStore Factory, wait time.Duration) {
	t.Helper()

	var calls int32
	started := make(chan struct{}, 2)
	release := []chan struct{}{make(chan struct{}), make(chan struct{})}

	m := memo.NewWithStore[int](newStore(), memo.DeferredKeyFunc[int](func(ctx context.Context, _ memo.Key) *memo.Future[int] {
		n := atomic.AddInt32(&calls, 1)
		started <- struct{}{}
		return memo.Go(ctx, func(context.Context) (int, error) {
			<-release[n-1]
			return int(n), nil
		})
	}))

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	results := make([]int, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i := range results {
		g.Go(func() error {
			v, err := m.GetCtx(gctx, memo.IntKey(1))
			results[i] = v
			return err
		})
	}

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-ctx.Done():
			t.Fatalf("fallbacks did not both start: %v", ctx.Err())
		}
	}
	close(release[0])
	for !m.Has(memo.IntKey(1)) {
		select {
		case <-ctx.Done():
			t.Fatalf("first fallback never stored: %v", ctx.Err())
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(release[1])

	if err := g.Wait(); err != nil {
		t.Fatalf("racing gets failed: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected each miss to run the fallback, got %d calls", calls)
	}
	for i, v := range results {
		if v != 1 {
			t.Fatalf("caller %d saw %d, expected first stored value 1", i, v)
		}
	}
}
