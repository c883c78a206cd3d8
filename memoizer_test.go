package memo

import (
	"context"
	"errors"
	"testing"
	"time"
)

var expectedErr = errors.New("expected failure")

func doubleKey(calls *int) KeyFunc[int] {
	return func(_ context.Context, key Key) (int, error) {
		*calls++
		n, _ := key.Int()
		return int(n) * 2, nil
	}
}

func TestMemoizerSetThenGet(t *testing.T) {
	m := New[string](nil)
	m.Set(IntKey(1), "First value", false)

	got, err := m.Get(IntKey(1))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != "First value" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestMemoizerSetWithoutOverwriteKeepsValue(t *testing.T) {
	m := New[int](nil)
	m.Set(IntKey(1), 2, false)
	m.Set(IntKey(1), 3, false)

	if got, _ := m.Get(IntKey(1)); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestMemoizerSetWithOverwriteReplaces(t *testing.T) {
	m := New[int](nil)
	m.Set(IntKey(1), 2, false)
	m.Set(IntKey(1), 3, true)

	if got, _ := m.Get(IntKey(1)); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestMemoizerAddReportsCreation(t *testing.T) {
	m := New[int](nil)
	if !m.Add(StringKey("a"), 1) {
		t.Fatalf("expected first add to create key")
	}
	if m.Add(StringKey("a"), 2) {
		t.Fatalf("expected second add to be ignored")
	}
	if got, _ := m.Get(StringKey("a")); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestMemoizerGetWithoutFallbackFails(t *testing.T) {
	m := New[int](nil)
	_, err := m.Get(IntKey(1))
	if !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected no mutation on miss")
	}
}

func TestMemoizerNilFuncIsNoFallback(t *testing.T) {
	var fn KeyFunc[int]
	m := New[int](fn)
	if _, err := m.Get(IntKey(1)); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound for nil func, got %v", err)
	}
}

func TestMemoizerFallbackCalledOnce(t *testing.T) {
	calls := 0
	m := New[int](doubleKey(&calls))

	for i := 0; i < 2; i++ {
		got, err := m.Get(IntKey(1))
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got != 2 {
			t.Fatalf("expected 2, got %d", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected fallback once, got %d", calls)
	}
}

func TestMemoizerFallbackNotCalledForPresentKey(t *testing.T) {
	calls := 0
	m := New[int](doubleKey(&calls))
	m.Set(IntKey(4), 100, false)

	if got, _ := m.Get(IntKey(4)); got != 100 {
		t.Fatalf("expected stored value, got %d", got)
	}
	if calls != 0 {
		t.Fatalf("expected no fallback call, got %d", calls)
	}
}

func TestMemoizerStoresZeroValues(t *testing.T) {
	calls := 0
	m := New[int](KeyFunc[int](func(context.Context, Key) (int, error) {
		calls++
		return 0, nil
	}))

	for i := 0; i < 3; i++ {
		if got, err := m.Get(IntKey(0)); err != nil || got != 0 {
			t.Fatalf("unexpected get: %d %v", got, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected zero value to be memoized, got %d calls", calls)
	}
}

func TestMemoizerStoreAwareFallback(t *testing.T) {
	m := New[int](StoreFunc[int](func(_ context.Context, key Key, store View[int]) (int, error) {
		n, _ := key.Int()
		prev, _ := store.Lookup(IntKey(n - 1))
		prevPrev, _ := store.Lookup(IntKey(n - 2))
		return prev + prevPrev, nil
	}))
	m.Set(IntKey(3), 10, false)
	m.Set(IntKey(4), 12, false)

	got, err := m.Get(IntKey(5))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != 22 {
		t.Fatalf("expected 22, got %d", got)
	}
	if !m.Has(IntKey(5)) {
		t.Fatalf("expected derived value stored")
	}
}

func TestMemoizerRecursiveFallback(t *testing.T) {
	var m *Memoizer[int]
	calls := 0
	m = New[int](KeyFunc[int](func(ctx context.Context, key Key) (int, error) {
		calls++
		n, _ := key.Int()
		if n < 2 {
			return int(n), nil
		}
		a, err := m.GetCtx(ctx, IntKey(n-1))
		if err != nil {
			return 0, err
		}
		b, err := m.GetCtx(ctx, IntKey(n-2))
		if err != nil {
			return 0, err
		}
		return a + b, nil
	}))

	got, err := m.Get(IntKey(30))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != 832040 {
		t.Fatalf("expected fib(30)=832040, got %d", got)
	}
	if calls != 31 {
		t.Fatalf("expected one fallback call per key, got %d", calls)
	}
}

func TestMemoizerFallbackFailurePropagates(t *testing.T) {
	m := New[int](KeyFunc[int](func(context.Context, Key) (int, error) {
		return 0, expectedErr
	}))

	if _, err := m.Get(IntKey(1)); err != expectedErr {
		t.Fatalf("expected fallback error verbatim, got %v", err)
	}
	if m.Has(IntKey(1)) {
		t.Fatalf("expected key to stay absent")
	}
	m.Set(IntKey(1), 5, false)
	if got, err := m.Get(IntKey(1)); err != nil || got != 5 {
		t.Fatalf("expected set after failure to work: %d %v", got, err)
	}
}

func TestMemoizerDeferredFallbackMatchesImmediate(t *testing.T) {
	immediateCalls := 0
	immediate := New[int](doubleKey(&immediateCalls))

	deferredCalls := 0
	deferred := New[int](DeferredKeyFunc[int](func(ctx context.Context, key Key) *Future[int] {
		deferredCalls++
		return Go(ctx, func(context.Context) (int, error) {
			n, _ := key.Int()
			return int(n) * 2, nil
		})
	}))

	for _, k := range []Key{IntKey(1), IntKey(2), IntKey(1)} {
		a, errA := immediate.Get(k)
		b, errB := deferred.Get(k)
		if errA != nil || errB != nil {
			t.Fatalf("get failed: %v / %v", errA, errB)
		}
		if a != b {
			t.Fatalf("mismatch for %s: %d != %d", k, a, b)
		}
	}
	if immediateCalls != 2 || deferredCalls != 2 {
		t.Fatalf("unexpected call counts: immediate=%d deferred=%d", immediateCalls, deferredCalls)
	}
	if immediate.Len() != deferred.Len() {
		t.Fatalf("store sizes differ: %d != %d", immediate.Len(), deferred.Len())
	}
	immediate.Range(func(k Key, v int) bool {
		if got, ok := deferred.Lookup(k); !ok || got != v {
			t.Fatalf("deferred store differs at %s: %d %v", k, got, ok)
		}
		return true
	})
}

func TestMemoizerDeferredStoreFallback(t *testing.T) {
	m := New[int](DeferredStoreFunc[int](func(ctx context.Context, key Key, store View[int]) *Future[int] {
		return Go(ctx, func(context.Context) (int, error) {
			n, _ := key.Int()
			a, _ := store.Lookup(IntKey(n - 1))
			b, _ := store.Lookup(IntKey(n - 2))
			return a + b, nil
		})
	}))
	m.Set(IntKey(3), 10, false)
	m.Set(IntKey(4), 12, false)

	if got, err := m.GetCtx(context.Background(), IntKey(5)); err != nil || got != 22 {
		t.Fatalf("expected 22, got %d %v", got, err)
	}
}

func TestMemoizerDeferredRejectionPropagates(t *testing.T) {
	m := New[int](DeferredKeyFunc[int](func(ctx context.Context, _ Key) *Future[int] {
		return Go(ctx, func(context.Context) (int, error) {
			return 0, expectedErr
		})
	}))
	if _, err := m.Get(IntKey(1)); err != expectedErr {
		t.Fatalf("expected rejection verbatim, got %v", err)
	}
	if m.Has(IntKey(1)) {
		t.Fatalf("expected key to stay absent")
	}
}

func TestMemoizerDeferredNilFutureFails(t *testing.T) {
	m := New[int](DeferredKeyFunc[int](func(context.Context, Key) *Future[int] {
		return nil
	}))
	if _, err := m.Get(IntKey(1)); !errors.Is(err, errNilFuture) {
		t.Fatalf("expected nil future error, got %v", err)
	}
}

func TestMemoizerCanceledWaitStoresNothing(t *testing.T) {
	release := make(chan struct{})
	m := New[int](DeferredKeyFunc[int](func(ctx context.Context, _ Key) *Future[int] {
		return Go(context.Background(), func(context.Context) (int, error) {
			<-release
			return 1, nil
		})
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := m.GetCtx(ctx, IntKey(1)); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	close(release)
	if m.Has(IntKey(1)) {
		t.Fatalf("expected abandoned wait to store nothing")
	}
}

func TestMemoizerInstancesAreIndependent(t *testing.T) {
	a := New[int](nil)
	b := New[int](nil)
	a.Set(IntKey(1), 1, false)
	if b.Has(IntKey(1)) {
		t.Fatalf("expected independent stores")
	}
}

func TestMemoizerFirstCompletedWriteStands(t *testing.T) {
	var m *Memoizer[int]
	calls := 0
	m = New[int](KeyFunc[int](func(context.Context, Key) (int, error) {
		calls++
		// Another writer lands while this fallback is computing.
		m.Set(IntKey(1), 99, false)
		return 1, nil
	}))

	got, err := m.Get(IntKey(1))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != 99 {
		t.Fatalf("expected earlier write to stand, got %d", got)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

func TestNewWithStoreNilUsesMapStore(t *testing.T) {
	m := NewWithStore[int](nil, nil)
	if m.Driver() != DriverMap {
		t.Fatalf("expected map driver, got %s", m.Driver())
	}
	if m.Store() == nil {
		t.Fatalf("expected store")
	}
}
