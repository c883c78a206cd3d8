package memo

import (
	"context"
	"time"
)

// Memoizer lazily fills a Store from an optional Fallback.
//
// Concurrent misses for the same key each run the fallback; the first
// completed write is kept and later results are discarded.
type Memoizer[T any] struct {
	store    Store[T]
	fallback Fallback[T]
	observer Observer
}

// New creates a memoizer with a fresh store. fallback may be nil, in which
// case Get fails with ErrKeyNotFound for absent keys.
// @group Memoizer
//
// Example: memoize a computation
//
//	m := memo.New[int](memo.KeyFunc[int](func(ctx context.Context, key memo.Key) (int, error) {
//		n, _ := key.Int()
//		return int(n) * 2, nil
//	}))
//	v, _ := m.Get(memo.IntKey(21))
//	fmt.Println(v) // 42
func New[T any](fallback Fallback[T], opts ...Option) *Memoizer[T] {
	cfg := buildConfig(opts)
	return newMemoizer(NewStore[T](cfg), fallback, cfg)
}

// NewWithStore binds a memoizer to a caller-supplied store. A nil store is
// replaced with an empty map store.
// @group Memoizer
//
// Example: memoizer over go-cache
//
//	m := memo.NewWithStore[string](memo.NewGoCacheStore[string](), nil)
//	fmt.Println(m.Driver()) // gocache
func NewWithStore[T any](store Store[T], fallback Fallback[T], opts ...Option) *Memoizer[T] {
	cfg := buildConfig(opts)
	if store == nil {
		store = newMapStore[T]()
	}
	return newMemoizer(store, fallback, cfg)
}

func newMemoizer[T any](store Store[T], fallback Fallback[T], cfg Config) *Memoizer[T] {
	if fallback != nil && !fallback.defined() {
		fallback = nil
	}
	return &Memoizer[T]{
		store:    store,
		fallback: fallback,
		observer: cfg.Observer,
	}
}

// Store returns the underlying store implementation.
func (m *Memoizer[T]) Store() Store[T] {
	return m.store
}

// Driver reports the underlying store driver.
func (m *Memoizer[T]) Driver() Driver {
	return m.store.Driver()
}

// Get returns the value for key, computing and storing it through the
// fallback when absent.
// @group Memoizer
//
// Example: get without fallback
//
//	m := memo.New[string](nil)
//	_, err := m.Get(memo.StringKey("missing"))
//	fmt.Println(errors.Is(err, memo.ErrKeyNotFound)) // true
func (m *Memoizer[T]) Get(key Key) (T, error) {
	return m.GetCtx(context.Background(), key)
}

// GetCtx is the context-aware variant of Get. ctx is passed to the
// fallback and bounds the wait on a deferred result; a canceled wait
// stores nothing while the computation itself runs on.
func (m *Memoizer[T]) GetCtx(ctx context.Context, key Key) (T, error) {
	start := time.Now()
	if value, ok := m.store.Lookup(key); ok {
		m.observe(ctx, OpGet, key, true, nil, start)
		return value, nil
	}

	var zero T
	if m.fallback == nil {
		err := keyNotFound(key)
		m.observe(ctx, OpGet, key, false, err, start)
		return zero, err
	}

	value, err := m.fallback.produce(ctx, key, m).Await(ctx)
	m.observe(ctx, OpFallback, key, false, err, start)
	if err != nil {
		m.observe(ctx, OpGet, key, false, err, start)
		return zero, err
	}

	m.Set(key, value, false)
	// Another caller may have stored first; its value stands.
	if stored, ok := m.store.Lookup(key); ok {
		value = stored
	}
	m.observe(ctx, OpGet, key, false, nil, start)
	return value, nil
}

// Set associates value with key. When key is present and overwrite is
// false the existing value is kept. Set never invokes the fallback.
// @group Memoizer
//
// Example: conditional overwrite
//
//	m := memo.New[int](nil)
//	m.Set(memo.IntKey(1), 10, false)
//	m.Set(memo.IntKey(1), 20, false)
//	v, _ := m.Get(memo.IntKey(1))
//	fmt.Println(v) // 10
func (m *Memoizer[T]) Set(key Key, value T, overwrite bool) {
	start := time.Now()
	written := m.store.Put(key, value, overwrite)
	m.observe(context.Background(), OpSet, key, !written, nil, start)
}

// Add stores value only when key is absent and reports whether it did.
// @group Memoizer
func (m *Memoizer[T]) Add(key Key, value T) bool {
	start := time.Now()
	created := m.store.Put(key, value, false)
	m.observe(context.Background(), OpAdd, key, created, nil, start)
	return created
}

// Lookup returns the stored value for key without invoking the fallback.
func (m *Memoizer[T]) Lookup(key Key) (T, bool) {
	return m.store.Lookup(key)
}

// Has reports whether key is present.
func (m *Memoizer[T]) Has(key Key) bool {
	return m.store.Has(key)
}

// Len reports the number of stored entries.
func (m *Memoizer[T]) Len() int {
	return m.store.Len()
}

// Range calls fn for each stored entry until fn returns false.
func (m *Memoizer[T]) Range(fn func(key Key, value T) bool) {
	m.store.Range(fn)
}

func (m *Memoizer[T]) observe(ctx context.Context, op string, key Key, hit bool, err error, start time.Time) {
	if m.observer == nil {
		return
	}
	m.observer.OnMemoOp(ctx, op, key, hit, err, time.Since(start), m.Driver())
}
