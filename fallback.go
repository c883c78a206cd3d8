package memo

import (
	"context"
	"errors"
)

var errNilFuture = errors.New("memo: deferred fallback returned nil future")

// Fallback produces a value for a missing key. It is implemented only by
// KeyFunc, StoreFunc, DeferredKeyFunc and DeferredStoreFunc.
type Fallback[T any] interface {
	produce(ctx context.Context, key Key, view View[T]) *Future[T]
	defined() bool
}

// KeyFunc computes a value from the key alone.
type KeyFunc[T any] func(ctx context.Context, key Key) (T, error)

// StoreFunc computes a value from the key and the entries memoized so far.
type StoreFunc[T any] func(ctx context.Context, key Key, store View[T]) (T, error)

// DeferredKeyFunc starts a computation for key and returns its Future.
type DeferredKeyFunc[T any] func(ctx context.Context, key Key) *Future[T]

// DeferredStoreFunc is the store-aware form of DeferredKeyFunc.
type DeferredStoreFunc[T any] func(ctx context.Context, key Key, store View[T]) *Future[T]

func (f KeyFunc[T]) produce(ctx context.Context, key Key, _ View[T]) *Future[T] {
	return settle[T](f(ctx, key))
}

func (f KeyFunc[T]) defined() bool { return f != nil }

func (f StoreFunc[T]) produce(ctx context.Context, key Key, view View[T]) *Future[T] {
	return settle[T](f(ctx, key, view))
}

func (f StoreFunc[T]) defined() bool { return f != nil }

func (f DeferredKeyFunc[T]) produce(ctx context.Context, key Key, _ View[T]) *Future[T] {
	return nonNil(f(ctx, key))
}

func (f DeferredKeyFunc[T]) defined() bool { return f != nil }

func (f DeferredStoreFunc[T]) produce(ctx context.Context, key Key, view View[T]) *Future[T] {
	return nonNil(f(ctx, key, view))
}

func (f DeferredStoreFunc[T]) defined() bool { return f != nil }

func nonNil[T any](f *Future[T]) *Future[T] {
	if f == nil {
		return Rejected[T](errNilFuture)
	}
	return f
}
