package memo

import "context"

// Future is the handle returned by deferred fallbacks. It settles exactly
// once, with either a value or an error.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn on its own goroutine and returns a Future for its result.
// fn runs to completion even if every waiter gives up.
// @group Futures
//
// Example: deferred computation
//
//	f := memo.Go(ctx, func(ctx context.Context) (int, error) {
//		return 42, nil
//	})
//	v, _ := f.Await(ctx)
//	fmt.Println(v) // 42
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Resolved returns a Future already settled with value.
// @group Futures
func Resolved[T any](value T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: value}
	close(f.done)
	return f
}

// Rejected returns a Future already settled with err.
// @group Futures
func Rejected[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

func settle[T any](value T, err error) *Future[T] {
	if err != nil {
		return Rejected[T](err)
	}
	return Resolved(value)
}

// Done is closed once the Future has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the Future settles or ctx is done. A settled Future
// always wins over a done ctx.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
