package memo

import "context"

// CoreAPI exposes basic memoizer metadata.
type CoreAPI interface {
	Driver() Driver
}

// ReadAPI exposes read operations, including fill-on-miss.
type ReadAPI[T any] interface {
	View[T]
	Get(key Key) (T, error)
	GetCtx(ctx context.Context, key Key) (T, error)
}

// WriteAPI exposes write operations.
type WriteAPI[T any] interface {
	Set(key Key, value T, overwrite bool)
	Add(key Key, value T) bool
}

// API is the composed application-facing interface for Memoizer.
type API[T any] interface {
	CoreAPI
	ReadAPI[T]
	WriteAPI[T]
}

var (
	_ API[int]  = (*Memoizer[int])(nil)
	_ View[int] = (*Memoizer[int])(nil)
)
