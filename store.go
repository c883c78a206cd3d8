package memo

// View is read-only access to memoized entries. Store-aware fallbacks
// receive the live View of the Memoizer that invoked them.
type View[T any] interface {
	Lookup(key Key) (T, bool)
	Has(key Key) bool
	Len() int
	// Range calls fn for each entry in no particular order until fn returns false.
	Range(fn func(key Key, value T) bool)
}

// Store is the backend contract a Memoizer writes through.
type Store[T any] interface {
	View[T]
	Driver() Driver
	// Put stores value under key. When overwrite is false and key is
	// present, Put leaves the entry unchanged and reports false. The
	// presence check and the write happen atomically.
	Put(key Key, value T, overwrite bool) bool
}
