package memo

import (
	gocache "github.com/patrickmn/go-cache"
)

// goCacheStore keeps entries in a go-cache instance with expiry and the
// janitor disabled, so nothing is ever evicted.
type goCacheStore[T any] struct {
	cache *gocache.Cache
}

func newGoCacheStore[T any]() Store[T] {
	return &goCacheStore[T]{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

func (s *goCacheStore[T]) Driver() Driver {
	return DriverGoCache
}

func (s *goCacheStore[T]) Lookup(key Key) (T, bool) {
	item, ok := s.cache.Get(key.encode())
	if !ok {
		var zero T
		return zero, false
	}
	return asValue[T](item)
}

func (s *goCacheStore[T]) Has(key Key) bool {
	_, ok := s.cache.Get(key.encode())
	return ok
}

func (s *goCacheStore[T]) Len() int {
	return s.cache.ItemCount()
}

func (s *goCacheStore[T]) Range(fn func(Key, T) bool) {
	for raw, item := range s.cache.Items() {
		key, err := decodeKey(raw)
		if err != nil {
			continue
		}
		value, ok := asValue[T](item.Object)
		if !ok {
			continue
		}
		if !fn(key, value) {
			return
		}
	}
}

func (s *goCacheStore[T]) Put(key Key, value T, overwrite bool) bool {
	if overwrite {
		s.cache.Set(key.encode(), value, gocache.NoExpiration)
		return true
	}
	// Add fails only when the key already exists.
	return s.cache.Add(key.encode(), value, gocache.NoExpiration) == nil
}

// asValue recovers a T from go-cache's interface{} storage. A nil item is
// the zero value of an interface-typed T.
func asValue[T any](item any) (T, bool) {
	if item == nil {
		var zero T
		return zero, true
	}
	value, ok := item.(T)
	return value, ok
}
