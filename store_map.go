package memo

import "sync"

type mapStore[T any] struct {
	mu    sync.RWMutex
	items map[Key]T
}

func newMapStore[T any]() Store[T] {
	return &mapStore[T]{items: make(map[Key]T)}
}

func (s *mapStore[T]) Driver() Driver {
	return DriverMap
}

func (s *mapStore[T]) Lookup(key Key) (T, bool) {
	s.mu.RLock()
	value, ok := s.items[key]
	s.mu.RUnlock()
	return value, ok
}

func (s *mapStore[T]) Has(key Key) bool {
	_, ok := s.Lookup(key)
	return ok
}

func (s *mapStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *mapStore[T]) Range(fn func(Key, T) bool) {
	type entry struct {
		key   Key
		value T
	}
	// Snapshot first so fn can call back into the store.
	s.mu.RLock()
	entries := make([]entry, 0, len(s.items))
	for k, v := range s.items {
		entries = append(entries, entry{key: k, value: v})
	}
	s.mu.RUnlock()

	for _, e := range entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

func (s *mapStore[T]) Put(key Key, value T, overwrite bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; ok && !overwrite {
		return false
	}
	s.items[key] = value
	return true
}
