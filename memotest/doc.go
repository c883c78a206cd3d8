// Package memotest provides a reusable behavioural contract for memo.Store
// implementations.
//
// Custom stores can run it from their own tests:
//
//	func TestShardedStoreContract(t *testing.T) {
//		memotest.RunStoreContract(t, func() memo.Store[int] {
//			return newShardedStore[int](16)
//		}, memotest.Options{})
//	}
//
// Each check gets a fresh store from the factory, so stores must not share
// state between instances.
package memotest
