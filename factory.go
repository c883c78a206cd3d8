package memo

// NewStore returns an empty store for the requested driver. Unknown drivers
// get the map store.
// @group Constructors
//
// Example: select driver explicitly
//
//	store := memo.NewStore[int](memo.Config{Driver: memo.DriverGoCache})
//	fmt.Println(store.Driver()) // gocache
func NewStore[T any](cfg Config) Store[T] {
	cfg = cfg.withDefaults()
	switch cfg.Driver {
	case DriverGoCache:
		return newGoCacheStore[T]()
	default:
		return newMapStore[T]()
	}
}

// NewMapStore is a convenience for the default mutex-guarded map store.
// @group Constructors
func NewMapStore[T any]() Store[T] {
	return NewStore[T](Config{Driver: DriverMap})
}

// NewGoCacheStore is a convenience for a go-cache backed store.
// @group Constructors
func NewGoCacheStore[T any]() Store[T] {
	return NewStore[T](Config{Driver: DriverGoCache})
}
