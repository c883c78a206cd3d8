package memo

// Driver identifies store backend.
type Driver string

const (
	DriverMap     Driver = "map"
	DriverGoCache Driver = "gocache"
)
