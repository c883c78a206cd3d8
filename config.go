package memo

const defaultDriver = DriverMap

// Config controls how a Memoizer and its Store are constructed.
type Config struct {
	// Driver selects the store backend. Defaults to DriverMap.
	Driver Driver

	// Observer receives an event after each Memoizer operation.
	Observer Observer
}

func (c Config) withDefaults() Config {
	if c.Driver == "" {
		c.Driver = defaultDriver
	}
	return c
}

func buildConfig(opts []Option) Config {
	var cfg Config
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		cfg = opt(cfg)
	}
	return cfg.withDefaults()
}
