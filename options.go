package memo

import "github.com/apex/log"

// Option mutates Config when constructing a Memoizer.
type Option func(Config) Config

// WithDriver selects the store backend used by New.
func WithDriver(driver Driver) Option {
	return func(cfg Config) Config {
		cfg.Driver = driver
		return cfg
	}
}

// WithObserver attaches an observer to receive operation events.
func WithObserver(o Observer) Option {
	return func(cfg Config) Config {
		cfg.Observer = o
		return cfg
	}
}

// WithLogger logs every operation to logger. It replaces any observer set earlier.
func WithLogger(logger log.Interface) Option {
	return WithObserver(NewLogObserver(logger))
}
