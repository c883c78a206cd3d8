package memo

import (
	"context"
	"testing"
	"time"
)

func TestConfigWithDefaults(t *testing.T) {
	cfg := (Config{}).withDefaults()
	if cfg.Driver != DriverMap {
		t.Fatalf("unexpected default driver: %s", cfg.Driver)
	}
	if cfg.Observer != nil {
		t.Fatalf("expected no default observer")
	}
}

func TestConfigWithDefaultsPreservesExplicitValues(t *testing.T) {
	obs := ObserverFunc(func(context.Context, string, Key, bool, error, time.Duration, Driver) {})
	cfg := (Config{Driver: DriverGoCache, Observer: obs}).withDefaults()
	if cfg.Driver != DriverGoCache {
		t.Fatalf("driver overwritten: %s", cfg.Driver)
	}
	if cfg.Observer == nil {
		t.Fatalf("observer overwritten")
	}
}

func TestOptionsApplyInOrder(t *testing.T) {
	cfg := buildConfig([]Option{WithDriver(DriverGoCache), nil, WithDriver(DriverMap)})
	if cfg.Driver != DriverMap {
		t.Fatalf("expected last option to win, got %s", cfg.Driver)
	}

	m := New[int](nil, WithDriver(DriverGoCache))
	if m.Driver() != DriverGoCache {
		t.Fatalf("expected gocache memoizer, got %s", m.Driver())
	}
}
