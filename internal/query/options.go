package query

import (
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the periodic refresh interval
const DefaultInterval = 30 * time.Second

// Option configures a Controller
type Option[T any] func(*Controller[T])

// WithInterval sets the periodic refresh interval, measured from the end of the previous fetch.
// Non-positive values disable periodic refresh.
func WithInterval[T any](d time.Duration) Option[T] {
	return func(c *Controller[T]) {
		c.interval = d
	}
}

// WithLogger sets the logger
func WithLogger[T any](logger *zap.Logger) Option[T] {
	return func(c *Controller[T]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInitialData supplies a pre-fetched value consumed by the first enable transition only
func WithInitialData[T any](v T) Option[T] {
	return func(c *Controller[T]) {
		c.initial = &v
	}
}

// WithObserver installs lifecycle hooks, typically a metrics collector
func WithObserver[T any](o Observer) Option[T] {
	return func(c *Controller[T]) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithRefetchOnFocus toggles the window-focus trigger (enabled by default)
func WithRefetchOnFocus[T any](enabled bool) Option[T] {
	return func(c *Controller[T]) {
		c.refetchOnFocus = enabled
	}
}

type configureOptions[T any] struct {
	seed          *T
	connectionKey string
}

// ConfigureOption adjusts a single Configure call
type ConfigureOption[T any] func(*configureOptions[T])

// WithSeed populates data without a network call for the initial value of an enable transition
func WithSeed[T any](v T) ConfigureOption[T] {
	return func(o *configureOptions[T]) {
		o.seed = &v
	}
}

// WithConnectionKey sets the opaque connection identifier reported in snapshots
func WithConnectionKey[T any](key string) ConfigureOption[T] {
	return func(o *configureOptions[T]) {
		o.connectionKey = key
	}
}
