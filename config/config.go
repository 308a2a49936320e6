package config

import (
	"errors"
	"log/slog"
	"time"

	"github.com/kode4food/debounce/metrics"
	"github.com/kode4food/debounce/scheduler"
)

type (
	// Config conveys the properties of a Coalescer that one can configure
	// using Options
	Config struct {
		Delay     time.Duration
		Scheduler scheduler.Scheduler
		Logger    *slog.Logger
		Metrics   metrics.Collector
	}

	// Option applies an option to a Coalescer configuration instance
	Option func(*Config) error
)

// Defaults
const (
	DefaultDelay = 100 * time.Millisecond
)

var (
	ErrInvalidDelay = errors.New("debounce delay must be positive")
	ErrNilScheduler = errors.New("scheduler must not be nil")
	ErrNilLogger    = errors.New("logger must not be nil")
	ErrNilMetrics   = errors.New("metrics collector must not be nil")
)

// Defaults applies the default configuration values to a Config
func Defaults(c *Config) error {
	return Apply(c,
		WithDelay(DefaultDelay),
		WithScheduler(scheduler.NewTimer()),
		WithLogger(slog.Default()),
		WithMetrics(metrics.NewNop()),
	)
}

// Apply applies each Option to the Config in turn, stopping at the first
// one that fails
func Apply(c *Config, o ...Option) error {
	for _, fn := range o {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

// WithDelay sets the default debounce window, used whenever a submission
// does not provide its own timeout
func WithDelay(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return ErrInvalidDelay
		}
		c.Delay = d
		return nil
	}
}

// WithScheduler sets the Scheduler that arms flush timers
func WithScheduler(s scheduler.Scheduler) Option {
	return func(c *Config) error {
		if s == nil {
			return ErrNilScheduler
		}
		c.Scheduler = s
		return nil
	}
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return ErrNilLogger
		}
		c.Logger = l
		return nil
	}
}

// WithMetrics sets the metrics Collector
func WithMetrics(m metrics.Collector) Option {
	return func(c *Config) error {
		if m == nil {
			return ErrNilMetrics
		}
		c.Metrics = m
		return nil
	}
}
