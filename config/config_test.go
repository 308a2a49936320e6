package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/debounce/config"
	"github.com/kode4food/debounce/metrics"
	"github.com/kode4food/debounce/scheduler"
)

func TestDefaults(t *testing.T) {
	as := assert.New(t)

	var cfg config.Config
	as.NoError(config.Defaults(&cfg))
	as.Equal(config.DefaultDelay, cfg.Delay)
	as.IsType(&scheduler.Timer{}, cfg.Scheduler)
	as.Equal(slog.Default(), cfg.Logger)
	as.Equal(metrics.NewNop(), cfg.Metrics)
}

func TestApplyOverrides(t *testing.T) {
	as := assert.New(t)

	v := scheduler.NewVirtual()
	var cfg config.Config
	as.NoError(config.Apply(&cfg,
		config.Defaults,
		config.WithDelay(500*time.Millisecond),
		config.WithScheduler(v),
	))
	as.Equal(500*time.Millisecond, cfg.Delay)
	as.Same(v, cfg.Scheduler)
}

func TestInvalidOptions(t *testing.T) {
	as := assert.New(t)

	var cfg config.Config
	as.ErrorIs(config.WithDelay(0)(&cfg), config.ErrInvalidDelay)
	as.ErrorIs(config.WithDelay(-time.Second)(&cfg), config.ErrInvalidDelay)
	as.ErrorIs(config.WithScheduler(nil)(&cfg), config.ErrNilScheduler)
	as.ErrorIs(config.WithLogger(nil)(&cfg), config.ErrNilLogger)
	as.ErrorIs(config.WithMetrics(nil)(&cfg), config.ErrNilMetrics)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	as := assert.New(t)

	var cfg config.Config
	err := config.Apply(&cfg,
		config.WithDelay(time.Second),
		config.WithDelay(0),
		config.WithDelay(2*time.Second),
	)
	as.ErrorIs(err, config.ErrInvalidDelay)
	as.Equal(time.Second, cfg.Delay)
}
