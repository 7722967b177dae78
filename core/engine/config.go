package engine

import "time"

// Config carries the runtime tuning of the reconciliation runner.
type Config struct {
	Workers        int     `mapstructure:"workers" default:"8"`
	MaxAttempts    int     `mapstructure:"max_attempts" default:"3"`
	RetryInitialMS int     `mapstructure:"retry_initial_ms" default:"500"`
	RetryMaxMS     int     `mapstructure:"retry_max_ms" default:"8000"`
	RetryMultiple  float64 `mapstructure:"retry_multiple" default:"2.0"`
	Timezone       string  `mapstructure:"timezone" default:"UTC"`
}

// WorkerLimit clamps the configured worker count to a sane range.
func (c Config) WorkerLimit() int {
	switch {
	case c.Workers <= 0:
		return 8
	case c.Workers > 64:
		return 64
	default:
		return c.Workers
	}
}

// Attempts returns the total attempt count per record, at least one.
func (c Config) Attempts() int {
	if c.MaxAttempts < 1 {
		return 1
	}
	return c.MaxAttempts
}

// Backoff derives the retry backoff schedule from the config.
func (c Config) Backoff() Backoff {
	b := Backoff{
		InitialDelay: time.Duration(c.RetryInitialMS) * time.Millisecond,
		MaxDelay:     time.Duration(c.RetryMaxMS) * time.Millisecond,
		Multiple:     c.RetryMultiple,
	}
	if b.InitialDelay <= 0 {
		b.InitialDelay = 500 * time.Millisecond
	}
	if b.MaxDelay < b.InitialDelay {
		b.MaxDelay = b.InitialDelay
	}
	if b.Multiple < 1 {
		b.Multiple = 2
	}
	return b
}
