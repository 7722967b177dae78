// Package ratelimit throttles outbound provider calls to the request
// budget of the configured plan.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Config tunes the outbound request throttle.
type Config struct {
	PerMinute   int `mapstructure:"per_minute" default:"300"`
	Burst       int `mapstructure:"burst" default:"10"`
	WaitSeconds int `mapstructure:"wait_seconds" default:"30"`
}

// Limiter gates outbound provider calls. One limiter is shared by
// every worker of a job so the budget holds across the whole run.
type Limiter struct {
	limiter *rate.Limiter
	maxWait time.Duration
}

// New builds a limiter from the config, falling back to safe values
// for anything unset.
func New(cfg Config) *Limiter {
	perMinute := cfg.PerMinute
	if perMinute <= 0 {
		perMinute = 300
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	maxWait := time.Duration(cfg.WaitSeconds) * time.Second
	if maxWait <= 0 {
		maxWait = 30 * time.Second
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
		maxWait: maxWait,
	}
}

// Wait blocks until a request slot is free. It gives up once the
// configured wait budget is spent so a drained quota surfaces as an
// error instead of a stalled job.
func (l *Limiter) Wait(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()
	if err := l.limiter.Wait(waitCtx); err != nil {
		return fmt.Errorf("request budget exhausted: %w", err)
	}
	return nil
}

// Allow reports whether a request slot is free right now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
