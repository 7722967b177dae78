package engine

import (
	"context"
	"time"
)

// Backoff is an exponential backoff schedule.
type Backoff struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiple     float64
}

// Delay returns the pause before the given retry attempt. Attempt 1 is
// the first retry, so attempt 0 never sleeps.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	d := b.InitialDelay
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * b.Multiple)
		if d >= b.MaxDelay {
			return b.MaxDelay
		}
	}
	if d > b.MaxDelay {
		return b.MaxDelay
	}
	return d
}

// Retry runs fn up to attempts times, sleeping per the backoff schedule
// between tries. Only transient failures are retried; any other class
// returns immediately. Context cancellation cuts the wait short and
// returns the last error.
func Retry(ctx context.Context, attempts int, b Backoff, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if Classify(err) != ClassTransient {
			return err
		}
		if attempt == attempts-1 {
			break
		}
		timer := time.NewTimer(b.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	return err
}
