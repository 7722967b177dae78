package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff() Backoff {
	return Backoff{InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiple: 2}
}

func TestRetryTransientThenSuccess(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), 3, fastBackoff(), func() error {
		calls++
		if calls < 3 {
			return NewTransient("fetch", errors.New("connection reset"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnNonTransient(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), 3, fastBackoff(), func() error {
		calls++
		return NewValidation("team", 85, "record has no name")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, ClassValidation, Classify(err))
}

func TestRetryExhausted(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), 3, fastBackoff(), func() error {
		calls++
		return NewTransient("fetch", errors.New("timeout"))
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, ClassTransient, Classify(err))
}

func TestRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Retry(ctx, 5, Backoff{InitialDelay: time.Hour, MaxDelay: time.Hour, Multiple: 2}, func() error {
		calls++
		cancel()
		return NewTransient("fetch", errors.New("timeout"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestBackoffDelay(t *testing.T) {
	b := Backoff{InitialDelay: 100 * time.Millisecond, MaxDelay: 250 * time.Millisecond, Multiple: 2}

	tests := []struct {
		name     string
		attempt  int
		expected time.Duration
	}{
		{name: "Attempt Zero", attempt: 0, expected: 0},
		{name: "First Retry", attempt: 1, expected: 100 * time.Millisecond},
		{name: "Second Retry", attempt: 2, expected: 200 * time.Millisecond},
		{name: "Capped", attempt: 3, expected: 250 * time.Millisecond},
		{name: "Stays Capped", attempt: 10, expected: 250 * time.Millisecond},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, b.Delay(test.attempt))
		})
	}
}

func TestConfigBackoffDefaults(t *testing.T) {
	b := Config{}.Backoff()

	assert.Equal(t, 500*time.Millisecond, b.InitialDelay)
	assert.GreaterOrEqual(t, b.MaxDelay, b.InitialDelay)
	assert.GreaterOrEqual(t, b.Multiple, 1.0)
}

func TestConfigWorkerLimit(t *testing.T) {
	assert.Equal(t, 8, Config{}.WorkerLimit())
	assert.Equal(t, 4, Config{Workers: 4}.WorkerLimit())
	assert.Equal(t, 64, Config{Workers: 500}.WorkerLimit())
}
