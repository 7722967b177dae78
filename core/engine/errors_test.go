package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type classifiedError struct {
	class Class
}

func (e classifiedError) Error() string   { return "classified" }
func (e classifiedError) SyncClass() Class { return e.class }

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Class
	}{
		{name: "Nil", err: nil, expected: ""},
		{name: "Transient", err: NewTransient("fetch", errors.New("reset")), expected: ClassTransient},
		{name: "Validation", err: NewValidation("team", 85, "no name"), expected: ClassValidation},
		{name: "Missing Dependency", err: NewMissingDependency("league", 39, "country", 9), expected: ClassMissingDependency},
		{name: "Fatal", err: NewFatal("migrate", errors.New("no such table")), expected: ClassFatal},
		{name: "Configuration", err: NewConfiguration("bad flag"), expected: ClassConfiguration},
		{name: "Wrapped", err: fmt.Errorf("sync: %w", NewValidation("team", 85, "no name")), expected: ClassValidation},
		{name: "Self Classified", err: classifiedError{class: ClassTransient}, expected: ClassTransient},
		{name: "Deadline", err: context.DeadlineExceeded, expected: ClassTransient},
		{name: "Network Timeout", err: timeoutError{}, expected: ClassTransient},
		{name: "Plain Error", err: errors.New("boom"), expected: ClassFatal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Classify(test.err))
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(NewTransient("fetch", errors.New("reset"))))
	assert.False(t, Retryable(NewValidation("team", 85, "no name")))
	assert.False(t, Retryable(nil))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(NewFatal("migrate", errors.New("boom"))))
	assert.True(t, IsFatal(NewConfiguration("bad flag")))
	assert.False(t, IsFatal(NewTransient("fetch", errors.New("reset"))))
	assert.False(t, IsFatal(nil))
}

func TestErrorMessages(t *testing.T) {
	err := NewMissingDependency("fixture", 1001, "team", 85)
	assert.Contains(t, err.Error(), "fixture")
	assert.Contains(t, err.Error(), "1001")
	assert.Contains(t, err.Error(), "team")
	assert.Contains(t, err.Error(), "85")

	wrapped := NewFatal("migrate", errors.New("no such table"))
	assert.ErrorContains(t, wrapped, "no such table")
	assert.ErrorContains(t, wrapped, "migrate")
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := NewTransient("fetch", inner)

	assert.ErrorIs(t, err, inner)
}
