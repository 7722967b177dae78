package provider

import (
	"fmt"

	"football-sync/core/engine"
)

// Error kinds, from most to least recoverable.
const (
	ErrorRateLimited = "rate_limited"
	ErrorNetwork     = "network"
	ErrorAuth        = "auth"
	ErrorSchema      = "schema"
)

// Error describes a failed provider interaction.
type Error struct {
	Kind    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("provider %s: %s", e.Kind, e.Message)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt can succeed.
func (e *Error) Retryable() bool {
	return e.Kind == ErrorRateLimited || e.Kind == ErrorNetwork
}

// SyncClass classifies provider failures for the sync engine: flaky
// transport and quota pressure are worth retrying, broken credentials
// and unrecognized payloads are not.
func (e *Error) SyncClass() engine.Class {
	if e.Retryable() {
		return engine.ClassTransient
	}
	return engine.ClassFatal
}
