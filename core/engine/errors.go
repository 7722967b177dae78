package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Class partitions errors by how a job reacts to them.
type Class string

const (
	// ClassTransient errors (network timeouts, provider throttling) are
	// retried with backoff before being recorded as failures.
	ClassTransient Class = "transient"

	// ClassValidation errors (missing required field, malformed value)
	// fail one record; the job continues.
	ClassValidation Class = "validation"

	// ClassMissingDependency marks records whose required parent is
	// absent and auto-creation is not authorized.
	ClassMissingDependency Class = "missing_dependency"

	// ClassFatal errors (auth failure, schema drift, storage down) abort
	// the whole job. Already-committed records stay committed.
	ClassFatal Class = "fatal"

	// ClassConfiguration errors reject the job before any fetch begins.
	ClassConfiguration Class = "configuration"
)

// Error is a classified synchronization error.
type Error struct {
	Class      Class
	Op         string
	Kind       EntityKind
	ExternalID int64
	Err        error
}

func (e *Error) Error() string {
	msg := string(e.Class)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Kind != "" {
		prefix := string(e.Kind)
		if e.ExternalID != 0 {
			prefix = fmt.Sprintf("%s %d", prefix, e.ExternalID)
		}
		msg = prefix + ": " + msg
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTransient wraps err as retryable.
func NewTransient(op string, err error) *Error {
	return &Error{Class: ClassTransient, Op: op, Err: err}
}

// NewValidation reports a malformed or incomplete record.
func NewValidation(kind EntityKind, externalID int64, format string, args ...any) *Error {
	return &Error{Class: ClassValidation, Kind: kind, ExternalID: externalID, Err: fmt.Errorf(format, args...)}
}

// NewMissingDependency reports a required parent that is absent locally
// and not authorized for auto-creation.
func NewMissingDependency(kind EntityKind, externalID int64, parent EntityKind, parentID int64) *Error {
	return &Error{
		Class:      ClassMissingDependency,
		Kind:       kind,
		ExternalID: externalID,
		Err:        fmt.Errorf("parent %s %d not found and auto-create not authorized", parent, parentID),
	}
}

// NewFatal wraps err as job-aborting.
func NewFatal(op string, err error) *Error {
	return &Error{Class: ClassFatal, Op: op, Err: err}
}

// NewConfiguration rejects a job before any fetch begins.
func NewConfiguration(format string, args ...any) *Error {
	return &Error{Class: ClassConfiguration, Err: fmt.Errorf(format, args...)}
}

// Classifier lets collaborator errors declare their own class without
// depending on this package's Error type.
type Classifier interface {
	SyncClass() Class
}

// Classify returns the class of err. Unclassified errors are fatal: a
// failure the engine cannot attribute to one record (storage down,
// unexpected schema) must not be retried or swallowed per-record.
func Classify(err error) Class {
	if err == nil {
		return ""
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Class
	}
	var c Classifier
	if errors.As(err, &c) {
		return c.SyncClass()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTransient
	}
	return ClassFatal
}

// Retryable reports whether err should be retried with backoff.
func Retryable(err error) bool {
	return Classify(err) == ClassTransient
}

// IsFatal reports whether err must abort the job.
func IsFatal(err error) bool {
	c := Classify(err)
	return c == ClassFatal || c == ClassConfiguration
}
