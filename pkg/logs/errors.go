package logs

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValidationError is a malformed request, reported before any network activity
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError means the requested application, container or log file does not exist
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// TransportError wraps a failure to reach one of the yarn daemons or the archive
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap .
func (e *TransportError) Unwrap() error { return e.Err }

// ResolveError keeps the failure of the primary service and of its fallback
type ResolveError struct {
	Primary   error
	Secondary error
}

func (e *ResolveError) Error() string {
	if e.Secondary == nil {
		return e.Primary.Error()
	}
	return fmt.Sprintf("%v; fallback failed: %v", e.Primary, e.Secondary)
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func notFoundErrorf(format string, args ...interface{}) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation .
func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

// IsNotFound .
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// IsTransport .
func IsTransport(err error) bool {
	_, ok := errors.Cause(err).(*TransportError)
	return ok
}
