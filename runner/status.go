package runner

import (
	"errors"
	"fmt"
)

// Status is the result code of a device runtime call. The numbering follows
// the status codes of vendor BLAS libraries so that reported codes line up
// with their documentation.
type Status int

const (
	StatusSuccess         Status = 0
	StatusNotInitialized  Status = 1
	StatusAllocFailed     Status = 3
	StatusInvalidValue    Status = 7
	StatusExecutionFailed Status = 13
	StatusInternalError   Status = 14
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNotInitialized:
		return "not initialized"
	case StatusAllocFailed:
		return "allocation failed"
	case StatusInvalidValue:
		return "invalid value"
	case StatusExecutionFailed:
		return "execution failed"
	case StatusInternalError:
		return "internal error"
	default:
		return fmt.Sprintf("status %d", int(s))
	}
}

// StatusError is a non-success device runtime result
type StatusError struct {
	Op     string
	Status Status
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Status)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Errorf builds a StatusError for op with a formatted cause
func Errorf(op string, status Status, format string, args ...interface{}) error {
	return &StatusError{Op: op, Status: status, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches status to a failed call. It returns nil when err is nil.
func Wrap(op string, status Status, err error) error {
	if err == nil {
		return nil
	}
	return &StatusError{Op: op, Status: status, Err: err}
}

// StatusOf extracts the device status carried by err. A nil error is
// StatusSuccess; errors not produced by the runtime map to StatusInternalError.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return StatusInternalError
}
