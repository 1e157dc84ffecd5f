package api

import (
	"errors"
	"fmt"
)

// TransportError is a failure below the HTTP status level: the request could not be built,
// sent, or its body could not be read/decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a response whose status is not the one the operation expects.
type StatusError struct {
	Op      string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return e.Message
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsStatus reports whether err is (or wraps) a StatusError.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
