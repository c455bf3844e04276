package protocol

import (
	"errors"
	"fmt"
)

// -- Error Types --

// MalformedMessageError is returned when a client frame cannot be decoded.
type MalformedMessageError struct {
	Cause error
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMalformedMessage, e.Cause)
}
func (e *MalformedMessageError) Unwrap() []error { return []error{ErrMalformedMessage, e.Cause} }

// -- Sentinels --

var (
	ErrMalformedMessage = errors.New("malformed message")
)
