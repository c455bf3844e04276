package session

import (
	"errors"
	"fmt"
)

// -- Error Types --

// TransportError is returned when reading from or writing to the client
// connection fails. It always matches ErrTransportClosed.
type TransportError struct {
	Op    string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Cause)
}
func (e *TransportError) Unwrap() []error { return []error{ErrTransportClosed, e.Cause} }

// -- Sentinels --

var (
	ErrTransportClosed = errors.New("transport closed")
)
