package client

import "fmt"

// -- Error Types --

// DialError is returned when the server cannot be reached.
type DialError struct {
	URL   string
	Cause error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.URL, e.Cause)
}
func (e *DialError) Unwrap() error { return e.Cause }
