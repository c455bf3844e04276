package server

import "fmt"

// -- Error Types --

// ListenError is returned when the server cannot bind its address.
type ListenError struct {
	Addr  string
	Cause error
}

func (e *ListenError) Error() string {
	return fmt.Sprintf("failed to listen on %s: %v", e.Addr, e.Cause)
}
func (e *ListenError) Unwrap() error { return e.Cause }
