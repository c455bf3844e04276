package path

import (
	"errors"
	"fmt"
)

// -- Error Types --

// RootError is returned when an allowed root is invalid.
type RootError struct {
	Root  string
	Cause error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("invalid allowed root %s: %v", e.Root, e.Cause)
}
func (e *RootError) Unwrap() error { return e.Cause }

// NotAllowedError is returned when a path falls outside every allowed root.
// Path is the path exactly as the caller supplied it; the resolved location
// is deliberately not recorded.
type NotAllowedError struct {
	Path  string
	Cause error
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("access to %q is not allowed: %v", e.Path, e.Cause)
}
func (e *NotAllowedError) Unwrap() error { return e.Cause }

// -- Sentinels --

var (
	ErrNoRoots        = errors.New("no allowed roots configured")
	ErrEmptyPath      = errors.New("path is empty")
	ErrOutsideRoots   = errors.New("path is outside the allowed directories")
	ErrUnresolvable   = errors.New("path cannot be resolved")
	ErrTooManyLinks   = errors.New("too many levels of symbolic links")
	ErrNotADirectory  = errors.New("not a directory")
	ErrRootNotAllowed = errors.New("operation not permitted on an allowed root")
)
