package file

import (
	"errors"
	"fmt"
)

// Kind classifies a failed file operation.
type Kind string

const (
	KindPathNotAllowed Kind = "PathNotAllowed"
	KindNotFound       Kind = "NotFound"
	KindNotAFile       Kind = "NotAFile"
	KindNotADirectory  Kind = "NotADirectory"
	KindParentMissing  Kind = "ParentMissing"
	KindPathExists     Kind = "PathExists"
	KindTooLarge       Kind = "TooLarge"
	KindIOError        Kind = "IOError"
)

// -- Error Types --

// OpError describes a failed store operation. Path is the path as the caller
// supplied it, never the resolved location.
type OpError struct {
	Op    string
	Kind  Kind
	Path  string
	Cause error
}

func (e *OpError) Error() string {
	switch e.Kind {
	case KindPathNotAllowed:
		return fmt.Sprintf("access denied: %q is outside the allowed directories", e.Path)
	case KindNotFound:
		return fmt.Sprintf("%s: %q does not exist", e.Op, e.Path)
	case KindNotAFile:
		if errors.Is(e.Cause, ErrNotRegular) {
			return fmt.Sprintf("%s: %q is not a regular file", e.Op, e.Path)
		}
		return fmt.Sprintf("%s: %q is a directory, not a file", e.Op, e.Path)
	case KindNotADirectory:
		return fmt.Sprintf("%s: %q is not a directory", e.Op, e.Path)
	case KindParentMissing:
		return fmt.Sprintf("%s: parent directory of %q does not exist", e.Op, e.Path)
	case KindPathExists:
		return fmt.Sprintf("%s: %q already exists and is not a directory", e.Op, e.Path)
	case KindTooLarge:
		return fmt.Sprintf("%s: %q exceeds the maximum file size", e.Op, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s %q failed", e.Op, e.Path)
}

func (e *OpError) Unwrap() error { return e.Cause }

// KindOf returns the Kind of err, or KindIOError if err is not an OpError.
func KindOf(err error) Kind {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindIOError
}

// -- Sentinels --

var (
	ErrIsDirectory  = errors.New("path is a directory")
	ErrNotDirectory = errors.New("path is not a directory")
	ErrNotRegular   = errors.New("path is not a regular file")
	ErrFileTooLarge = errors.New("file too large")
)
