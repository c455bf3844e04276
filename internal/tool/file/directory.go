package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Cyclone1070/fschat/internal/tool/service/path"
)

// Mkdir creates a directory and any missing parents. It succeeds if the
// directory already exists.
func (s *Store) Mkdir(ctx context.Context, raw string) (string, error) {
	const op = "mkdir"

	p, err := s.resolve(op, raw)
	if err != nil {
		return "", err
	}

	release, err := s.lock(ctx, op, p)
	if err != nil {
		return "", err
	}
	defer release()

	info, err := s.fs.Stat(p.Abs())
	if err == nil && !info.IsDir() {
		return "", &OpError{Op: op, Kind: KindPathExists, Path: raw, Cause: ErrNotDirectory}
	}

	if err != nil {
		if err := s.fs.EnsureDirs(p.Abs()); err != nil {
			if errors.Is(err, syscall.ENOTDIR) || errors.Is(err, syscall.EEXIST) {
				return "", &OpError{Op: op, Kind: KindPathExists, Path: raw, Cause: err}
			}
			return "", &OpError{Op: op, Kind: KindIOError, Path: raw, Cause: err}
		}
	}

	return fmt.Sprintf("Directory %s created successfully", raw), nil
}

// holdsRoot reports whether abs is an allowed root or an ancestor of one.
func (s *Store) holdsRoot(abs string) bool {
	prefix := strings.TrimSuffix(abs, string(filepath.Separator)) + string(filepath.Separator)
	for _, root := range s.guard.Roots() {
		if root == abs || strings.HasPrefix(root, prefix) {
			return true
		}
	}
	return false
}

// Delete removes a file, or a directory and everything below it. A symlink
// is removed as a link; its target is left alone. A missing target is an
// error; a removal that fails part way is reported in the result instead.
// Allowed roots and their ancestors cannot be deleted.
func (s *Store) Delete(ctx context.Context, raw string) (DeleteResult, error) {
	const op = "delete"

	p, err := s.resolveEntry(op, raw)
	if err != nil {
		return DeleteResult{}, err
	}
	if p.IsRoot() || s.holdsRoot(p.Abs()) {
		return DeleteResult{}, &OpError{Op: op, Kind: KindPathNotAllowed, Path: raw, Cause: path.ErrRootNotAllowed}
	}

	release, err := s.lock(ctx, op, p)
	if err != nil {
		return DeleteResult{}, err
	}
	defer release()

	if _, err := s.fs.Lstat(p.Abs()); err != nil {
		return DeleteResult{}, statError(op, raw, err)
	}

	// RemoveAll unlinks a symlink without descending into its target.
	if err := s.fs.RemoveAll(p.Abs()); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		return DeleteResult{
			Success: false,
			Message: fmt.Sprintf("Error deleting %s: %v", raw, err),
		}, nil
	}

	return DeleteResult{
		Success: true,
		Message: fmt.Sprintf("Successfully deleted: %s", raw),
	}, nil
}
