// Package file implements the sandboxed file operations exposed as tools.
// Every operation validates its path through the guard before it touches the
// filesystem, then holds a per-path lock for the duration of the I/O.
package file

import (
	"context"
	"errors"
	"io/fs"

	"github.com/Cyclone1070/fschat/internal/config"
	"github.com/Cyclone1070/fschat/internal/tool/service/git"
	"github.com/Cyclone1070/fschat/internal/tool/service/path"
)

// Store performs file operations confined to the guard's allowed roots.
// It is safe for concurrent use by multiple sessions.
type Store struct {
	guard    pathGuard
	fs       fileSystem
	locks    pathLocker
	config   *config.Config
	matchers map[string]ignoreMatcher
}

// NewStore creates a Store. When gitignore filtering is enabled, the
// .gitignore at the top of each allowed root is loaded once here.
func NewStore(guard pathGuard, fileOps fileSystem, locks pathLocker, cfg *config.Config) (*Store, error) {
	s := &Store{
		guard:    guard,
		fs:       fileOps,
		locks:    locks,
		config:   cfg,
		matchers: make(map[string]ignoreMatcher),
	}

	if cfg.Sandbox.RespectGitignore {
		for _, root := range guard.Roots() {
			m, err := git.NewIgnoreMatcher(root, fileOps)
			if err != nil {
				return nil, err
			}
			s.matchers[root] = m
		}
	}

	return s, nil
}

// resolve validates raw and converts guard failures into OpErrors.
func (s *Store) resolve(op, raw string) (path.ResolvedPath, error) {
	resolved, err := s.guard.Validate(raw)
	if err != nil {
		return path.ResolvedPath{}, &OpError{Op: op, Kind: KindPathNotAllowed, Path: raw, Cause: err}
	}
	return resolved, nil
}

// resolveEntry is resolve without following a final symlink.
func (s *Store) resolveEntry(op, raw string) (path.ResolvedPath, error) {
	resolved, err := s.guard.ValidateEntry(raw)
	if err != nil {
		return path.ResolvedPath{}, &OpError{Op: op, Kind: KindPathNotAllowed, Path: raw, Cause: err}
	}
	return resolved, nil
}

func (s *Store) rlock(ctx context.Context, op string, p path.ResolvedPath) (func(), error) {
	release, err := s.locks.RLock(ctx, p.Abs())
	if err != nil {
		return nil, &OpError{Op: op, Kind: KindIOError, Path: p.Raw(), Cause: err}
	}
	return release, nil
}

func (s *Store) lock(ctx context.Context, op string, p path.ResolvedPath) (func(), error) {
	release, err := s.locks.Lock(ctx, p.Abs())
	if err != nil {
		return nil, &OpError{Op: op, Kind: KindIOError, Path: p.Raw(), Cause: err}
	}
	return release, nil
}

// statError maps a Stat failure to NotFound or IOError.
func statError(op, raw string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &OpError{Op: op, Kind: KindNotFound, Path: raw, Cause: err}
	}
	return &OpError{Op: op, Kind: KindIOError, Path: raw, Cause: err}
}
