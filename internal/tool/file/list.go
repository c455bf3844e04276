package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// List returns the entries of a directory sorted by name. Symlinked
// directories are reported as directories. Entries matched by the root's
// .gitignore are omitted when gitignore filtering is enabled.
func (s *Store) List(ctx context.Context, raw string) ([]Entry, error) {
	const op = "list"

	p, err := s.resolve(op, raw)
	if err != nil {
		return nil, err
	}

	release, err := s.rlock(ctx, op, p)
	if err != nil {
		return nil, err
	}
	defer release()

	info, err := s.fs.Stat(p.Abs())
	if err != nil {
		return nil, statError(op, raw, err)
	}
	if !info.IsDir() {
		return nil, &OpError{Op: op, Kind: KindNotADirectory, Path: raw, Cause: ErrNotDirectory}
	}

	dirEntries, err := s.fs.ListDir(p.Abs())
	if err != nil {
		return nil, &OpError{Op: op, Kind: KindIOError, Path: raw, Cause: err}
	}

	matcher := s.matchers[p.Root()]
	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		isDir := de.IsDir()
		if de.Type()&os.ModeSymlink != 0 {
			if target, err := s.fs.Stat(filepath.Join(p.Abs(), de.Name())); err == nil {
				isDir = target.IsDir()
			}
		}

		if matcher != nil && matcher.ShouldIgnore(joinRel(p.Rel(), de.Name()), isDir) {
			continue
		}

		entries = append(entries, Entry{Name: de.Name(), IsDir: isDir})
	}

	return entries, nil
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}
