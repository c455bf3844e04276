package file

import (
	"context"
	"os"

	"github.com/Cyclone1070/fschat/internal/tool/service/path"
)

// pathGuard validates raw paths against the allowed roots.
type pathGuard interface {
	Validate(raw string) (path.ResolvedPath, error)
	ValidateEntry(raw string) (path.ResolvedPath, error)
	Roots() []string
}

// fileSystem defines the filesystem operations the store needs.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	ReadFile(path string, limit int64) ([]byte, error)
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
	EnsureDirs(path string) error
	ListDir(path string) ([]os.DirEntry, error)
	RemoveAll(path string) error
}

// pathLocker hands out per-path shared and exclusive locks.
type pathLocker interface {
	RLock(ctx context.Context, key string) (func(), error)
	Lock(ctx context.Context, key string) (func(), error)
}

// ignoreMatcher reports whether a root-relative path is gitignored.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}
