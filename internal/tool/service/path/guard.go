// Package path confines filesystem access to a fixed set of allowed roots.
package path

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// maxSymlinkHops bounds manual resolution of dangling links.
const maxSymlinkHops = 255

// ResolvedPath is a canonical absolute path proven to lie inside one of the
// guard's roots. Only Guard.Validate and Guard.ValidateEntry produce values
// of this type.
type ResolvedPath struct {
	abs  string
	root string
	raw  string
}

// Abs returns the canonical absolute path.
func (p ResolvedPath) Abs() string { return p.abs }

// Root returns the allowed root containing the path.
func (p ResolvedPath) Root() string { return p.root }

// Raw returns the path as the caller supplied it.
func (p ResolvedPath) Raw() string { return p.raw }

// IsRoot reports whether the path is the allowed root itself.
func (p ResolvedPath) IsRoot() bool { return p.abs == p.root }

// Rel returns the slash-separated path relative to its root ("" for the root).
func (p ResolvedPath) Rel() string {
	rel, err := filepath.Rel(p.root, p.abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// Guard validates candidate paths against an ordered list of allowed roots.
// It is immutable after construction and safe for concurrent use.
type Guard struct {
	roots []string
}

// NewGuard canonicalises every root and returns a Guard over them.
// Duplicate roots (after canonicalisation) are kept once, in first-seen order.
func NewGuard(roots []string) (*Guard, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	seen := make(map[string]bool, len(roots))
	canonical := make([]string, 0, len(roots))
	for _, root := range roots {
		resolved, err := CanonicaliseRoot(root)
		if err != nil {
			return nil, err
		}
		if seen[resolved] {
			continue
		}
		seen[resolved] = true
		canonical = append(canonical, resolved)
	}

	return &Guard{roots: canonical}, nil
}

// CanonicaliseRoot canonicalises a root path by making it absolute and resolving symlinks.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	if root == "" {
		return "", &RootError{Root: root, Cause: ErrEmptyPath}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &RootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &RootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &RootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &RootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Roots returns a copy of the canonical allowed roots.
func (g *Guard) Roots() []string {
	out := make([]string, len(g.roots))
	copy(out, g.roots)
	return out
}

// Validate resolves raw to a canonical absolute path and checks that it is an
// allowed root or a descendant of one. Relative paths are resolved against the
// process working directory. Symlinks are followed for every existing prefix
// of the path, including dangling links, so a link planted inside a root
// cannot point the operation elsewhere.
func (g *Guard) Validate(raw string) (ResolvedPath, error) {
	if raw == "" {
		return ResolvedPath{}, &NotAllowedError{Path: raw, Cause: ErrEmptyPath}
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return ResolvedPath{}, &NotAllowedError{Path: raw, Cause: ErrUnresolvable}
	}

	canonical, err := resolve(abs)
	if err != nil {
		if errors.Is(err, ErrTooManyLinks) {
			return ResolvedPath{}, &NotAllowedError{Path: raw, Cause: ErrTooManyLinks}
		}
		return ResolvedPath{}, &NotAllowedError{Path: raw, Cause: ErrUnresolvable}
	}

	return g.match(raw, canonical)
}

// ValidateEntry is Validate for operations on a directory entry itself. Every
// component but the last is resolved; a final symlink is kept as the link, so
// the result names the link and never its target.
func (g *Guard) ValidateEntry(raw string) (ResolvedPath, error) {
	if raw == "" {
		return ResolvedPath{}, &NotAllowedError{Path: raw, Cause: ErrEmptyPath}
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return ResolvedPath{}, &NotAllowedError{Path: raw, Cause: ErrUnresolvable}
	}

	parent := filepath.Dir(abs)
	if parent == abs {
		return g.Validate(raw)
	}

	canonicalParent, err := resolve(parent)
	if err != nil {
		if errors.Is(err, ErrTooManyLinks) {
			return ResolvedPath{}, &NotAllowedError{Path: raw, Cause: ErrTooManyLinks}
		}
		return ResolvedPath{}, &NotAllowedError{Path: raw, Cause: ErrUnresolvable}
	}

	return g.match(raw, filepath.Join(canonicalParent, filepath.Base(abs)))
}

// match returns canonical bound to the first root containing it.
func (g *Guard) match(raw, canonical string) (ResolvedPath, error) {
	for _, root := range g.roots {
		if within(canonical, root) {
			return ResolvedPath{abs: canonical, root: root, raw: raw}, nil
		}
	}
	return ResolvedPath{}, &NotAllowedError{Path: raw, Cause: ErrOutsideRoots}
}

// within reports whether path equals root or lies beneath it. The comparison
// is segment-aware: /data does not contain /data-secret.
func within(path, root string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// resolve canonicalises an absolute, possibly non-existent path. The deepest
// existing ancestor is resolved with EvalSymlinks and the missing tail is
// re-attached. Dangling symlinks met on the way are followed by hand.
func resolve(abs string) (string, error) {
	cur := filepath.Clean(abs)
	var tail []string
	hops := 0

	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return joinTail(resolved, tail), nil
		}
		if !isMissing(err) {
			return "", err
		}

		if info, lerr := os.Lstat(cur); lerr == nil && info.Mode()&os.ModeSymlink != 0 {
			hops++
			if hops > maxSymlinkHops {
				return "", ErrTooManyLinks
			}
			target, err := os.Readlink(cur)
			if err != nil {
				return "", err
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(cur), target)
			}
			cur = filepath.Clean(target)
			continue
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return joinTail(cur, tail), nil
		}
		tail = append(tail, filepath.Base(cur))
		cur = parent
	}
}

// joinTail appends tail (collected deepest-first) back onto base.
func joinTail(base string, tail []string) string {
	parts := make([]string, 0, len(tail)+1)
	parts = append(parts, base)
	for i := len(tail) - 1; i >= 0; i-- {
		parts = append(parts, tail[i])
	}
	return filepath.Join(parts...)
}

func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
