package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// maxIgnoreFileSize caps how much of a .gitignore is read.
const maxIgnoreFileSize = 1 << 20

// GitignoreReadError is returned when .gitignore cannot be read.
type GitignoreReadError struct {
	Path  string
	Cause error
}

func (e *GitignoreReadError) Error() string {
	return fmt.Sprintf("failed to read .gitignore at %s: %v", e.Path, e.Cause)
}
func (e *GitignoreReadError) Unwrap() error { return e.Cause }

// fileSystem defines the minimal filesystem interface needed for gitignore matching.
type fileSystem interface {
	ReadFile(path string, limit int64) ([]byte, error)
}

// IgnoreMatcher implements gitignore pattern matching using go-git's gitignore matcher.
type IgnoreMatcher struct {
	matcher gitignore.Matcher
}

// NewIgnoreMatcher loads the .gitignore at the top of root.
// Returns a matcher that never ignores if .gitignore doesn't exist (no error).
func NewIgnoreMatcher(root string, fs fileSystem) (*IgnoreMatcher, error) {
	gitignorePath := filepath.Join(root, ".gitignore")

	content, err := fs.ReadFile(gitignorePath, maxIgnoreFileSize)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &IgnoreMatcher{}, nil
		}
		return nil, &GitignoreReadError{Path: gitignorePath, Cause: err}
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if len(patterns) == 0 {
		return &IgnoreMatcher{}, nil
	}

	return &IgnoreMatcher{matcher: gitignore.NewMatcher(patterns)}, nil
}

// ShouldIgnore checks if a path relative to the root matches any gitignore pattern.
// Returns false if no .gitignore was loaded.
func (m *IgnoreMatcher) ShouldIgnore(relativePath string, isDir bool) bool {
	if m == nil || m.matcher == nil {
		return false
	}

	segments := splitPath(relativePath)
	if len(segments) == 0 {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

// splitPath splits a path into segments for gitignore matching.
// It normalizes path separators and filters out empty and "." segments.
func splitPath(path string) []string {
	if path == "" {
		return []string{}
	}

	parts := strings.Split(filepath.ToSlash(path), "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}

	return segments
}
