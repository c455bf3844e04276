package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// defaultFilePerm is used for files that do not exist yet.
const defaultFilePerm os.FileMode = 0o644

// Write creates or truncates a file with content. The parent directory must
// already exist. An existing file keeps its permission bits.
func (s *Store) Write(ctx context.Context, raw, content string) (string, error) {
	const op = "write"

	p, err := s.resolve(op, raw)
	if err != nil {
		return "", err
	}

	if int64(len(content)) > s.config.Tools.MaxFileSize {
		return "", &OpError{Op: op, Kind: KindTooLarge, Path: raw, Cause: ErrFileTooLarge}
	}

	release, err := s.lock(ctx, op, p)
	if err != nil {
		return "", err
	}
	defer release()

	perm := defaultFilePerm
	info, err := s.fs.Stat(p.Abs())
	switch {
	case err == nil && info.IsDir():
		return "", &OpError{Op: op, Kind: KindNotAFile, Path: raw, Cause: ErrIsDirectory}
	case err == nil:
		perm = info.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR):
		return "", &OpError{Op: op, Kind: KindIOError, Path: raw, Cause: err}
	}

	parent, err := s.fs.Stat(filepath.Dir(p.Abs()))
	if err != nil || !parent.IsDir() {
		return "", &OpError{Op: op, Kind: KindParentMissing, Path: raw, Cause: err}
	}

	if err := s.fs.WriteFileAtomic(p.Abs(), []byte(content), perm); err != nil {
		return "", &OpError{Op: op, Kind: KindIOError, Path: raw, Cause: err}
	}

	return fmt.Sprintf("File %s written successfully", raw), nil
}
