package file

import (
	"context"
	"errors"

	"github.com/Cyclone1070/fschat/internal/tool/service/fs"
)

// Read returns the full content of a file.
func (s *Store) Read(ctx context.Context, raw string) (string, error) {
	const op = "read"

	p, err := s.resolve(op, raw)
	if err != nil {
		return "", err
	}

	release, err := s.rlock(ctx, op, p)
	if err != nil {
		return "", err
	}
	defer release()

	info, err := s.fs.Stat(p.Abs())
	if err != nil {
		return "", statError(op, raw, err)
	}
	if info.IsDir() {
		return "", &OpError{Op: op, Kind: KindNotAFile, Path: raw, Cause: ErrIsDirectory}
	}
	// Opening a FIFO or device could block indefinitely.
	if !info.Mode().IsRegular() {
		return "", &OpError{Op: op, Kind: KindNotAFile, Path: raw, Cause: ErrNotRegular}
	}

	maxFileSize := s.config.Tools.MaxFileSize
	if info.Size() > maxFileSize {
		return "", &OpError{Op: op, Kind: KindTooLarge, Path: raw, Cause: ErrFileTooLarge}
	}

	content, err := s.fs.ReadFile(p.Abs(), maxFileSize)
	if err != nil {
		if errors.Is(err, fs.ErrTooLarge) {
			return "", &OpError{Op: op, Kind: KindTooLarge, Path: raw, Cause: err}
		}
		return "", statError(op, raw, err)
	}

	return string(content), nil
}

// Info returns size, timestamps, type and mode of a file or directory.
func (s *Store) Info(ctx context.Context, raw string) (FileInfo, error) {
	const op = "info"

	p, err := s.resolve(op, raw)
	if err != nil {
		return FileInfo{}, err
	}

	release, err := s.rlock(ctx, op, p)
	if err != nil {
		return FileInfo{}, err
	}
	defer release()

	info, err := s.fs.Stat(p.Abs())
	if err != nil {
		return FileInfo{}, statError(op, raw, err)
	}

	return FileInfo{
		Size:     info.Size(),
		Created:  createdTime(info),
		Modified: info.ModTime(),
		IsDir:    info.IsDir(),
		Mode:     info.Mode(),
	}, nil
}
