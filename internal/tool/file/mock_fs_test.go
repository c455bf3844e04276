package file

import (
	"errors"
	"os"
)

// mockFileSystem is a function-field fake of fileSystem. Unset methods fail.
type mockFileSystem struct {
	StatFunc            func(path string) (os.FileInfo, error)
	LstatFunc           func(path string) (os.FileInfo, error)
	ReadFileFunc        func(path string, limit int64) ([]byte, error)
	WriteFileAtomicFunc func(path string, content []byte, perm os.FileMode) error
	EnsureDirsFunc      func(path string) error
	ListDirFunc         func(path string) ([]os.DirEntry, error)
	RemoveAllFunc       func(path string) error
}

var errNotMocked = errors.New("not mocked")

func (m *mockFileSystem) Stat(path string) (os.FileInfo, error) {
	if m.StatFunc != nil {
		return m.StatFunc(path)
	}
	return nil, errNotMocked
}

func (m *mockFileSystem) Lstat(path string) (os.FileInfo, error) {
	if m.LstatFunc != nil {
		return m.LstatFunc(path)
	}
	return nil, errNotMocked
}

func (m *mockFileSystem) ReadFile(path string, limit int64) ([]byte, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(path, limit)
	}
	return nil, errNotMocked
}

func (m *mockFileSystem) WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	if m.WriteFileAtomicFunc != nil {
		return m.WriteFileAtomicFunc(path, content, perm)
	}
	return errNotMocked
}

func (m *mockFileSystem) EnsureDirs(path string) error {
	if m.EnsureDirsFunc != nil {
		return m.EnsureDirsFunc(path)
	}
	return errNotMocked
}

func (m *mockFileSystem) ListDir(path string) ([]os.DirEntry, error) {
	if m.ListDirFunc != nil {
		return m.ListDirFunc(path)
	}
	return nil, errNotMocked
}

func (m *mockFileSystem) RemoveAll(path string) error {
	if m.RemoveAllFunc != nil {
		return m.RemoveAllFunc(path)
	}
	return errNotMocked
}
