package mocks

import (
	"io/fs"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lc/confkeep/internal/filesys"
)

var _ filesys.FS = (*MockFS)(nil)

// MockFS is a testify/mock implementation of filesys.FS.
// Tests use it to drive the serializer down failure paths a real disk
// rarely produces on demand.
type MockFS struct {
	mock.Mock
}

// Stat mocks the Stat method.
func (m *MockFS) Stat(p string) (fs.FileInfo, error) {
	args := m.Called(p)
	var fileInfo fs.FileInfo
	if args.Get(0) != nil {
		fileInfo = args.Get(0).(fs.FileInfo)
	}
	return fileInfo, args.Error(1)
}

// MkdirAll mocks the MkdirAll method.
func (m *MockFS) MkdirAll(p string, mode os.FileMode) error {
	args := m.Called(p, mode)
	return args.Error(0)
}

// ReadFile mocks the ReadFile method.
func (m *MockFS) ReadFile(p string) ([]byte, error) {
	args := m.Called(p)
	var data []byte
	if args.Get(0) != nil {
		data = args.Get(0).([]byte)
	}
	return data, args.Error(1)
}

// Open mocks the Open method.
func (m *MockFS) Open(p string) (*os.File, error) {
	args := m.Called(p)
	var file *os.File
	if args.Get(0) != nil {
		file = args.Get(0).(*os.File)
	}
	return file, args.Error(1)
}

// CreateTemp mocks the CreateTemp method.
func (m *MockFS) CreateTemp(dir, pat string) (*os.File, error) {
	args := m.Called(dir, pat)
	var file *os.File
	if args.Get(0) != nil {
		file = args.Get(0).(*os.File)
	}
	return file, args.Error(1)
}

// Rename mocks the Rename method.
func (m *MockFS) Rename(old, newPath string) error {
	args := m.Called(old, newPath)
	return args.Error(0)
}

// Remove mocks the Remove method.
func (m *MockFS) Remove(p string) error {
	args := m.Called(p)
	return args.Error(0)
}

// Chmod mocks the Chmod method.
func (m *MockFS) Chmod(p string, mode os.FileMode) error {
	args := m.Called(p, mode)
	return args.Error(0)
}

// FileInfo is a minimal fs.FileInfo for stubbing Stat results.
type FileInfo struct {
	FileName string
	FileMode fs.FileMode
}

func (f FileInfo) Name() string       { return f.FileName }
func (f FileInfo) Size() int64        { return 0 }
func (f FileInfo) Mode() fs.FileMode  { return f.FileMode }
func (f FileInfo) ModTime() time.Time { return time.Time{} }
func (f FileInfo) IsDir() bool        { return f.FileMode.IsDir() }
func (f FileInfo) Sys() any           { return nil }
