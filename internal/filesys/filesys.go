// Package filesys provides the file system surface the serializer works against.
// It defines small interfaces over the operations config persistence needs and an
// implementation that delegates to the standard library, so failure paths
// (unwritable directories, full disks) can be exercised with a mock.
package filesys

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lc/confkeep/internal/log"
)

// ReadWriteFS is what the *load* path needs: probe the target, create its
// directory and read it back in one go.
type ReadWriteFS interface {
	Stat(string) (fs.FileInfo, error)
	MkdirAll(string, os.FileMode) error
	ReadFile(string) ([]byte, error)
}

// FileOps is what AtomicWrite needs to replace a file in place.
type FileOps interface {
	Open(string) (*os.File, error)
	CreateTemp(string, string) (*os.File, error)
	Rename(string, string) error
	Remove(string) error
	Chmod(string, os.FileMode) error
}

// FS is the full surface a serializer is constructed with.
type FS interface {
	ReadWriteFS
	FileOps
}

// OS returns a file system implementation that delegates to the standard library.
func OS() OsFS {
	return OsFS{}
}

// OsFS implements FS against the local disk.
type OsFS struct{}

func (OsFS) Stat(p string) (fs.FileInfo, error)           { return os.Stat(p) }
func (OsFS) MkdirAll(p string, m os.FileMode) error       { return os.MkdirAll(p, m) }
func (OsFS) ReadFile(p string) ([]byte, error)            { return os.ReadFile(p) }
func (OsFS) Open(p string) (*os.File, error)              { return os.Open(p) }
func (OsFS) CreateTemp(dir, pat string) (*os.File, error) { return os.CreateTemp(dir, pat) }
func (OsFS) Rename(old, newName string) error             { return os.Rename(old, newName) }
func (OsFS) Remove(p string) error                        { return os.Remove(p) }
func (OsFS) Chmod(p string, m os.FileMode) error          { return os.Chmod(p, m) }

var _ FS = OsFS{}

// IsDir reports whether p exists and is a directory.
func IsDir(fsys ReadWriteFS, p string) bool {
	info, err := fsys.Stat(p)
	return err == nil && info != nil && info.IsDir()
}

// IsRegular reports whether p exists and is a regular file.
func IsRegular(fsys ReadWriteFS, p string) bool {
	info, err := fsys.Stat(p)
	return err == nil && info != nil && info.Mode().IsRegular()
}

// AtomicWrite persists data to dst with the provided file mode, fully
// replacing any previous contents. A reader never observes a half-written
// config:
//
//  1. temp file in the same dir
//  2. fsync(temp) + close
//  3. chmod(temp, perm)  (so rename doesn't carry the 0600 default)
//  4. rename(temp, dst)
//  5. fsync(dir)
func AtomicWrite(fsys FileOps, dst string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(dst)
	tmp, err := fsys.CreateTemp(dir, ".confkeep-*")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	cerr := tmp.Close()
	if err == nil {
		err = cerr
	}
	if err == nil {
		err = fsys.Chmod(tmp.Name(), perm)
	}
	if err == nil {
		err = fsys.Rename(tmp.Name(), dst)
	}
	if err != nil {
		if removeErr := fsys.Remove(tmp.Name()); removeErr != nil {
			log.Warnf("filesys: failed to remove temp file %s: %v", tmp.Name(), removeErr)
		}
		return err
	}
	syncDir(fsys, dir)
	return nil
}

// syncDir flushes the directory entry for a rename; failures only cost
// durability across a crash, so they are logged and dropped.
func syncDir(fsys FileOps, dir string) {
	d, err := fsys.Open(dir)
	if err != nil {
		return
	}
	if err := d.Sync(); err != nil {
		log.Debugf("filesys: failed to sync directory %s: %v", dir, err)
	}
	if err := d.Close(); err != nil {
		log.Warnf("filesys: failed to close directory %s: %v", dir, err)
	}
}
