package adapters

import (
	"context"
	"os"
	"time"

	"github.com/forgepm/forge/internal/domain"
)

// OSFilesystem implements domain.FS against the real operating system
// filesystem.
type OSFilesystem struct{}

// NewOSFilesystem creates an OS-backed filesystem adapter.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{}
}

func (f *OSFilesystem) Stat(ctx context.Context, path string) (domain.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return wrapFileInfo(info), nil
}

func (f *OSFilesystem) Lstat(ctx context.Context, path string) (domain.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	return wrapFileInfo(info), nil
}

func (f *OSFilesystem) ReadDir(ctx context.Context, path string) ([]domain.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DirEntry, len(entries))
	for i, e := range entries {
		out[i] = wrapDirEntry(e)
	}
	return out, nil
}

func (f *OSFilesystem) ReadLink(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return os.Readlink(path)
}

func (f *OSFilesystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (f *OSFilesystem) WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

func (f *OSFilesystem) Mkdir(ctx context.Context, path string, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Mkdir(path, perm)
}

func (f *OSFilesystem) MkdirAll(ctx context.Context, path string, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(path, perm)
}

func (f *OSFilesystem) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Remove(path)
}

func (f *OSFilesystem) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.RemoveAll(path)
}

func (f *OSFilesystem) Symlink(ctx context.Context, oldname, newname string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Symlink(oldname, newname)
}

func (f *OSFilesystem) Rename(ctx context.Context, oldpath, newpath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(oldpath, newpath)
}

func (f *OSFilesystem) Chtimes(ctx context.Context, path string, atime, mtime int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Chtimes(path, time.Unix(atime, 0), time.Unix(mtime, 0))
}

func (f *OSFilesystem) Chmod(ctx context.Context, path string, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Chmod(path, mode)
}

func (f *OSFilesystem) Exists(ctx context.Context, path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (f *OSFilesystem) IsDir(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (f *OSFilesystem) IsSymlink(ctx context.Context, path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

type osFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime int64
	isDir   bool
}

func wrapFileInfo(info os.FileInfo) domain.FileInfo {
	return osFileInfo{
		name:    info.Name(),
		size:    info.Size(),
		mode:    info.Mode(),
		modTime: info.ModTime().Unix(),
		isDir:   info.IsDir(),
	}
}

func (i osFileInfo) Name() string     { return i.name }
func (i osFileInfo) Size() int64      { return i.size }
func (i osFileInfo) Mode() os.FileMode { return i.mode }
func (i osFileInfo) ModTime() int64   { return i.modTime }
func (i osFileInfo) IsDir() bool      { return i.isDir }

type osDirEntry struct {
	name  string
	isDir bool
	typ   os.FileMode
}

func wrapDirEntry(e os.DirEntry) domain.DirEntry {
	return osDirEntry{name: e.Name(), isDir: e.IsDir(), typ: e.Type()}
}

func (e osDirEntry) Name() string      { return e.name }
func (e osDirEntry) IsDir() bool       { return e.isDir }
func (e osDirEntry) Type() os.FileMode { return e.typ }
