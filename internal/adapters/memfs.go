package adapters

import (
	"context"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/forgepm/forge/internal/domain"
)

// MemFS is an in-memory domain.FS used by unit tests so that the
// transaction engine, fakeroot staging, and fsutil helpers can be
// exercised without touching the real filesystem.
type MemFS struct {
	mu      sync.Mutex
	entries map[string]*memEntry
}

type memEntry struct {
	isDir    bool
	isLink   bool
	linkDest string
	data     []byte
	mode     os.FileMode
	modTime  int64
}

// NewMemFS creates an empty in-memory filesystem rooted at "/".
func NewMemFS() *MemFS {
	fs := &MemFS{entries: make(map[string]*memEntry)}
	fs.entries["/"] = &memEntry{isDir: true, mode: os.ModeDir | 0755}
	return fs
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean(p)
}

func (m *MemFS) Stat(ctx context.Context, p string) (domain.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.resolve(clean(p))
	if err != nil {
		return nil, err
	}
	return memFileInfo{path: clean(p), e: e}, nil
}

func (m *MemFS) Lstat(ctx context.Context, p string) (domain.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[clean(p)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return memFileInfo{path: clean(p), e: e}, nil
}

// resolve follows symlinks, recursing through a chain of links until it
// reaches an entry that is not a symlink.
func (m *MemFS) resolve(p string) (*memEntry, error) {
	e, ok := m.entries[p]
	if !ok {
		return nil, os.ErrNotExist
	}
	if e.isLink {
		target := e.linkDest
		if !path.IsAbs(target) {
			target = path.Join(path.Dir(p), target)
		}
		return m.resolve(clean(target))
	}
	return e, nil
}

func (m *MemFS) ReadDir(ctx context.Context, p string) ([]domain.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir := clean(p)
	if _, ok := m.entries[dir]; !ok {
		return nil, os.ErrNotExist
	}
	prefix := dir
	if prefix != "/" {
		prefix += "/"
	} else {
		prefix = "/"
	}
	seen := map[string]bool{}
	var out []domain.DirEntry
	for k, e := range m.entries {
		if k == dir || !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if strings.Contains(rest, "/") {
			continue
		}
		if seen[rest] {
			continue
		}
		seen[rest] = true
		typ := e.mode
		out = append(out, memDirEntry{name: rest, isDir: e.isDir, typ: typ})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (m *MemFS) ReadLink(ctx context.Context, p string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[clean(p)]
	if !ok || !e.isLink {
		return "", os.ErrInvalid
	}
	return e.linkDest, nil
}

func (m *MemFS) ReadFile(ctx context.Context, p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.resolve(clean(p))
	if err != nil {
		return nil, err
	}
	if e.isDir {
		return nil, os.ErrInvalid
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

func (m *MemFS) WriteFile(ctx context.Context, p string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := clean(p)
	if !m.parentExistsLocked(cp) {
		return os.ErrNotExist
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.entries[cp] = &memEntry{data: buf, mode: perm}
	return nil
}

func (m *MemFS) Mkdir(ctx context.Context, p string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := clean(p)
	if _, ok := m.entries[cp]; ok {
		return os.ErrExist
	}
	if !m.parentExistsLocked(cp) {
		return os.ErrNotExist
	}
	m.entries[cp] = &memEntry{isDir: true, mode: os.ModeDir | perm}
	return nil
}

func (m *MemFS) MkdirAll(ctx context.Context, p string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := clean(p)
	parts := strings.Split(strings.Trim(cp, "/"), "/")
	cur := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		cur += "/" + part
		if e, ok := m.entries[cur]; ok {
			if !e.isDir {
				return os.ErrExist
			}
			continue
		}
		m.entries[cur] = &memEntry{isDir: true, mode: os.ModeDir | perm}
	}
	return nil
}

func (m *MemFS) parentExistsLocked(p string) bool {
	parent := path.Dir(p)
	e, ok := m.entries[parent]
	return ok && e.isDir
}

func (m *MemFS) Remove(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := clean(p)
	if _, ok := m.entries[cp]; !ok {
		return os.ErrNotExist
	}
	delete(m.entries, cp)
	return nil
}

func (m *MemFS) RemoveAll(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := clean(p)
	prefix := cp + "/"
	for k := range m.entries {
		if k == cp || strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

func (m *MemFS) Symlink(ctx context.Context, oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := clean(newname)
	if !m.parentExistsLocked(cp) {
		return os.ErrNotExist
	}
	m.entries[cp] = &memEntry{isLink: true, linkDest: oldname, mode: os.ModeSymlink | 0777}
	return nil
}

func (m *MemFS) Rename(ctx context.Context, oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, np := clean(oldpath), clean(newpath)
	e, ok := m.entries[op]
	if !ok {
		return os.ErrNotExist
	}
	if !m.parentExistsLocked(np) {
		return os.ErrNotExist
	}
	delete(m.entries, op)
	m.entries[np] = e
	return nil
}

func (m *MemFS) Chtimes(ctx context.Context, p string, atime, mtime int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[clean(p)]
	if !ok {
		return os.ErrNotExist
	}
	e.modTime = mtime
	return nil
}

func (m *MemFS) Chmod(ctx context.Context, p string, mode os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[clean(p)]
	if !ok {
		return os.ErrNotExist
	}
	e.mode = mode
	return nil
}

func (m *MemFS) Exists(ctx context.Context, p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[clean(p)]
	return ok
}

func (m *MemFS) IsDir(ctx context.Context, p string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := m.resolve(clean(p))
	if err != nil {
		return false, err
	}
	return e.isDir, nil
}

func (m *MemFS) IsSymlink(ctx context.Context, p string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[clean(p)]
	if !ok {
		return false, os.ErrNotExist
	}
	return e.isLink, nil
}

type memFileInfo struct {
	path string
	e    *memEntry
}

func (i memFileInfo) Name() string      { return path.Base(i.path) }
func (i memFileInfo) Size() int64       { return int64(len(i.e.data)) }
func (i memFileInfo) Mode() os.FileMode { return i.e.mode }
func (i memFileInfo) ModTime() int64    { return i.e.modTime }
func (i memFileInfo) IsDir() bool       { return i.e.isDir }

type memDirEntry struct {
	name  string
	isDir bool
	typ   os.FileMode
}

func (e memDirEntry) Name() string      { return e.name }
func (e memDirEntry) IsDir() bool       { return e.isDir }
func (e memDirEntry) Type() os.FileMode { return e.typ }
