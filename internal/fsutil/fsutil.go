// Package fsutil provides filesystem helpers shared by the fakeroot
// sandbox, the transaction engine, and the pkg/forge client: recursive
// directory creation, symlink-preserving tree copies, guarded recursive
// removal, and path helpers.
//
// These operate through a domain.FS port so they can run against either
// the real OS filesystem or an in-memory fake in tests.
package fsutil

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/forgepm/forge/internal/domain"
)

// MkdirP creates dir and any missing parents, mirroring `mkdir -p`.
// It does not error if dir already exists.
func MkdirP(ctx context.Context, fs domain.FS, dir string, perm os.FileMode) error {
	if fs.Exists(ctx, dir) {
		isDir, err := fs.IsDir(ctx, dir)
		if err != nil {
			return err
		}
		if !isDir {
			return fmt.Errorf("mkdir -p %s: exists and is not a directory", dir)
		}
		return nil
	}
	parent := path.Dir(dir)
	if parent != dir && parent != "." && parent != "/" {
		if err := MkdirP(ctx, fs, parent, perm); err != nil {
			return err
		}
	}
	if err := fs.Mkdir(ctx, dir, perm); err != nil && !os.IsExist(err) {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// CopyTree recursively copies src to dst, preserving symlinks (as
// symlinks, not their targets), file modes, and modification times. The
// transaction engine uses it to copy a package's source tree into the
// fakeroot's buildsrc directory.
func CopyTree(ctx context.Context, fs domain.FS, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := fs.Lstat(ctx, src)
	if err != nil {
		return fmt.Errorf("lstat %s: %w", src, err)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := fs.ReadLink(ctx, src)
		if err != nil {
			return fmt.Errorf("readlink %s: %w", src, err)
		}
		return fs.Symlink(ctx, target, dst)

	case info.IsDir():
		if err := MkdirP(ctx, fs, dst, info.Mode().Perm()|0700); err != nil {
			return err
		}
		entries, err := fs.ReadDir(ctx, src)
		if err != nil {
			return fmt.Errorf("readdir %s: %w", src, err)
		}
		for _, e := range entries {
			if err := CopyTree(ctx, fs, path.Join(src, e.Name()), path.Join(dst, e.Name())); err != nil {
				return err
			}
		}
		return fs.Chtimes(ctx, dst, info.ModTime(), info.ModTime())

	default:
		data, err := fs.ReadFile(ctx, src)
		if err != nil {
			return fmt.Errorf("read %s: %w", src, err)
		}
		if err := fs.WriteFile(ctx, dst, data, info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		return fs.Chtimes(ctx, dst, info.ModTime(), info.ModTime())
	}
}

// RemoveTree recursively removes dir, refusing to operate on the
// filesystem root or any path containing a null byte, which would
// indicate a corrupted manifest entry rather than a legitimate path.
func RemoveTree(ctx context.Context, fs domain.FS, dir string) error {
	clean := path.Clean(dir)
	if clean == "/" || clean == "." || clean == "" {
		return fmt.Errorf("refusing to remove %q", dir)
	}
	if strings.ContainsRune(dir, 0) {
		return fmt.Errorf("refusing to remove path containing a null byte")
	}
	return fs.RemoveAll(ctx, clean)
}

// Basename returns the final path element, stripping any extension.
func Basename(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Ext returns the path's extension, including the leading dot.
func Ext(p string) string {
	return path.Ext(p)
}

// ExpandHome replaces a leading "~" with the current user's home
// directory, as recipes and config files may reference paths that way.
func ExpandHome(p string) string {
	if p == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
