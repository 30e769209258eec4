package transaction

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/forgepm/forge/internal/catalog"
	"github.com/forgepm/forge/internal/domain"
)

// manifestEntry is one file or symlink found under a fakeroot, paired
// with the live-root path it maps to by stripping the fakeroot prefix.
type manifestEntry struct {
	fakePath string
	livePath string
}

// walkManifest walks fakerootRoot, skipping the "buildsrc" staging
// subdirectory, and returns every regular file and symlink found, in
// walk order (spec.md §4.7 step 8).
func walkManifest(ctx context.Context, fs domain.FS, fakerootRoot, liveRoot string) ([]manifestEntry, error) {
	var entries []manifestEntry
	var walk func(dir string) error
	walk = func(dir string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		children, err := fs.ReadDir(ctx, dir)
		if err != nil {
			return err
		}
		for _, c := range children {
			p := path.Join(dir, c.Name())
			if c.IsDir() {
				if p == path.Join(fakerootRoot, "buildsrc") {
					continue
				}
				if err := walk(p); err != nil {
					return err
				}
				continue
			}
			rel := strings.TrimPrefix(p, fakerootRoot)
			entries = append(entries, manifestEntry{fakePath: p, livePath: path.Join(liveRoot, rel)})
		}
		return nil
	}
	if err := walk(fakerootRoot); err != nil {
		return nil, err
	}
	return entries, nil
}

// committedFile records one file successfully written during commit, so
// a later failure can roll every prior entry back (spec.md §7
// file-granular rollback).
type committedFile struct {
	livePath string
	row      catalog.FileRow
}

// commit installs every manifest entry into the live root in walk
// order. On the first failure it returns the entries committed so far
// alongside the error, so the caller can roll them back.
func commit(ctx context.Context, fs domain.FS, logger domain.Logger, entries []manifestEntry) ([]committedFile, error) {
	var done []committedFile
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		row, err := commitOne(ctx, fs, entry)
		if err != nil {
			return done, domain.ErrFilesystemOperation{Operation: "commit", Path: entry.livePath, Err: err}
		}
		if row.Path == "" {
			logger.Warn(ctx, "skipping non-regular, non-symlink manifest entry", "path", entry.fakePath)
			continue
		}
		done = append(done, committedFile{livePath: entry.livePath, row: row})
	}
	return done, nil
}

func commitOne(ctx context.Context, fs domain.FS, entry manifestEntry) (catalog.FileRow, error) {
	if err := ensureParent(ctx, fs, entry.livePath); err != nil {
		return catalog.FileRow{}, err
	}

	info, err := fs.Lstat(ctx, entry.fakePath)
	if err != nil {
		return catalog.FileRow{}, err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := fs.ReadLink(ctx, entry.fakePath)
		if err != nil {
			return catalog.FileRow{}, err
		}
		if fs.Exists(ctx, entry.livePath) {
			if err := fs.Remove(ctx, entry.livePath); err != nil {
				return catalog.FileRow{}, err
			}
		}
		if err := fs.Symlink(ctx, target, entry.livePath); err != nil {
			return catalog.FileRow{}, err
		}
		return catalog.FileRow{Path: entry.livePath, Size: 0, Mode: uint32(info.Mode().Perm()), MTime: info.ModTime()}, nil
	}

	if !info.Mode().IsRegular() {
		return catalog.FileRow{}, nil
	}

	data, err := fs.ReadFile(ctx, entry.fakePath)
	if err != nil {
		return catalog.FileRow{}, err
	}
	mode := info.Mode().Perm() & 0o7777
	if err := fs.WriteFile(ctx, entry.livePath, data, mode); err != nil {
		return catalog.FileRow{}, err
	}
	if err := fs.Chtimes(ctx, entry.livePath, info.ModTime(), info.ModTime()); err != nil {
		return catalog.FileRow{}, err
	}
	return catalog.FileRow{Path: entry.livePath, Size: info.Size(), Mode: uint32(mode), MTime: info.ModTime()}, nil
}

func ensureParent(ctx context.Context, fs domain.FS, p string) error {
	parent := path.Dir(p)
	if fs.Exists(ctx, parent) {
		return nil
	}
	return fs.MkdirAll(ctx, parent, 0o755)
}

// rollback unlinks every committed file in reverse order, best-effort.
func rollback(ctx context.Context, fs domain.FS, done []committedFile) {
	for i := len(done) - 1; i >= 0; i-- {
		_ = fs.Remove(ctx, done[i].livePath)
	}
}
