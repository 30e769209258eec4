package fsutil

import (
	"context"
	"path"

	"github.com/forgepm/forge/internal/domain"
)

// WellKnownInstallDirs lists the subdirectories, relative to a root, that
// Snapshot walks, mirroring the layout conventional source packages
// expect to populate under DESTDIR.
var WellKnownInstallDirs = []string{
	"usr/bin",
	"usr/include",
	"usr/lib",
	"usr/lib64",
	"usr/share",
	"usr/local/bin",
	"usr/local/include",
	"usr/local/lib",
	"usr/local/lib64",
	"usr/local/sbin",
	"usr/local/share",
	"etc",
}

// Snapshot walks root's well-known install directories and returns the
// non-directory paths found, each joined onto root. The transaction
// engine snapshots the live root before and after an install commit to
// log paths that appeared outside the fakeroot manifest.
func Snapshot(ctx context.Context, fs domain.FS, root string) ([]string, error) {
	var out []string
	for _, d := range WellKnownInstallDirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := path.Join(root, d)
		if !fs.Exists(ctx, dir) {
			continue
		}
		if err := walk(ctx, fs, dir, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func walk(ctx context.Context, fs domain.FS, dir string, out *[]string) error {
	entries, err := fs.ReadDir(ctx, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		p := path.Join(dir, e.Name())
		if e.IsDir() {
			if err := walk(ctx, fs, p, out); err != nil {
				return err
			}
			continue
		}
		*out = append(*out, p)
	}
	return nil
}
