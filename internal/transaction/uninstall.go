package transaction

import (
	"context"

	"github.com/forgepm/forge/internal/domain"
	"github.com/forgepm/forge/internal/fsutil"
)

// Uninstall unlinks every file name owns from the live root (ignoring
// "not found"), clears its file rows, and marks it uninstalled.
// Directories are never removed, since they may be shared with another
// package. removeSource additionally deletes the cached source tree;
// otherwise source_location is retained for a future reinstall
// (spec.md §4.7 "uninstall").
func (e *Engine) Uninstall(ctx context.Context, name string, removeSource bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pkgID, ok, err := e.Catalog.LookupID(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrPackageNotFound{Package: name}
	}

	row, err := e.Catalog.Get(ctx, name)
	if err != nil {
		return err
	}

	files, err := e.Catalog.FilesOf(ctx, pkgID)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := e.FS.Remove(ctx, f); err != nil {
			if e.FS.Exists(ctx, f) {
				return domain.ErrFilesystemOperation{Operation: "unlink", Path: f, Err: err}
			}
			// already gone; ignore, matching "unlink, ignoring not found"
		}
	}

	if err := e.Catalog.ClearFiles(ctx, pkgID); err != nil {
		return err
	}
	if err := e.Catalog.MarkUninstalled(ctx, name, !removeSource); err != nil {
		return err
	}

	if removeSource && row.SourceLocation != "" {
		if err := fsutil.RemoveTree(ctx, e.FS, row.SourceLocation); err != nil {
			e.logger().Warn(ctx, "failed to remove cached source", "package", name, "path", row.SourceLocation, "err", err)
		}
	}
	return nil
}
