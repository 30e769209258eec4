package catalog

import (
	"context"
	"fmt"

	"github.com/forgepm/forge/internal/domain"
)

// RecordFiles bulk-inserts file rows for packageID. A conflict on
// (package_id, absolute_path) replaces the existing row, so re-running
// an install over the same files is idempotent (law L2).
func (c *Catalog) RecordFiles(ctx context.Context, packageID int64, files []FileRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ErrCatalogIO{Op: "record_files", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO files (package_id, absolute_path, size, mode, mtime)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(package_id, absolute_path) DO UPDATE SET size = excluded.size, mode = excluded.mode, mtime = excluded.mtime`)
	if err != nil {
		return domain.ErrCatalogIO{Op: "record_files", Err: err}
	}
	defer stmt.Close()

	for _, f := range files {
		if f.Size < 0 || f.Size > MaxFileSize {
			return domain.ErrSizeOverflow{Path: f.Path, Size: f.Size}
		}
		if _, err := stmt.ExecContext(ctx, packageID, f.Path, f.Size, f.Mode, f.MTime); err != nil {
			return domain.ErrCatalogIO{Op: "record_files", Err: fmt.Errorf("%s: %w", f.Path, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.ErrCatalogIO{Op: "record_files", Err: err}
	}
	return nil
}

// ClearFiles deletes every file row owned by packageID.
func (c *Catalog) ClearFiles(ctx context.Context, packageID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.ExecContext(ctx, `DELETE FROM files WHERE package_id = ?`, packageID); err != nil {
		return domain.ErrCatalogIO{Op: "clear_files", Err: err}
	}
	return nil
}

// FilesOf returns the absolute paths owned by packageID, in insertion
// order.
func (c *Catalog) FilesOf(ctx context.Context, packageID int64) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT absolute_path FROM files WHERE package_id = ? ORDER BY id`, packageID)
	if err != nil {
		return nil, domain.ErrCatalogIO{Op: "files_of", Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, domain.ErrCatalogIO{Op: "files_of", Err: err}
		}
		out = append(out, path)
	}
	return out, rows.Err()
}

// FileRowsOf returns the full file rows owned by packageID.
func (c *Catalog) FileRowsOf(ctx context.Context, packageID int64) ([]FileRow, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT absolute_path, size, mode, mtime FROM files WHERE package_id = ? ORDER BY id`, packageID)
	if err != nil {
		return nil, domain.ErrCatalogIO{Op: "file_rows_of", Err: err}
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		var f FileRow
		if err := rows.Scan(&f.Path, &f.Size, &f.Mode, &f.MTime); err != nil {
			return nil, domain.ErrCatalogIO{Op: "file_rows_of", Err: err}
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
