package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/forgepm/forge/internal/command"
	"github.com/forgepm/forge/internal/domain"
)

// Register upserts a package row for name. On first insert, installed
// is false. is_explicit is updated monotonically: once true, it never
// reverts to false on a later register call.
func (c *Catalog) Register(ctx context.Context, name, version, description string, isExplicit bool) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := command.ValidatePackageName(name); err != nil {
		return 0, domain.ErrInvalidName{Name: name, Reason: err.Error()}
	}

	var id int64
	var existingExplicit bool
	err := c.db.QueryRowContext(ctx, `SELECT id, is_explicit FROM packages WHERE name = ?`, name).Scan(&id, &existingExplicit)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := c.db.ExecContext(ctx,
			`INSERT INTO packages (name, version, description, installed, is_explicit) VALUES (?, ?, ?, 0, ?)`,
			name, version, description, isExplicit)
		if err != nil {
			return 0, domain.ErrCatalogIO{Op: "register", Err: err}
		}
		return res.LastInsertId()

	case err != nil:
		return 0, domain.ErrCatalogIO{Op: "register", Err: err}

	default:
		explicit := existingExplicit || isExplicit
		_, err = c.db.ExecContext(ctx,
			`UPDATE packages SET version = ?, description = ?, is_explicit = ? WHERE id = ?`,
			version, description, explicit, id)
		if err != nil {
			return 0, domain.ErrCatalogIO{Op: "register", Err: err}
		}
		return id, nil
	}
}

// LookupID returns the package id for name, or false if it is not
// registered.
func (c *Catalog) LookupID(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := c.db.QueryRowContext(ctx, `SELECT id FROM packages WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, domain.ErrCatalogIO{Op: "lookup_id", Err: err}
	}
	return id, true, nil
}

// IsInstalled reports whether name is a known, installed package.
func (c *Catalog) IsInstalled(ctx context.Context, name string) (bool, error) {
	var installed bool
	err := c.db.QueryRowContext(ctx, `SELECT installed FROM packages WHERE name = ?`, name).Scan(&installed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.ErrCatalogIO{Op: "is_installed", Err: err}
	}
	return installed, nil
}

// MarkInstalled sets installed=true and records sourceLocation.
func (c *Catalog) MarkInstalled(ctx context.Context, name, sourceLocation string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.ExecContext(ctx,
		`UPDATE packages SET installed = 1, source_location = ? WHERE name = ?`,
		sourceLocation, name)
	if err != nil {
		return domain.ErrCatalogIO{Op: "mark_installed", Err: err}
	}
	return requireRowAffected(res, name)
}

// MarkUninstalled sets installed=false, clearing source_location unless
// retainSource is set.
func (c *Catalog) MarkUninstalled(ctx context.Context, name string, retainSource bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res sql.Result
	var err error
	if retainSource {
		res, err = c.db.ExecContext(ctx, `UPDATE packages SET installed = 0 WHERE name = ?`, name)
	} else {
		res, err = c.db.ExecContext(ctx,
			`UPDATE packages SET installed = 0, source_location = NULL WHERE name = ?`, name)
	}
	if err != nil {
		return domain.ErrCatalogIO{Op: "mark_uninstalled", Err: err}
	}
	return requireRowAffected(res, name)
}

// Get returns the full row for name.
func (c *Catalog) Get(ctx context.Context, name string) (PackageRow, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, name, version, description, installed, is_explicit, COALESCE(source_location, '') FROM packages WHERE name = ?`,
		name)
	return scanPackageRow(row, name)
}

// List returns every package row, ordered by name.
func (c *Catalog) List(ctx context.Context) ([]PackageRow, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, name, version, description, installed, is_explicit, COALESCE(source_location, '') FROM packages ORDER BY name`)
	if err != nil {
		return nil, domain.ErrCatalogIO{Op: "list", Err: err}
	}
	defer rows.Close()

	var out []PackageRow
	for rows.Next() {
		var p PackageRow
		if err := rows.Scan(&p.ID, &p.Name, &p.Version, &p.Description, &p.Installed, &p.IsExplicit, &p.SourceLocation); err != nil {
			return nil, domain.ErrCatalogIO{Op: "list", Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Drop deletes the package row for name, cascading to its dependency
// edges and file rows.
func (c *Catalog) Drop(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.ExecContext(ctx, `DELETE FROM packages WHERE name = ?`, name)
	if err != nil {
		return domain.ErrCatalogIO{Op: "drop", Err: err}
	}
	return requireRowAffected(res, name)
}

func scanPackageRow(row *sql.Row, name string) (PackageRow, error) {
	var p PackageRow
	err := row.Scan(&p.ID, &p.Name, &p.Version, &p.Description, &p.Installed, &p.IsExplicit, &p.SourceLocation)
	if errors.Is(err, sql.ErrNoRows) {
		return PackageRow{}, domain.ErrPackageNotFound{Package: name}
	}
	if err != nil {
		return PackageRow{}, domain.ErrCatalogIO{Op: "get", Err: err}
	}
	return p, nil
}

func requireRowAffected(res sql.Result, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrCatalogIO{Op: "rows_affected", Err: err}
	}
	if n == 0 {
		return domain.ErrPackageNotFound{Package: name}
	}
	return nil
}
