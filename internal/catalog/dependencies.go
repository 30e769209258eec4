package catalog

import (
	"context"

	"github.com/forgepm/forge/internal/domain"
)

// AddEdge records that packageID depends on dependencyID, idempotently.
// A package may not depend on itself.
func (c *Catalog) AddEdge(ctx context.Context, packageID, dependencyID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if packageID == dependencyID {
		name, _ := c.nameForID(ctx, packageID)
		return domain.ErrSelfDependency{Name: name}
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO dependencies (package_id, dependency_id) VALUES (?, ?)`,
		packageID, dependencyID)
	if err != nil {
		return domain.ErrCatalogConstraint{Reason: "insert dependency edge", Err: err}
	}
	return nil
}

// ListDeps returns the names of name's direct dependencies, in no
// particular order.
func (c *Catalog) ListDeps(ctx context.Context, name string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT dep.name FROM dependencies d
		JOIN packages p ON p.id = d.package_id
		JOIN packages dep ON dep.id = d.dependency_id
		WHERE p.name = ?`, name)
	if err != nil {
		return nil, domain.ErrCatalogIO{Op: "list_deps", Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var dep string
		if err := rows.Scan(&dep); err != nil {
			return nil, domain.ErrCatalogIO{Op: "list_deps", Err: err}
		}
		out = append(out, dep)
	}
	return out, rows.Err()
}

// DependentsOf returns the names of installed packages with an edge
// into name (i.e. packages that require name).
func (c *Catalog) DependentsOf(ctx context.Context, name string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT p.name FROM dependencies d
		JOIN packages p ON p.id = d.package_id
		JOIN packages dep ON dep.id = d.dependency_id
		WHERE dep.name = ? AND p.installed = 1`, name)
	if err != nil {
		return nil, domain.ErrCatalogIO{Op: "dependents_of", Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var dependent string
		if err := rows.Scan(&dependent); err != nil {
			return nil, domain.ErrCatalogIO{Op: "dependents_of", Err: err}
		}
		out = append(out, dependent)
	}
	return out, rows.Err()
}

// Required reports whether at least one installed package depends on
// name (catalog invariant for clean-safety, §3 rule 6).
func (c *Catalog) Required(ctx context.Context, name string) (bool, error) {
	dependents, err := c.DependentsOf(ctx, name)
	if err != nil {
		return false, err
	}
	return len(dependents) > 0, nil
}

func (c *Catalog) nameForID(ctx context.Context, id int64) (string, error) {
	var name string
	err := c.db.QueryRowContext(ctx, `SELECT name FROM packages WHERE id = ?`, id).Scan(&name)
	return name, err
}
