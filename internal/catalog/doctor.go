package catalog

import (
	"context"
	"fmt"

	"github.com/forgepm/forge/internal/domain"
)

// IntegrityCheck verifies the catalog invariants (I1-I4) against the
// live database. It implements domain.Check so it can be composed with
// other diagnostics under a future `forge doctor` verb.
type IntegrityCheck struct {
	catalog *Catalog
}

// NewIntegrityCheck creates a Check bound to catalog.
func NewIntegrityCheck(catalog *Catalog) *IntegrityCheck {
	return &IntegrityCheck{catalog: catalog}
}

// Name identifies this check.
func (i *IntegrityCheck) Name() string { return "catalog-integrity" }

// Run evaluates I1 through I4 and reports every violation found; it does
// not stop at the first one.
func (i *IntegrityCheck) Run(ctx context.Context) (domain.CheckResult, error) {
	var issues []domain.Issue

	issues = append(issues, i.checkOrphanFiles(ctx)...)
	issues = append(issues, i.checkEdges(ctx)...)
	cycleIssues, err := i.checkAcyclic(ctx)
	if err != nil {
		return domain.CheckResult{}, err
	}
	issues = append(issues, cycleIssues...)
	issues = append(issues, i.checkInstalledFileConsistency(ctx)...)

	status := domain.CheckStatusPass
	if len(issues) > 0 {
		status = domain.CheckStatusFail
	}
	return domain.CheckResult{
		CheckName: i.Name(),
		Status:    status,
		Issues:    issues,
	}, nil
}

// checkOrphanFiles verifies I1: every file row's package_id refers to an
// existing package row. Foreign-key cascade should make this
// unreachable in practice; the check exists to catch a database opened
// without PRAGMA foreign_keys enabled.
func (i *IntegrityCheck) checkOrphanFiles(ctx context.Context) []domain.Issue {
	rows, err := i.catalog.db.QueryContext(ctx, `
		SELECT f.absolute_path, f.package_id FROM files f
		LEFT JOIN packages p ON p.id = f.package_id
		WHERE p.id IS NULL`)
	if err != nil {
		return []domain.Issue{{Code: "I1", Message: fmt.Sprintf("query failed: %v", err)}}
	}
	defer rows.Close()

	var issues []domain.Issue
	for rows.Next() {
		var path string
		var pkgID int64
		if err := rows.Scan(&path, &pkgID); err != nil {
			continue
		}
		issues = append(issues, domain.Issue{
			Code:    "I1",
			Message: fmt.Sprintf("file %q references missing package id %d", path, pkgID),
		})
	}
	return issues
}

// checkEdges verifies I2: every dependency edge references two existing
// packages and is not a self-edge.
func (i *IntegrityCheck) checkEdges(ctx context.Context) []domain.Issue {
	rows, err := i.catalog.db.QueryContext(ctx, `
		SELECT d.package_id, d.dependency_id FROM dependencies d
		LEFT JOIN packages p ON p.id = d.package_id
		LEFT JOIN packages dep ON dep.id = d.dependency_id
		WHERE p.id IS NULL OR dep.id IS NULL OR d.package_id = d.dependency_id`)
	if err != nil {
		return []domain.Issue{{Code: "I2", Message: fmt.Sprintf("query failed: %v", err)}}
	}
	defer rows.Close()

	var issues []domain.Issue
	for rows.Next() {
		var pkgID, depID int64
		if err := rows.Scan(&pkgID, &depID); err != nil {
			continue
		}
		issues = append(issues, domain.Issue{
			Code:    "I2",
			Message: fmt.Sprintf("invalid dependency edge (%d -> %d)", pkgID, depID),
		})
	}
	return issues
}

// checkAcyclic verifies I3 using the same three-state DFS the
// dependency graph package uses for order generation.
func (i *IntegrityCheck) checkAcyclic(ctx context.Context) ([]domain.Issue, error) {
	packages, err := i.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	edges := make(map[string][]string, len(packages))
	for _, p := range packages {
		deps, err := i.catalog.ListDeps(ctx, p.Name)
		if err != nil {
			return nil, err
		}
		edges[p.Name] = deps
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	state := make(map[string]int, len(packages))
	var issues []domain.Issue

	var visit func(node string, stack []string) bool
	visit = func(node string, stack []string) bool {
		state[node] = gray
		stack = append(stack, node)
		for _, dep := range edges[node] {
			switch state[dep] {
			case gray:
				cycle := append(append([]string{}, stack...), dep)
				issues = append(issues, domain.Issue{
					Code:    "I3",
					Message: fmt.Sprintf("cyclic dependency: %v", cycle),
					Package: node,
				})
				return false
			case white:
				if !visit(dep, stack) {
					return false
				}
			}
		}
		state[node] = black
		return true
	}

	for _, p := range packages {
		if state[p.Name] == white {
			visit(p.Name, nil)
		}
	}
	return issues, nil
}

// checkInstalledFileConsistency verifies I4: an uninstalled package
// owns zero file rows.
func (i *IntegrityCheck) checkInstalledFileConsistency(ctx context.Context) []domain.Issue {
	rows, err := i.catalog.db.QueryContext(ctx, `
		SELECT p.name, COUNT(f.id) FROM packages p
		JOIN files f ON f.package_id = p.id
		WHERE p.installed = 0
		GROUP BY p.id`)
	if err != nil {
		return []domain.Issue{{Code: "I4", Message: fmt.Sprintf("query failed: %v", err)}}
	}
	defer rows.Close()

	var issues []domain.Issue
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			continue
		}
		issues = append(issues, domain.Issue{
			Code:    "I4",
			Message: fmt.Sprintf("uninstalled package %q owns %d file rows", name, count),
			Package: name,
		})
	}
	return issues
}
