package transaction

import (
	"context"
	"strings"

	"github.com/forgepm/forge/internal/domain"
	"github.com/forgepm/forge/internal/fsutil"
	"github.com/forgepm/forge/internal/recipe"
)

// UpdateResult reports, per package, whether update found anything to
// do (spec.md §4.7 scenario 6: "output says up-to-date").
type UpdateResult struct {
	Name     string
	UpToDate bool
}

// Update refreshes each of names (every installed package if names is
// empty). force skips the up-to-date check and always deletes the
// cached source before reinstalling (spec.md §4.7 "update").
//
// The TOML step vocabulary has no "is this stale" predicate to mirror
// the original's update()/get_changes() split, so the update phase
// (recipe.PhaseUpdate) is treated as an in-place pull: its combined
// output is inspected for the up-to-date wording real tools already
// print (git's "Already up to date.", make's "Nothing to be done"),
// the same signal the original's update() → 0 return value carried. On
// that signal, with no force flag, the call is a no-op: no uninstall,
// no reinstall, no catalog write. Otherwise the existing source tree
// is reused if the pull succeeded, or deleted and re-acquired by
// Install if it failed or the recipe declares no update phase.
func (e *Engine) Update(ctx context.Context, names []string, force bool) ([]UpdateResult, error) {
	if len(names) == 0 {
		rows, err := e.Catalog.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if row.Installed {
				names = append(names, row.Name)
			}
		}
	}

	results := make([]UpdateResult, 0, len(names))
	for _, name := range names {
		upToDate, err := e.updateOne(ctx, name, force)
		if err != nil {
			return results, err
		}
		results = append(results, UpdateResult{Name: name, UpToDate: upToDate})
	}
	return results, nil
}

func (e *Engine) updateOne(ctx context.Context, name string, force bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r, ok := e.Recipes[name]
	if !ok {
		return false, domain.ErrPackageNotFound{Package: name}
	}
	row, err := e.Catalog.Get(ctx, name)
	if err != nil {
		return false, err
	}

	sourceDir := row.SourceLocation
	if sourceDir == "" {
		sourceDir = e.sourceDirFor(name)
	}

	pulledInPlace := false
	if !force && r.HasPhase(recipe.PhaseUpdate) && e.FS.Exists(ctx, sourceDir) {
		output, err := e.Interp.RunCapturing(ctx, r, recipe.PhaseUpdate, sourceDir)
		if err == nil {
			pulledInPlace = true
			if reportsUpToDate(output) {
				e.logger().Info(ctx, "up-to-date", "package", name)
				return true, nil
			}
		}
	}
	if !pulledInPlace && e.FS.Exists(ctx, sourceDir) {
		if err := fsutil.RemoveTree(ctx, e.FS, sourceDir); err != nil {
			return false, err
		}
	}

	if err := e.Uninstall(ctx, name, false); err != nil {
		return false, err
	}
	if err := e.Install(ctx, name, false); err != nil {
		return false, err
	}
	return false, nil
}

// reportsUpToDate scans an update phase's combined output for the
// wording the tools a recipe typically shells out to (git, make)
// already use to report "nothing changed".
func reportsUpToDate(output string) bool {
	o := strings.ToLower(output)
	return strings.Contains(o, "already up to date") ||
		strings.Contains(o, "up-to-date") ||
		strings.Contains(o, "nothing to be done")
}
