package recipe

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/forgepm/forge/internal/domain"
)

// Drop renames the recipe file for name to a tombstone
// ("<name>.toml.c-<unix-timestamp>"), so `restore` can bring it back
// later without re-fetching the repository (spec.md §4.3, §4.7 scenario
// 5). The catalog-side package row removal is a separate concern
// (catalog.Drop); callers perform both.
func Drop(ctx context.Context, fs domain.FS, tree *Tree, name string, nowUnix int64) error {
	recipePath, err := findRecipe(ctx, tree, name)
	if err != nil {
		return err
	}
	tomb := TombstonePath(recipePath, nowUnix)
	if err := fs.Rename(ctx, recipePath, tomb); err != nil {
		return fmt.Errorf("tombstone %s: %w", recipePath, err)
	}
	return nil
}

// Restore finds the most recent tombstone for name and renames it back
// to its original recipe path. If more than one tombstone exists (name
// was dropped again after its recipe reappeared, without a restore in
// between), the one with the largest timestamp wins.
func Restore(ctx context.Context, fs domain.FS, tree *Tree, name string) error {
	repos, err := tree.Repositories(ctx)
	if err != nil {
		return err
	}

	var best string
	var bestTS int64 = -1
	for _, repo := range repos {
		entries, err := fs.ReadDir(ctx, tree.Root()+"/"+repo)
		if err != nil {
			return err
		}
		prefix := name + ".toml.c-"
		for _, e := range entries {
			if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
				continue
			}
			tsStr := strings.TrimPrefix(e.Name(), prefix)
			ts, err := strconv.ParseInt(tsStr, 10, 64)
			if err != nil {
				continue
			}
			if ts > bestTS {
				bestTS = ts
				best = tree.Root() + "/" + repo + "/" + e.Name()
			}
		}
	}
	if best == "" {
		return domain.ErrPackageNotFound{Package: name}
	}

	original := strings.TrimSuffix(best, ".c-"+strconv.FormatInt(bestTS, 10))
	if err := fs.Rename(ctx, best, original); err != nil {
		return fmt.Errorf("restore %s: %w", original, err)
	}
	return nil
}

// findRecipe locates the live (non-tombstoned) recipe file for name
// across every repository.
func findRecipe(ctx context.Context, tree *Tree, name string) (string, error) {
	paths, err := tree.AllRecipePaths(ctx)
	if err != nil {
		return "", err
	}
	sort.Strings(paths)
	target := name + ".toml"
	for _, p := range paths {
		if strings.HasSuffix(p, "/"+target) {
			return p, nil
		}
	}
	return "", domain.ErrPackageNotFound{Package: name}
}
