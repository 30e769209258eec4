package recipe

import (
	"context"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/forgepm/forge/internal/domain"
)

// UserRepo is the name of the writable repository every modules root
// carries, the target of `new`. `edit`, `drop`, and `restore` search
// every repository.
const UserRepo = "user_modules"

// Tree enumerates the repositories and recipe files under a modules
// root: one subdirectory per repository, one "<name>.toml" file per
// package at the top level of each repository.
type Tree struct {
	fs   domain.FS
	root string
}

// NewTree binds a Tree to root, a directory containing one subdirectory
// per repository.
func NewTree(fs domain.FS, root string) *Tree {
	return &Tree{fs: fs, root: root}
}

// Root returns the modules root directory.
func (t *Tree) Root() string { return t.root }

// Repositories lists the repository names (subdirectories) under the
// modules root, sorted for deterministic iteration.
func (t *Tree) Repositories(ctx context.Context) ([]string, error) {
	entries, err := t.fs.ReadDir(ctx, t.root)
	if err != nil {
		return nil, err
	}
	var repos []string
	for _, e := range entries {
		if e.IsDir() {
			repos = append(repos, e.Name())
		}
	}
	sort.Strings(repos)
	return repos, nil
}

// RecipePaths lists the absolute paths of every "<name>.toml" recipe
// file in repository repo.
func (t *Tree) RecipePaths(ctx context.Context, repo string) ([]string, error) {
	dir := path.Join(t.root, repo)
	entries, err := t.fs.ReadDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		paths = append(paths, path.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// AllRecipePaths lists every recipe file across every repository.
func (t *Tree) AllRecipePaths(ctx context.Context) ([]string, error) {
	repos, err := t.Repositories(ctx)
	if err != nil {
		return nil, err
	}
	var all []string
	for _, repo := range repos {
		paths, err := t.RecipePaths(ctx, repo)
		if err != nil {
			return nil, err
		}
		all = append(all, paths...)
	}
	return all, nil
}

// RecipePath returns the path a recipe named name would have within
// repo, regardless of whether it exists yet (used by `new`).
func (t *Tree) RecipePath(repo, name string) string {
	return path.Join(t.root, repo, name+".toml")
}

// TombstonePath returns the path a dropped recipe's tombstone would have:
// the original file renamed with a ".c-<unix-timestamp>" suffix, per
// spec.md §4.3/§4.7 scenario 5.
func TombstonePath(recipePath string, droppedAtUnix int64) string {
	return recipePath + ".c-" + strconv.FormatInt(droppedAtUnix, 10)
}
