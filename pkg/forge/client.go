// Package forge is the public entry point for embedding the package
// manager: it wires the catalog, module host, dependency graph, and
// transaction engine behind a single Client, the way a caller outside
// cmd/forge (or a test) would want to drive an install without knowing
// about the internal package layout.
package forge

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/forgepm/forge/internal/adapters"
	"github.com/forgepm/forge/internal/catalog"
	"github.com/forgepm/forge/internal/command"
	"github.com/forgepm/forge/internal/config"
	"github.com/forgepm/forge/internal/depgraph"
	"github.com/forgepm/forge/internal/domain"
	"github.com/forgepm/forge/internal/fsutil"
	"github.com/forgepm/forge/internal/recipe"
	"github.com/forgepm/forge/internal/transaction"
)

// Client bundles every collaborator a command needs: the catalog, the
// loaded recipe set, the module-host tree, and the transaction engine.
type Client struct {
	Config  *config.Config
	FS      domain.FS
	Logger  domain.Logger
	Catalog *catalog.Catalog
	Tree    *recipe.Tree
	Cloner  *adapters.GitCloner
	Engine  *transaction.Engine

	recipes map[string]*recipe.Recipe
}

// Options overrides the defaults Open would otherwise derive from cfg.
type Options struct {
	// FS swaps the filesystem port (tests pass an adapters.MemFS).
	FS domain.FS
	// Logger overrides the default console logger.
	Logger domain.Logger
	// Pretend runs install/uninstall without committing to the live root.
	Pretend bool
	// KeepFakeroot retains each transaction's staging tree after use.
	KeepFakeroot bool
}

// Open wires a Client from cfg: it opens the catalog database, loads
// every compiled recipe artifact, and constructs the transaction
// engine. It does not rebuild recipes from source; call Rebuild first
// if the artifacts directory may be stale.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*Client, error) {
	fs := opts.FS
	if fs == nil {
		fs = adapters.NewOSFilesystem()
	}
	logger := opts.Logger
	if logger == nil {
		logger = adapters.NewConsoleLogger(os.Stderr, cfg.Logging.Level)
	}

	for _, dir := range []string{
		cfg.Directories.StateDir,
		cfg.Directories.CacheDir,
		cfg.Directories.ArtifactsDir,
		cfg.Directories.ModulesDir,
	} {
		if err := fsutil.MkdirP(ctx, fs, dir, 0o755); err != nil {
			return nil, fmt.Errorf("forge: create directory %s: %w", dir, err)
		}
	}

	catalogPath := filepath.Join(cfg.Directories.StateDir, "catalog.db")
	cat, err := catalog.Open(ctx, catalogPath)
	if err != nil {
		return nil, fmt.Errorf("forge: open catalog: %w", err)
	}

	tree := recipe.NewTree(fs, cfg.Directories.ModulesDir)
	cloner := adapters.NewGitCloner(logger)

	recipes, failures, err := recipe.LoadAll(ctx, fs, cfg.Directories.ArtifactsDir)
	if err != nil {
		cat.Close()
		return nil, fmt.Errorf("forge: load recipes: %w", err)
	}
	for _, f := range failures {
		logger.Warn(ctx, "recipe artifact failed to load", "path", f.Path, "err", f.Err)
	}

	byName := make(map[string]*recipe.Recipe, len(recipes))
	for _, r := range recipes {
		byName[r.Name] = r
	}
	if err := registerRecipes(ctx, cat, recipes); err != nil {
		cat.Close()
		return nil, fmt.Errorf("forge: register recipes: %w", err)
	}

	executor := command.NewExecutor(
		command.WithTimeout(command.DefaultTimeout),
	)
	interp := recipe.NewInterpreter(executor, cloner, logger)

	engine := &transaction.Engine{
		Catalog:      cat,
		Recipes:      byName,
		Interp:       interp,
		FS:           fs,
		Logger:       logger,
		CacheDir:     cfg.Directories.CacheDir,
		LiveRoot:     "/",
		FakerootBase: "",
		Pretend:      opts.Pretend,
		KeepFakeroot: opts.KeepFakeroot,
	}

	return &Client{
		Config:  cfg,
		FS:      fs,
		Logger:  logger,
		Catalog: cat,
		Tree:    tree,
		Cloner:  cloner,
		Engine:  engine,
		recipes: byName,
	}, nil
}

// Close releases the catalog's database handle.
func (c *Client) Close() error {
	return c.Catalog.Close()
}

// Rebuild recompiles every recipe under the module tree into
// cfg.Directories.ArtifactsDir and reloads the in-memory recipe set
// (`forge --rebuild`).
func (c *Client) Rebuild(ctx context.Context) (recipe.CompileReport, error) {
	report, err := recipe.Rebuild(ctx, c.FS, c.Tree, c.Config.Directories.ArtifactsDir)
	if err != nil {
		return report, err
	}
	for _, f := range report.Failed {
		c.Logger.Warn(ctx, "recipe failed to compile", "path", f.Path, "err", f.Err)
	}

	recipes, failures, err := recipe.LoadAll(ctx, c.FS, c.Config.Directories.ArtifactsDir)
	if err != nil {
		return report, err
	}
	for _, f := range failures {
		c.Logger.Warn(ctx, "recipe artifact failed to load", "path", f.Path, "err", f.Err)
	}

	byName := make(map[string]*recipe.Recipe, len(recipes))
	for _, r := range recipes {
		byName[r.Name] = r
	}
	c.recipes = byName
	c.Engine.Recipes = byName
	if err := registerRecipes(ctx, c.Catalog, recipes); err != nil {
		return report, fmt.Errorf("forge: register recipes: %w", err)
	}
	return report, nil
}

// registerRecipes upserts a catalog row, installed=false, for every
// loaded recipe not already known, so a compiled-but-never-installed
// (or restored-then-rebuilt) package shows up in `list` with
// installed=false instead of being invisible until the first install.
// Register never demotes an already-explicit row, so this is safe to
// call on every Open/Rebuild regardless of install state.
func registerRecipes(ctx context.Context, cat *catalog.Catalog, recipes []*recipe.Recipe) error {
	for _, r := range recipes {
		if _, err := cat.Register(ctx, r.Name, r.Version, r.Description, false); err != nil {
			return err
		}
	}
	return nil
}

// Sync pulls every repository under the module tree to the tip of its
// configured remote (`forge --sync`).
func (c *Client) Sync(ctx context.Context) error {
	repos, err := c.Tree.Repositories(ctx)
	if err != nil {
		return err
	}
	for _, repo := range repos {
		dir := filepath.Join(c.Tree.Root(), repo)
		if err := c.Cloner.Sync(ctx, dir); err != nil {
			c.Logger.Warn(ctx, "sync failed", "repo", repo, "err", err)
		}
	}
	return nil
}

// Recipe looks up a loaded recipe by name.
func (c *Client) Recipe(name string) (*recipe.Recipe, bool) {
	r, ok := c.recipes[name]
	return r, ok
}

// Install runs the install transaction for each of names, in order
// (spec.md §4.7). With only (`--only`), each name is first checked for a
// loaded recipe; the dependency closure runs in both cases.
func (c *Client) Install(ctx context.Context, names []string, only bool) error {
	for _, name := range names {
		if only {
			if _, ok := c.recipes[name]; !ok {
				return domain.ErrPackageNotFound{Package: name}
			}
		}
		if err := c.Engine.Install(ctx, name, false); err != nil {
			return fmt.Errorf("install %s: %w", name, err)
		}
	}
	return nil
}

// Uninstall uninstalls each of names, retaining cached source unless
// force is set.
func (c *Client) Uninstall(ctx context.Context, names []string, force bool) error {
	for _, name := range names {
		if err := c.Engine.Uninstall(ctx, name, force); err != nil {
			return fmt.Errorf("uninstall %s: %w", name, err)
		}
	}
	return nil
}

// Update refreshes names (every installed package if names is empty),
// reporting per package whether the update phase found nothing to do.
func (c *Client) Update(ctx context.Context, names []string, force bool) ([]transaction.UpdateResult, error) {
	return c.Engine.Update(ctx, names, force)
}

// Clean reclaims orphaned implicit installs (spec.md §4.8).
func (c *Client) Clean(ctx context.Context) error {
	return c.Engine.Clean(ctx)
}

// List returns every known package row.
func (c *Client) List(ctx context.Context) ([]catalog.PackageRow, error) {
	return c.Catalog.List(ctx)
}

// Search filters List by a case-insensitive regular expression.
func (c *Client) Search(ctx context.Context, pattern string) ([]catalog.PackageRow, error) {
	return c.Catalog.Search(ctx, pattern)
}

// Deps returns the direct dependencies of name, as declared by its
// loaded recipe.
func (c *Client) Deps(name string) ([]string, error) {
	r, ok := c.recipes[name]
	if !ok {
		return nil, domain.ErrPackageNotFound{Package: name}
	}
	return r.Dependencies, nil
}

// ImplicitInstall pairs an implicitly-installed package with its
// dependents, for `list-deps`.
type ImplicitInstall struct {
	Name       string
	Dependents []string
}

// ListDeps returns every implicitly-installed package together with its
// current dependents.
func (c *Client) ListDeps(ctx context.Context) ([]ImplicitInstall, error) {
	rows, err := c.Catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []ImplicitInstall
	for _, row := range rows {
		if !row.Installed || row.IsExplicit {
			continue
		}
		dependents, err := c.Catalog.DependentsOf(ctx, row.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, ImplicitInstall{Name: row.Name, Dependents: dependents})
	}
	return out, nil
}

// Files returns the absolute paths owned by an installed package.
func (c *Client) Files(ctx context.Context, name string) ([]string, error) {
	id, ok, err := c.Catalog.LookupID(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPackageNotFound{Package: name}
	}
	return c.Catalog.FilesOf(ctx, id)
}

// Info reports a package's catalog row and declared dependencies.
type Info struct {
	catalog.PackageRow
	Dependencies []string
	Website      string
}

// Info looks up catalog and recipe metadata together for `info`.
func (c *Client) Info(ctx context.Context, name string) (Info, error) {
	row, err := c.Catalog.Get(ctx, name)
	if err != nil {
		return Info{}, domain.ErrPackageNotFound{Package: name}
	}
	info := Info{PackageRow: row}
	if r, ok := c.recipes[name]; ok {
		info.Dependencies = r.Dependencies
		info.Website = r.Website
	}
	return info, nil
}

// NewRecipe writes a new recipe template under the user repository
// (`new`); the caller is responsible for opening it in an editor.
func (c *Client) NewRecipe(ctx context.Context, name string) (string, error) {
	return recipe.New(ctx, c.FS, c.Tree, name)
}

// EditRecipe locates an existing recipe's path (`edit`); the caller is
// responsible for opening it in an editor.
func (c *Client) EditRecipe(ctx context.Context, name string) (string, error) {
	return recipe.Edit(ctx, c.Tree, name)
}

// DumpRecipe writes a syntax-highlighted rendering of a recipe to w
// (viewer collaborator). No cmd/forge verb calls it.
func (c *Client) DumpRecipe(ctx context.Context, name string, w io.Writer) error {
	return recipe.Dump(ctx, c.FS, c.Tree, name, w)
}

// Drop deletes name's catalog row (cascading to edges and files),
// tombstones its recipe source, and removes its compiled artifact
// (`drop`, spec.md §4.3 / §8 scenario 5: "removes <artifacts>/P.so").
func (c *Client) Drop(ctx context.Context, name string, nowUnix int64) error {
	if err := recipe.Drop(ctx, c.FS, c.Tree, name, nowUnix); err != nil {
		return err
	}
	artifact := recipe.ArtifactPath(c.Config.Directories.ArtifactsDir, name)
	if c.FS.Exists(ctx, artifact) {
		if err := c.FS.Remove(ctx, artifact); err != nil {
			return fmt.Errorf("drop %s: remove artifact: %w", name, err)
		}
	}
	delete(c.recipes, name)
	c.Engine.Recipes = c.recipes
	return c.Catalog.Drop(ctx, name)
}

// Restore reverses the most recent Drop's tombstone rename (`restore`).
// It does not reinstall or re-register the package in the catalog.
func (c *Client) Restore(ctx context.Context, name string) error {
	return recipe.Restore(ctx, c.FS, c.Tree, name)
}

// AddRepo clones url into a new subdirectory of the module tree
// (`add-repo`).
func (c *Client) AddRepo(ctx context.Context, url, repoName string) error {
	dir := filepath.Join(c.Tree.Root(), repoName)
	if c.FS.Exists(ctx, dir) {
		return fmt.Errorf("add-repo: %s already exists", dir)
	}
	return c.Cloner.Clone(ctx, url, dir, "")
}

// DropRepo removes a cloned repository directory. It does not uninstall
// the packages the repository provided or change their catalog rows.
// Confirmation is a CLI-layer concern, not a library one.
func (c *Client) DropRepo(ctx context.Context, repoName string) error {
	dir := filepath.Join(c.Tree.Root(), repoName)
	return fsutil.RemoveTree(ctx, c.FS, dir)
}

// SaveDep promotes an implicitly-installed package to explicit
// (`save-dep`), so that a later `clean` will not reclaim it.
func (c *Client) SaveDep(ctx context.Context, name string) error {
	row, err := c.Catalog.Get(ctx, name)
	if err != nil {
		return domain.ErrPackageNotFound{Package: name}
	}
	_, err = c.Catalog.Register(ctx, name, row.Version, row.Description, true)
	return err
}

// InstallOrder computes a dependency-respecting installation order for
// names using each package's loaded recipe, without performing any
// installation. Exposed for diagnostics and for callers that want to
// preview `deps`/`list-deps` interaction.
func (c *Client) InstallOrder(ctx context.Context, names []string) ([]string, error) {
	g := depgraph.New()
	seen := map[string]bool{}

	var add func(name string) error
	add = func(name string) error {
		if seen[name] {
			return nil
		}
		seen[name] = true
		if err := g.AddNode(name); err != nil {
			return err
		}
		r, ok := c.recipes[name]
		if !ok {
			return nil
		}
		for _, dep := range r.Dependencies {
			g.AddEdge(name, dep)
			if err := add(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range names {
		if err := add(name); err != nil {
			return nil, err
		}
	}
	return g.GenOrder()
}
