// Package transaction implements the install/uninstall/update/clean
// lifecycle: dependency closure, fakeroot-staged builds, file-granular
// commit with rollback on failure, and orphan reclamation.
package transaction

import (
	"context"
	"path"

	"github.com/forgepm/forge/internal/catalog"
	"github.com/forgepm/forge/internal/domain"
	"github.com/forgepm/forge/internal/recipe"
)

// Engine drives transactions against a catalog, a set of loaded
// recipes, and a live filesystem root.
type Engine struct {
	Catalog  *catalog.Catalog
	Recipes  map[string]*recipe.Recipe
	Interp   *recipe.Interpreter
	FS       domain.FS
	Logger   domain.Logger

	// CacheDir holds unpacked upstream sources, one subdirectory per
	// package, reusable across rebuilds.
	CacheDir string
	// LiveRoot is the root the commit phase writes into ("/" in
	// production, a scratch tree in tests).
	LiveRoot string
	// FakerootBase is the parent directory new sandboxes are created
	// under ("" defers to os.TempDir()).
	FakerootBase string

	// Pretend runs every step short of the commit phase, leaving the
	// live root and catalog install state untouched.
	Pretend bool
	// KeepFakeroot skips sandbox teardown for inspection.
	KeepFakeroot bool
}

// sourceDirFor returns the cache directory a package's source is
// acquired into.
func (e *Engine) sourceDirFor(name string) string {
	return path.Join(e.CacheDir, name)
}

func (e *Engine) logger() domain.Logger {
	if e.Logger == nil {
		return domain.NewNoopLogger()
	}
	return e.Logger
}
