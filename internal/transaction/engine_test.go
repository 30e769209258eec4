package transaction_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgepm/forge/internal/adapters"
	"github.com/forgepm/forge/internal/catalog"
	"github.com/forgepm/forge/internal/command"
	"github.com/forgepm/forge/internal/domain"
	"github.com/forgepm/forge/internal/recipe"
	"github.com/forgepm/forge/internal/transaction"
)

// fsCloner fakes a git-clone step by materializing a marker file at dir
// through the same domain.FS the engine uses, so CopyTree has something
// real to stage.
type fsCloner struct {
	fs domain.FS
}

func (c *fsCloner) Clone(ctx context.Context, url, dir, ref string) error {
	if err := c.fs.MkdirAll(ctx, dir, 0o755); err != nil {
		return err
	}
	return c.fs.WriteFile(ctx, dir+"/SOURCE", []byte(url), 0o644)
}

func newTestEngine(t *testing.T, recipes map[string]*recipe.Recipe) *transaction.Engine {
	t.Helper()
	ctx := context.Background()

	cat, err := catalog.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })

	fs := adapters.NewMemFS()
	executor := command.NewExecutor(command.WithDryRun(true))
	interp := recipe.NewInterpreter(executor, &fsCloner{fs: fs}, domain.NewNoopLogger())

	return &transaction.Engine{
		Catalog:      cat,
		Recipes:      recipes,
		Interp:       interp,
		FS:           fs,
		Logger:       domain.NewNoopLogger(),
		CacheDir:     "/cache",
		LiveRoot:     "/",
		FakerootBase: "/tmp",
	}
}

func withFullLifecycleSteps(r *recipe.Recipe) *recipe.Recipe {
	r.Steps = append(r.Steps,
		recipe.Step{Phase: recipe.PhaseDownload, Kind: recipe.StepGitClone, URL: "https://example.com/" + r.Name + ".git"},
		recipe.Step{Phase: recipe.PhaseBuild, Kind: recipe.StepMake},
		recipe.Step{Phase: recipe.PhaseInstall, Kind: recipe.StepMake, Targets: []string{"install"}},
		recipe.Step{Phase: recipe.PhaseUninstall, Kind: recipe.StepMake, Targets: []string{"uninstall"}},
	)
	return r
}
