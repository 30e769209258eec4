package transaction_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgepm/forge/internal/recipe"
)

func TestUpdate_PullsInPlaceWhenUpdatePhasePresent(t *testing.T) {
	a := withFullLifecycleSteps(&recipe.Recipe{Name: "zed@a", Version: "1.0"})
	a.Steps = append(a.Steps, recipe.Step{Phase: recipe.PhaseUpdate, Kind: recipe.StepRun, Cmd: "true"})
	engine := newTestEngine(t, map[string]*recipe.Recipe{"zed@a": a})
	ctx := context.Background()

	require.NoError(t, engine.Install(ctx, "zed@a", false))
	row, err := engine.Catalog.Get(ctx, "zed@a")
	require.NoError(t, err)
	sourceDir := row.SourceLocation

	results, err := engine.Update(ctx, []string{"zed@a"}, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].UpToDate, "a bare \"true\" step carries no up-to-date wording")

	installed, err := engine.Catalog.IsInstalled(ctx, "zed@a")
	require.NoError(t, err)
	assert.True(t, installed)

	row, err = engine.Catalog.Get(ctx, "zed@a")
	require.NoError(t, err)
	assert.Equal(t, sourceDir, row.SourceLocation, "in-place pull must reuse the existing source tree")
}

func TestUpdate_UpToDateIsNoop(t *testing.T) {
	a := withFullLifecycleSteps(&recipe.Recipe{Name: "zed@a", Version: "1.0"})
	a.Steps = append(a.Steps, recipe.Step{
		Phase: recipe.PhaseUpdate,
		Kind:  recipe.StepRun,
		Cmd:   "echo already up to date",
	})
	engine := newTestEngine(t, map[string]*recipe.Recipe{"zed@a": a})
	ctx := context.Background()

	require.NoError(t, engine.Install(ctx, "zed@a", false))
	row, err := engine.Catalog.Get(ctx, "zed@a")
	require.NoError(t, err)
	sourceDir := row.SourceLocation

	results, err := engine.Update(ctx, []string{"zed@a"}, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].UpToDate, "update phase output reports up to date")

	row, err = engine.Catalog.Get(ctx, "zed@a")
	require.NoError(t, err)
	assert.Equal(t, sourceDir, row.SourceLocation, "no-op update must not touch the cached source")
	installed, err := engine.Catalog.IsInstalled(ctx, "zed@a")
	require.NoError(t, err)
	assert.True(t, installed)
}

func TestUpdate_ForceIgnoresUpToDateAndReinstalls(t *testing.T) {
	a := withFullLifecycleSteps(&recipe.Recipe{Name: "zed@a", Version: "1.0"})
	a.Steps = append(a.Steps, recipe.Step{
		Phase: recipe.PhaseUpdate,
		Kind:  recipe.StepRun,
		Cmd:   "echo already up to date",
	})
	engine := newTestEngine(t, map[string]*recipe.Recipe{"zed@a": a})
	ctx := context.Background()

	require.NoError(t, engine.Install(ctx, "zed@a", false))

	results, err := engine.Update(ctx, []string{"zed@a"}, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].UpToDate, "force must skip the up-to-date check entirely")

	installed, err := engine.Catalog.IsInstalled(ctx, "zed@a")
	require.NoError(t, err)
	assert.True(t, installed, "force update must still end with the package reinstalled")
}

func TestUpdate_EmptyNamesUpdatesAllInstalled(t *testing.T) {
	a := withFullLifecycleSteps(&recipe.Recipe{Name: "zed@a", Version: "1.0"})
	b := withFullLifecycleSteps(&recipe.Recipe{Name: "zed@b", Version: "1.0"})
	engine := newTestEngine(t, map[string]*recipe.Recipe{"zed@a": a, "zed@b": b})
	ctx := context.Background()

	require.NoError(t, engine.Install(ctx, "zed@a", false))
	require.NoError(t, engine.Install(ctx, "zed@b", false))

	results, err := engine.Update(ctx, nil, false)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	for _, name := range []string{"zed@a", "zed@b"} {
		installed, err := engine.Catalog.IsInstalled(ctx, name)
		require.NoError(t, err)
		assert.True(t, installed)
	}
}

func TestUpdate_UnknownPackageFails(t *testing.T) {
	engine := newTestEngine(t, map[string]*recipe.Recipe{})
	_, err := engine.Update(context.Background(), []string{"zed@ghost"}, false)
	assert.Error(t, err)
}
