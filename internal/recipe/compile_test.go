package recipe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgepm/forge/internal/adapters"
	"github.com/forgepm/forge/internal/recipe"
)

func TestRebuild_CompilesValidRecipesAndSkipsInvalid(t *testing.T) {
	fs, tree := seedTree(t)
	ctx := context.Background()

	require.NoError(t, fs.WriteFile(ctx, "/modules/core/bad.toml", []byte("name=\"Not Valid\"\nversion=\"1\"\n"), 0o644))

	report, err := recipe.Rebuild(ctx, fs, tree, "/artifacts")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Compiled)
	require.Len(t, report.Failed, 1)
	assert.Contains(t, report.Failed[0].Path, "bad.toml")

	assert.True(t, fs.Exists(ctx, recipe.ArtifactPath("/artifacts", "zed@libcurl")))
	assert.True(t, fs.Exists(ctx, recipe.ArtifactPath("/artifacts", "zed@gf")))
}

func TestLoad_RoundTripsThroughGob(t *testing.T) {
	fs, tree := seedTree(t)
	ctx := context.Background()

	_, err := recipe.Rebuild(ctx, fs, tree, "/artifacts")
	require.NoError(t, err)

	r, err := recipe.Load(ctx, fs, recipe.ArtifactPath("/artifacts", "zed@libcurl"))
	require.NoError(t, err)
	assert.Equal(t, "zed@libcurl", r.Name)
	assert.Equal(t, "1.0", r.Version)
}

func TestLoad_CorruptArtifactReturnsModuleLoadError(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()
	require.NoError(t, fs.MkdirAll(ctx, "/artifacts", 0o755))
	require.NoError(t, fs.WriteFile(ctx, "/artifacts/broken.forgec", []byte("not gob data"), 0o644))

	_, err := recipe.Load(ctx, fs, "/artifacts/broken.forgec")
	assert.Error(t, err)
}

func TestLoadAll_SkipsCorruptArtifacts(t *testing.T) {
	fs, tree := seedTree(t)
	ctx := context.Background()
	_, err := recipe.Rebuild(ctx, fs, tree, "/artifacts")
	require.NoError(t, err)
	require.NoError(t, fs.WriteFile(ctx, "/artifacts/broken.forgec", []byte("not gob"), 0o644))

	recipes, failed, err := recipe.LoadAll(ctx, fs, "/artifacts")
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
	assert.Len(t, failed, 1)
}
