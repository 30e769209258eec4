package recipe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgepm/forge/internal/adapters"
	"github.com/forgepm/forge/internal/recipe"
)

func seedTree(t *testing.T) (*adapters.MemFS, *recipe.Tree) {
	t.Helper()
	fs := adapters.NewMemFS()
	ctx := context.Background()

	require.NoError(t, fs.MkdirAll(ctx, "/modules/core", 0o755))
	require.NoError(t, fs.MkdirAll(ctx, "/modules/user_modules", 0o755))
	require.NoError(t, fs.WriteFile(ctx, "/modules/core/zed@libcurl.toml", []byte("name=\"zed@libcurl\"\nversion=\"1.0\"\n"), 0o644))
	require.NoError(t, fs.WriteFile(ctx, "/modules/core/zed@gf.toml", []byte("name=\"zed@gf\"\nversion=\"1.0\"\n"), 0o644))

	return fs, recipe.NewTree(fs, "/modules")
}

func TestTree_Repositories(t *testing.T) {
	_, tree := seedTree(t)
	repos, err := tree.Repositories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "user_modules"}, repos)
}

func TestTree_RecipePaths(t *testing.T) {
	_, tree := seedTree(t)
	paths, err := tree.RecipePaths(context.Background(), "core")
	require.NoError(t, err)
	assert.Equal(t, []string{"/modules/core/zed@gf.toml", "/modules/core/zed@libcurl.toml"}, paths)
}

func TestTree_AllRecipePaths(t *testing.T) {
	_, tree := seedTree(t)
	paths, err := tree.AllRecipePaths(context.Background())
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestTree_RecipePath(t *testing.T) {
	_, tree := seedTree(t)
	assert.Equal(t, "/modules/user_modules/zed@new.toml", tree.RecipePath(recipe.UserRepo, "zed@new"))
}

func TestTombstonePath(t *testing.T) {
	got := recipe.TombstonePath("/modules/core/zed@gf.toml", 1700000000)
	assert.Equal(t, "/modules/core/zed@gf.toml.c-1700000000", got)
}
