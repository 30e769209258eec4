package recipe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgepm/forge/internal/recipe"
)

func TestDropAndRestore_RoundTrips(t *testing.T) {
	fs, tree := seedTree(t)
	ctx := context.Background()

	require.NoError(t, recipe.Drop(ctx, fs, tree, "zed@gf", 1700000000))
	assert.False(t, fs.Exists(ctx, "/modules/core/zed@gf.toml"))
	assert.True(t, fs.Exists(ctx, "/modules/core/zed@gf.toml.c-1700000000"))

	_, err := recipe.Edit(ctx, tree, "zed@gf")
	assert.Error(t, err, "dropped recipe should not be findable until restored")

	require.NoError(t, recipe.Restore(ctx, fs, tree, "zed@gf"))
	assert.True(t, fs.Exists(ctx, "/modules/core/zed@gf.toml"))
	assert.False(t, fs.Exists(ctx, "/modules/core/zed@gf.toml.c-1700000000"))
}

func TestRestore_PicksMostRecentTombstone(t *testing.T) {
	fs, tree := seedTree(t)
	ctx := context.Background()

	require.NoError(t, recipe.Drop(ctx, fs, tree, "zed@gf", 1700000000))
	require.NoError(t, fs.WriteFile(ctx, "/modules/core/zed@gf.toml", []byte("name=\"zed@gf\"\nversion=\"2.0\"\n"), 0o644))
	require.NoError(t, recipe.Drop(ctx, fs, tree, "zed@gf", 1800000000))

	require.NoError(t, recipe.Restore(ctx, fs, tree, "zed@gf"))
	assert.True(t, fs.Exists(ctx, "/modules/core/zed@gf.toml"))
	assert.False(t, fs.Exists(ctx, "/modules/core/zed@gf.toml.c-1800000000"))
	assert.True(t, fs.Exists(ctx, "/modules/core/zed@gf.toml.c-1700000000"))
}

func TestDrop_UnknownPackage(t *testing.T) {
	fs, tree := seedTree(t)
	err := recipe.Drop(context.Background(), fs, tree, "zed@missing", 1700000000)
	assert.Error(t, err)
}

func TestRestore_NoTombstoneFound(t *testing.T) {
	fs, tree := seedTree(t)
	err := recipe.Restore(context.Background(), fs, tree, "zed@gf")
	assert.Error(t, err)
}
