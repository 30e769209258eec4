package recipe_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgepm/forge/internal/recipe"
)

func TestNew_WritesTemplateToUserRepo(t *testing.T) {
	fs, tree := seedTree(t)
	ctx := context.Background()

	path, err := recipe.New(ctx, fs, tree, "zed@newpkg")
	require.NoError(t, err)
	assert.Equal(t, "/modules/user_modules/zed@newpkg.toml", path)
	assert.True(t, fs.Exists(ctx, path))
}

func TestNew_RefusesToOverwrite(t *testing.T) {
	fs, tree := seedTree(t)
	ctx := context.Background()

	_, err := recipe.New(ctx, fs, tree, "zed@newpkg")
	require.NoError(t, err)

	_, err = recipe.New(ctx, fs, tree, "zed@newpkg")
	assert.Error(t, err)
}

func TestEdit_FindsExistingRecipe(t *testing.T) {
	_, tree := seedTree(t)
	path, err := recipe.Edit(context.Background(), tree, "zed@gf")
	require.NoError(t, err)
	assert.Equal(t, "/modules/core/zed@gf.toml", path)
}

func TestEdit_UnknownPackage(t *testing.T) {
	_, tree := seedTree(t)
	_, err := recipe.Edit(context.Background(), tree, "zed@missing")
	assert.Error(t, err)
}

func TestDump_WritesHighlightedSource(t *testing.T) {
	fs, tree := seedTree(t)
	var buf bytes.Buffer
	err := recipe.Dump(context.Background(), fs, tree, "zed@libcurl", &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "libcurl")
}
