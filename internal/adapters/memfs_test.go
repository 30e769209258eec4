package adapters_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgepm/forge/internal/adapters"
)

func TestMemFS_WriteReadFile(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()

	require.NoError(t, fs.WriteFile(ctx, "/recipe.toml", []byte("name = \"curl\""), 0644))

	data, err := fs.ReadFile(ctx, "/recipe.toml")
	require.NoError(t, err)
	assert.Equal(t, "name = \"curl\"", string(data))
}

func TestMemFS_MkdirAllAndReadDir(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()

	require.NoError(t, fs.MkdirAll(ctx, "/a/b/c", 0755))
	require.NoError(t, fs.WriteFile(ctx, "/a/b/c/f.txt", []byte("x"), 0644))

	entries, err := fs.ReadDir(ctx, "/a/b/c")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "f.txt", entries[0].Name())
}

func TestMemFS_WriteFileFailsWithoutParent(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()

	err := fs.WriteFile(ctx, "/missing/f.txt", []byte("x"), 0644)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMemFS_SymlinkResolvesOnStat(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()

	require.NoError(t, fs.WriteFile(ctx, "/target.txt", []byte("hello"), 0644))
	require.NoError(t, fs.Symlink(ctx, "/target.txt", "/link.txt"))

	isLink, err := fs.IsSymlink(ctx, "/link.txt")
	require.NoError(t, err)
	assert.True(t, isLink)

	info, err := fs.Stat(ctx, "/link.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	dest, err := fs.ReadLink(ctx, "/link.txt")
	require.NoError(t, err)
	assert.Equal(t, "/target.txt", dest)
}

func TestMemFS_RenameAndRemoveAll(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()

	require.NoError(t, fs.MkdirAll(ctx, "/pkg/bin", 0755))
	require.NoError(t, fs.WriteFile(ctx, "/pkg/bin/tool", []byte("x"), 0755))
	require.NoError(t, fs.Rename(ctx, "/pkg/bin/tool", "/pkg/bin/tool2"))

	assert.False(t, fs.Exists(ctx, "/pkg/bin/tool"))
	assert.True(t, fs.Exists(ctx, "/pkg/bin/tool2"))

	require.NoError(t, fs.RemoveAll(ctx, "/pkg"))
	assert.False(t, fs.Exists(ctx, "/pkg"))
	assert.False(t, fs.Exists(ctx, "/pkg/bin/tool2"))
}

func TestMemFS_ChmodChtimes(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()

	require.NoError(t, fs.WriteFile(ctx, "/f.txt", []byte("x"), 0644))
	require.NoError(t, fs.Chmod(ctx, "/f.txt", 0600))
	require.NoError(t, fs.Chtimes(ctx, "/f.txt", 10, 20))

	info, err := fs.Stat(ctx, "/f.txt")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	assert.Equal(t, int64(20), info.ModTime())
}

func TestMemFS_IsDir(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()

	require.NoError(t, fs.MkdirAll(ctx, "/a/b", 0755))
	isDir, err := fs.IsDir(ctx, "/a/b")
	require.NoError(t, err)
	assert.True(t, isDir)

	require.NoError(t, fs.WriteFile(ctx, "/a/b/f.txt", []byte("x"), 0644))
	isDir, err = fs.IsDir(ctx, "/a/b/f.txt")
	require.NoError(t, err)
	assert.False(t, isDir)
}

func TestMemFS_MkdirFailsIfExists(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()

	require.NoError(t, fs.Mkdir(ctx, "/a", 0755))
	err := fs.Mkdir(ctx, "/a", 0755)
	assert.ErrorIs(t, err, os.ErrExist)
}
