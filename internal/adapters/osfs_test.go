package adapters_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgepm/forge/internal/adapters"
)

func TestOSFilesystem_WriteReadFile(t *testing.T) {
	dir := t.TempDir()
	fs := adapters.NewOSFilesystem()
	ctx := context.Background()

	p := filepath.Join(dir, "recipe.toml")
	require.NoError(t, fs.WriteFile(ctx, p, []byte("name = \"curl\""), 0644))

	data, err := fs.ReadFile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "name = \"curl\"", string(data))
}

func TestOSFilesystem_MkdirAllAndReadDir(t *testing.T) {
	dir := t.TempDir()
	fs := adapters.NewOSFilesystem()
	ctx := context.Background()

	nested := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, fs.MkdirAll(ctx, nested, 0755))
	require.NoError(t, fs.WriteFile(ctx, filepath.Join(nested, "f.txt"), []byte("x"), 0644))

	entries, err := fs.ReadDir(ctx, nested)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "f.txt", entries[0].Name())
	assert.False(t, entries[0].IsDir())
}

func TestOSFilesystem_StatLstatSymlink(t *testing.T) {
	dir := t.TempDir()
	fs := adapters.NewOSFilesystem()
	ctx := context.Background()

	target := filepath.Join(dir, "target.txt")
	require.NoError(t, fs.WriteFile(ctx, target, []byte("hello"), 0644))

	link := filepath.Join(dir, "link.txt")
	require.NoError(t, fs.Symlink(ctx, target, link))

	isLink, err := fs.IsSymlink(ctx, link)
	require.NoError(t, err)
	assert.True(t, isLink)

	info, err := fs.Stat(ctx, link)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	dest, err := fs.ReadLink(ctx, link)
	require.NoError(t, err)
	assert.Equal(t, target, dest)
}

func TestOSFilesystem_RenameAndRemove(t *testing.T) {
	dir := t.TempDir()
	fs := adapters.NewOSFilesystem()
	ctx := context.Background()

	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, fs.WriteFile(ctx, src, []byte("x"), 0644))
	require.NoError(t, fs.Rename(ctx, src, dst))

	assert.False(t, fs.Exists(ctx, src))
	assert.True(t, fs.Exists(ctx, dst))

	require.NoError(t, fs.Remove(ctx, dst))
	assert.False(t, fs.Exists(ctx, dst))
}

func TestOSFilesystem_RemoveAllAndIsDir(t *testing.T) {
	dir := t.TempDir()
	fs := adapters.NewOSFilesystem()
	ctx := context.Background()

	nested := filepath.Join(dir, "tree", "leaf")
	require.NoError(t, fs.MkdirAll(ctx, nested, 0755))

	isDir, err := fs.IsDir(ctx, filepath.Join(dir, "tree"))
	require.NoError(t, err)
	assert.True(t, isDir)

	require.NoError(t, fs.RemoveAll(ctx, filepath.Join(dir, "tree")))
	assert.False(t, fs.Exists(ctx, filepath.Join(dir, "tree")))
}

func TestOSFilesystem_ChmodChtimes(t *testing.T) {
	dir := t.TempDir()
	fs := adapters.NewOSFilesystem()
	ctx := context.Background()

	p := filepath.Join(dir, "f.txt")
	require.NoError(t, fs.WriteFile(ctx, p, []byte("x"), 0644))

	require.NoError(t, fs.Chmod(ctx, p, 0600))
	info, err := fs.Stat(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, fs.Chtimes(ctx, p, 1000, 2000))
	info, err = fs.Stat(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), info.ModTime())
}

func TestOSFilesystem_ContextCancelled(t *testing.T) {
	dir := t.TempDir()
	fs := adapters.NewOSFilesystem()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fs.Stat(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOSFilesystem_ExistsFalseForMissing(t *testing.T) {
	dir := t.TempDir()
	fs := adapters.NewOSFilesystem()
	ctx := context.Background()

	assert.False(t, fs.Exists(ctx, filepath.Join(dir, "nope")))
}
