package fakeroot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgepm/forge/internal/adapters"
	"github.com/forgepm/forge/internal/command"
	"github.com/forgepm/forge/internal/fakeroot"
)

func TestNew_CreatesSkeleton(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()

	sb, err := fakeroot.New(ctx, fs, "/tmp", false)
	require.NoError(t, err)

	for _, dir := range []string{"bin", "etc", "lib", "usr", "usr/bin", "usr/lib", "usr/local", "var", "tmp"} {
		isDir, err := fs.IsDir(ctx, sb.DESTDIR()+"/"+dir)
		require.NoError(t, err)
		assert.True(t, isDir, "missing skeleton dir %s", dir)
	}
}

func TestExportUnexport_SetsAndClearsDestdir(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()

	sb, err := fakeroot.New(ctx, fs, "/tmp", false)
	require.NoError(t, err)

	require.NoError(t, sb.Export())
	assert.Equal(t, sb.DESTDIR(), command.Getenv("DESTDIR"))

	require.NoError(t, sb.Unexport())
	assert.Empty(t, command.Getenv("DESTDIR"))
}

func TestClose_RemovesTreeUnlessKept(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()

	sb, err := fakeroot.New(ctx, fs, "/tmp", false)
	require.NoError(t, err)
	root := sb.DESTDIR()

	require.NoError(t, sb.Close(ctx))
	assert.False(t, fs.Exists(ctx, root))
}

func TestClose_KeepsTreeWhenRequested(t *testing.T) {
	fs := adapters.NewMemFS()
	ctx := context.Background()

	sb, err := fakeroot.New(ctx, fs, "/tmp", true)
	require.NoError(t, err)
	root := sb.DESTDIR()

	require.NoError(t, sb.Close(ctx))
	assert.True(t, fs.Exists(ctx, root))
}
