package command_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgepm/forge/internal/command"
)

func TestPushd_RestoresDirectory(t *testing.T) {
	original, err := os.Getwd()
	require.NoError(t, err)

	dir := t.TempDir()
	popd, err := command.Pushd(dir)
	require.NoError(t, err)

	cur, err := os.Getwd()
	require.NoError(t, err)
	assert.NotEqual(t, original, cur)

	require.NoError(t, popd())

	restored, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestSetenvGetenvUnsetenv(t *testing.T) {
	require.NoError(t, command.Setenv("FORGE_TEST_VAR", "1"))
	assert.Equal(t, "1", command.Getenv("FORGE_TEST_VAR"))
	require.NoError(t, command.Unsetenv("FORGE_TEST_VAR"))
	assert.Equal(t, "", command.Getenv("FORGE_TEST_VAR"))
}
