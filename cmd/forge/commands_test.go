package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupGlobalCfg points XDG paths at a scratch directory so command
// tests never touch the real home directory, and resets globalCfg
// afterward.
func setupGlobalCfg(t *testing.T) {
	t.Helper()

	previous := globalCfg
	oldXDGData := os.Getenv("XDG_DATA_HOME")
	oldXDGState := os.Getenv("XDG_STATE_HOME")
	oldXDGCache := os.Getenv("XDG_CACHE_HOME")
	oldXDGConfig := os.Getenv("XDG_CONFIG_HOME")

	xdgBase := t.TempDir()
	os.Setenv("XDG_DATA_HOME", filepath.Join(xdgBase, "data"))
	os.Setenv("XDG_STATE_HOME", filepath.Join(xdgBase, "state"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(xdgBase, "cache"))
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(xdgBase, "config"))

	globalCfg = globalConfig{}

	t.Cleanup(func() {
		globalCfg = previous
		restoreEnv(t, "XDG_DATA_HOME", oldXDGData)
		restoreEnv(t, "XDG_STATE_HOME", oldXDGState)
		restoreEnv(t, "XDG_CACHE_HOME", oldXDGCache)
		restoreEnv(t, "XDG_CONFIG_HOME", oldXDGConfig)
	})
}

func restoreEnv(t *testing.T, key, value string) {
	t.Helper()
	if value != "" {
		os.Setenv(key, value)
	} else {
		os.Unsetenv(key)
	}
}

func TestInstallCommand_MissingPackageErrors(t *testing.T) {
	setupGlobalCfg(t)

	cmd := newInstallCommand()
	cmd.SetArgs([]string{"zed@ghost"})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	require.Error(t, cmd.Execute())
}

func TestInstallCommand_NoArgsErrors(t *testing.T) {
	cmd := newInstallCommand()
	cmd.SetArgs([]string{})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	require.Error(t, cmd.Execute())
}

func TestListCommand_EmptyCatalogSucceeds(t *testing.T) {
	setupGlobalCfg(t)

	cmd := newListCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	require.NoError(t, cmd.Execute())
}

func TestCleanCommand_EmptyCatalogSucceeds(t *testing.T) {
	setupGlobalCfg(t)

	cmd := newCleanCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	require.NoError(t, cmd.Execute())
}

func TestDepsCommand_UnknownPackageErrors(t *testing.T) {
	setupGlobalCfg(t)

	cmd := newDepsCommand()
	cmd.SetArgs([]string{"zed@ghost"})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	require.Error(t, cmd.Execute())
}

func TestRootCommand_RegistersEveryVerb(t *testing.T) {
	root := NewRootCommand()
	want := []string{
		"install", "uninstall", "update", "clean", "list", "search",
		"deps", "list-deps", "files", "info", "new", "edit", "drop",
		"restore", "add-repo", "drop-repo", "save-dep",
	}
	for _, name := range want {
		found, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		require.NotNil(t, found, name)
	}
}

func TestRepoNameFromURL(t *testing.T) {
	cases := map[string]string{
		"https://example.com/org/libcurl.git": "libcurl",
		"https://example.com/org/libcurl":     "libcurl",
		"git@example.com:org/libcurl.git":     "libcurl",
		"libcurl/":                             "libcurl",
	}
	for url, want := range cases {
		require.Equal(t, want, repoNameFromURL(url), url)
	}
}
