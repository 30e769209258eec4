package command_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgepm/forge/internal/command"
)

func TestExecutor_RunCapturesStdout(t *testing.T) {
	cmd, err := command.New("echo", "hello-forge")
	require.NoError(t, err)

	var buf bytes.Buffer
	exec := command.NewExecutor(command.WithStdout(&buf))
	out, err := exec.Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "hello-forge"))
	assert.True(t, strings.Contains(buf.String(), "hello-forge"))
}

func TestExecutor_DryRunSkipsExecution(t *testing.T) {
	cmd, err := command.New("rm", "-rf", "/should-not-run")
	require.NoError(t, err)

	exec := command.NewExecutor(command.WithDryRun(true))
	out, err := exec.Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Contains(t, out, "pretend")
}

func TestExecutor_RunFailingCommandReturnsError(t *testing.T) {
	cmd, err := command.New("false")
	require.NoError(t, err)

	exec := command.NewExecutor()
	_, err = exec.Run(context.Background(), cmd)
	assert.Error(t, err)
}

func TestExecutor_Capture(t *testing.T) {
	cmd, err := command.New("echo", "captured")
	require.NoError(t, err)

	exec := command.NewExecutor()
	stdout, stderr, err := exec.Capture(context.Background(), cmd)
	require.NoError(t, err)
	assert.Contains(t, stdout, "captured")
	assert.Empty(t, stderr)
}

func TestExecutor_NilCommand(t *testing.T) {
	exec := command.NewExecutor()
	_, err := exec.Run(context.Background(), nil)
	assert.Error(t, err)
}
