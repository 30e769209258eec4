package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single recipe step's execution so a hung
// build (e.g. a configure script waiting on stdin) cannot block a
// transaction indefinitely.
const DefaultTimeout = 30 * time.Minute

// Executor runs Commands, optionally streaming their output and
// optionally skipping execution entirely for --pretend.
type Executor struct {
	stdout  io.Writer
	stderr  io.Writer
	dryRun  bool
	timeout time.Duration
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithStdout streams stdout to w in addition to capturing it.
func WithStdout(w io.Writer) ExecutorOption {
	return func(e *Executor) { e.stdout = w }
}

// WithStderr streams stderr to w in addition to capturing it.
func WithStderr(w io.Writer) ExecutorOption {
	return func(e *Executor) { e.stderr = w }
}

// WithDryRun makes Execute a no-op that reports what would have run.
func WithDryRun(dryRun bool) ExecutorOption {
	return func(e *Executor) { e.dryRun = dryRun }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = d }
}

// NewExecutor creates an Executor, defaulting to the process's own
// stdout/stderr and DefaultTimeout.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes cmd, streaming and capturing its combined stdout. In
// dry-run mode it returns a descriptive string without running
// anything.
func (e *Executor) Run(ctx context.Context, cmd *Command) (string, error) {
	if cmd == nil {
		return "", fmt.Errorf("command: nil command")
	}
	if e.dryRun {
		return fmt.Sprintf("[pretend] would run: %s", cmd.String()), nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	//nolint:gosec // args are validated at Command construction
	execCmd := exec.CommandContext(ctx, cmd.name, cmd.args...)
	if cmd.dir != "" {
		execCmd.Dir = cmd.dir
	}
	if len(cmd.env) > 0 {
		execCmd.Env = append(os.Environ(), cmd.env...)
	}

	var stdout, stderr bytes.Buffer
	if e.stdout != nil {
		execCmd.Stdout = io.MultiWriter(&stdout, e.stdout)
	} else {
		execCmd.Stdout = &stdout
	}
	if e.stderr != nil {
		execCmd.Stderr = io.MultiWriter(&stderr, e.stderr)
	} else {
		execCmd.Stderr = &stderr
	}

	err := execCmd.Run()
	output := stdout.String()
	if err != nil {
		if errOut := stderr.String(); errOut != "" {
			return output, fmt.Errorf("%s: %w: %s", cmd.String(), err, errOut)
		}
		return output, fmt.Errorf("%s: %w", cmd.String(), err)
	}
	return output, nil
}

// Capture executes cmd and returns its stdout and stderr separately,
// without streaming either to the Executor's configured writers.
func (e *Executor) Capture(ctx context.Context, cmd *Command) (stdout, stderr string, err error) {
	if cmd == nil {
		return "", "", fmt.Errorf("command: nil command")
	}
	if e.dryRun {
		return fmt.Sprintf("[pretend] would run: %s", cmd.String()), "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	//nolint:gosec // args are validated at Command construction
	execCmd := exec.CommandContext(ctx, cmd.name, cmd.args...)
	if cmd.dir != "" {
		execCmd.Dir = cmd.dir
	}
	if len(cmd.env) > 0 {
		execCmd.Env = append(os.Environ(), cmd.env...)
	}

	var outBuf, errBuf bytes.Buffer
	execCmd.Stdout = &outBuf
	execCmd.Stderr = &errBuf

	err = execCmd.Run()
	return outBuf.String(), errBuf.String(), err
}
