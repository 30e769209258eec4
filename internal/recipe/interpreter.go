package recipe

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/forgepm/forge/internal/command"
	"github.com/forgepm/forge/internal/domain"
)

// Cloner fetches a git repository; satisfied by adapters.GitCloner. The
// git-clone step goes through this port rather than exec'ing a "git"
// binary, matching the rest of forge's repository-sync path.
type Cloner interface {
	Clone(ctx context.Context, url, dir, ref string) error
}

// Interpreter executes a Recipe's steps for a given lifecycle phase
// against a build directory. The vocabulary (git-clone/run/
// cmake-configure/make) is fixed in this file; a recipe cannot add a
// kind the interpreter does not already know.
type Interpreter struct {
	executor *command.Executor
	cloner   Cloner
	logger   domain.Logger
}

// NewInterpreter binds an Interpreter to the executor that runs shell
// steps and the cloner that services git-clone steps.
func NewInterpreter(executor *command.Executor, cloner Cloner, logger domain.Logger) *Interpreter {
	if logger == nil {
		logger = domain.NewNoopLogger()
	}
	return &Interpreter{executor: executor, cloner: cloner, logger: logger}
}

// Run executes every step of r belonging to phase, in file order,
// rooted at buildDir. It stops at the first failing step.
func (in *Interpreter) Run(ctx context.Context, r *Recipe, phase Phase, buildDir string) error {
	_, err := in.run(ctx, r, phase, buildDir)
	return err
}

// RunCapturing behaves like Run but also returns the concatenated
// stdout of every step run for phase, so a caller can inspect tool
// output for a status signal (update's up-to-date check).
func (in *Interpreter) RunCapturing(ctx context.Context, r *Recipe, phase Phase, buildDir string) (string, error) {
	return in.run(ctx, r, phase, buildDir)
}

func (in *Interpreter) run(ctx context.Context, r *Recipe, phase Phase, buildDir string) (string, error) {
	var out strings.Builder
	for _, step := range r.StepsFor(phase) {
		if err := ctx.Err(); err != nil {
			return out.String(), err
		}
		o, err := in.runStep(ctx, step, buildDir)
		out.WriteString(o)
		if err != nil {
			return out.String(), domain.ErrBuildFailed{Package: r.Name, Phase: string(phase), Err: err}
		}
	}
	return out.String(), nil
}

func (in *Interpreter) runStep(ctx context.Context, step Step, buildDir string) (string, error) {
	dir := buildDir
	if step.Dir != "" {
		dir = path.Join(buildDir, step.Dir)
	}

	switch step.Kind {
	case StepGitClone:
		in.logger.Info(ctx, "git-clone", "url", step.URL, "dir", dir)
		return "", in.cloner.Clone(ctx, step.URL, dir, step.Ref)

	case StepRun:
		cmd, err := buildShellCommand(step.Cmd, dir)
		if err != nil {
			return "", err
		}
		return in.executor.Run(ctx, cmd)

	case StepCMakeConfigure:
		words := strings.Fields("cmake " + step.Cmd)
		cmd, err := command.New(words[0], words[1:]...)
		if err != nil {
			return "", fmt.Errorf("cmake-configure: %w", err)
		}
		cmd = cmd.WithDir(dir)
		return in.executor.Run(ctx, cmd)

	case StepMake:
		cmd, err := command.New("make", step.Targets...)
		if err != nil {
			return "", fmt.Errorf("make: %w", err)
		}
		cmd = cmd.WithDir(dir)
		return in.executor.Run(ctx, cmd)

	default:
		return "", fmt.Errorf("unrecognized step kind %q", step.Kind)
	}
}

// buildShellCommand word-splits an opaque "run" command the way an
// unquoted shell command line would split, then validates the result as
// a Command. Recipe authors write simple argv-style commands
// ("./configure --prefix=/usr"); anything requiring real shell syntax
// (pipes, redirection, globbing) is rejected by Command's metacharacter
// check rather than silently misinterpreted.
func buildShellCommand(line, dir string) (*command.Command, error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil, fmt.Errorf("run step has empty cmd")
	}
	cmd, err := command.New(words[0], words[1:]...)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	return cmd.WithDir(dir), nil
}
