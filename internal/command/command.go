// Package command runs validated external processes on behalf of recipe
// steps (run, cmake-configure, make; git-clone goes through the
// recipe.Cloner port instead): no shell is ever
// invoked, arguments are checked against shell metacharacters before
// exec, and every run can be replaced with a dry-run echo.
package command

import (
	"fmt"
	"regexp"
	"strings"
)

// shellMetachars are characters that would let an argument break out of
// a plain exec.Command argv slot if a future change ever routed commands
// through a shell. Recipe step arguments are rejected outright if they
// contain one.
const shellMetachars = "|;&$`\"'\\<>(){}[]!*?~#\n"

// Command is a validated, executable argv: a binary name plus arguments,
// built from a recipe step after every argument has passed validation.
type Command struct {
	name string
	args []string
	dir  string
	env  []string
}

// New validates args and constructs a Command. It rejects empty
// arguments, arguments containing shell metacharacters, and arguments
// containing a null byte.
func New(name string, args ...string) (*Command, error) {
	if name == "" {
		return nil, fmt.Errorf("command: empty executable name")
	}
	if err := validateArgument(name); err != nil {
		return nil, fmt.Errorf("command: invalid executable %q: %w", name, err)
	}
	for _, a := range args {
		if err := validateArgument(a); err != nil {
			return nil, fmt.Errorf("command: invalid argument %q: %w", a, err)
		}
	}
	cp := make([]string, len(args))
	copy(cp, args)
	return &Command{name: name, args: cp}, nil
}

// WithDir sets the working directory the command runs in.
func (c *Command) WithDir(dir string) *Command {
	c.dir = dir
	return c
}

// WithEnv appends environment variables (KEY=VALUE) to the command's
// environment, in addition to the inherited process environment.
func (c *Command) WithEnv(env ...string) *Command {
	c.env = append(c.env, env...)
	return c
}

// Name returns the command's executable name.
func (c *Command) Name() string { return c.name }

// Args returns a copy of the command's arguments.
func (c *Command) Args() []string {
	out := make([]string, len(c.args))
	copy(out, c.args)
	return out
}

// Dir returns the command's working directory, or "" for the caller's.
func (c *Command) Dir() string { return c.dir }

// Env returns the extra environment variables set on the command.
func (c *Command) Env() []string {
	out := make([]string, len(c.env))
	copy(out, c.env)
	return out
}

// String renders the command the way it would be typed at a shell,
// for logging and --pretend output.
func (c *Command) String() string {
	parts := make([]string, 0, 1+len(c.args))
	parts = append(parts, c.name)
	parts = append(parts, c.args...)
	return strings.Join(parts, " ")
}

func validateArgument(arg string) error {
	if arg == "" {
		return fmt.Errorf("empty argument")
	}
	if strings.Contains(arg, "\x00") {
		return fmt.Errorf("contains null byte")
	}
	if containsShellMetachars(arg) {
		return fmt.Errorf("contains shell metacharacter")
	}
	return nil
}

func containsShellMetachars(s string) bool {
	return strings.ContainsAny(s, shellMetachars)
}

// validPackageName matches catalog package names: lowercase, starting
// with a letter, hyphen/digit/dot continuations, with an optional
// "author@" prefix as used by recipes created with `forge new`.
var validPackageName = regexp.MustCompile(`^([a-z][a-z0-9-]*@)?[a-z][a-z0-9.-]*$`)

// ValidatePackageName reports whether name is an acceptable catalog
// package name.
func ValidatePackageName(name string) error {
	if !validPackageName.MatchString(name) {
		return fmt.Errorf("invalid package name %q: must match %s", name, validPackageName.String())
	}
	return nil
}
