package recipe

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/forgepm/forge/internal/command"
	"github.com/forgepm/forge/internal/domain"
)

// New writes a template recipe for name (which must be in
// author@package form) to the writable user repository. It refuses to
// overwrite an existing file and returns the path so the caller can hand
// it off to the editor port.
func New(ctx context.Context, fs domain.FS, tree *Tree, name string) (string, error) {
	r := Template(name)
	if err := r.Validate(); err != nil {
		return "", err
	}
	path := tree.RecipePath(UserRepo, name)
	if fs.Exists(ctx, path) {
		return "", fmt.Errorf("recipe %q already exists at %s", name, path)
	}
	data, err := Marshal(r)
	if err != nil {
		return "", err
	}
	if err := fs.MkdirAll(ctx, tree.Root()+"/"+UserRepo, 0o755); err != nil {
		return "", err
	}
	if err := fs.WriteFile(ctx, path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Edit locates an existing recipe's source file, for the caller to hand
// off to the editor port.
func Edit(ctx context.Context, tree *Tree, name string) (string, error) {
	return findRecipe(ctx, tree, name)
}

// OpenInEditor shells out to $EDITOR (falling back to "vi") with path as
// its sole argument, inheriting the current process's stdio. It is a
// thin external-collaborator port; forge does not implement an editor.
func OpenInEditor(path string) error {
	editor := command.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Dump renders a recipe's TOML source, syntax-highlighted, to w. A
// pager or TUI viewer is an external collaborator and out of scope; the
// default is writing straight to stdout.
func Dump(ctx context.Context, fs domain.FS, tree *Tree, name string, w io.Writer) error {
	path, err := findRecipe(ctx, tree, name)
	if err != nil {
		return err
	}
	data, err := fs.ReadFile(ctx, path)
	if err != nil {
		return err
	}
	if err := quick.Highlight(w, string(data), "toml", "terminal256", "monokai"); err != nil {
		_, writeErr := w.Write(data)
		return writeErr
	}
	return nil
}
