// Package fakeroot manages the scratch staging directory a package's
// install() step writes into via DESTDIR, so that real system
// directories are never touched until the transaction engine commits a
// reviewed manifest (spec.md §4.6).
package fakeroot

import (
	"context"
	"os"
	"path"

	"github.com/google/uuid"

	"github.com/forgepm/forge/internal/command"
	"github.com/forgepm/forge/internal/domain"
	"github.com/forgepm/forge/internal/fsutil"
)

// skeleton lists the stock directories created inside every fresh
// sandbox, mirroring a minimal install root.
var skeleton = []string{
	"bin", "etc", "lib", "usr", "usr/bin", "usr/lib", "usr/local", "var", "tmp",
}

// Sandbox is a scratch staging directory exported to recipe steps as
// DESTDIR.
type Sandbox struct {
	fs   domain.FS
	root string
	keep bool
}

// New creates a fresh sandbox directory under base (os.TempDir() when
// base is empty) and populates the stock skeleton.
func New(ctx context.Context, fs domain.FS, base string, keep bool) (*Sandbox, error) {
	if base == "" {
		base = os.TempDir()
	}
	root := path.Join(base, "forge-pkg-"+uuid.NewString()[:8])
	if err := fs.MkdirAll(ctx, root, 0o755); err != nil {
		return nil, domain.ErrFilesystemOperation{Operation: "mkdir", Path: root, Err: err}
	}
	for _, dir := range skeleton {
		if err := fs.MkdirAll(ctx, path.Join(root, dir), 0o755); err != nil {
			return nil, domain.ErrFilesystemOperation{Operation: "mkdir", Path: path.Join(root, dir), Err: err}
		}
	}
	return &Sandbox{fs: fs, root: root, keep: keep}, nil
}

// DESTDIR returns the sandbox's root directory.
func (s *Sandbox) DESTDIR() string { return s.root }

// Export sets DESTDIR in the process environment so a recipe step's
// exec'd commands (make install, etc.) see it.
func (s *Sandbox) Export() error {
	return command.Setenv("DESTDIR", s.root)
}

// Unexport clears DESTDIR.
func (s *Sandbox) Unexport() error {
	return command.Unsetenv("DESTDIR")
}

// Close removes the sandbox tree, unless --keep-fakeroot was requested
// at construction, and always clears DESTDIR. Call via defer so it runs
// on every exit path of the transaction step that owns this sandbox.
func (s *Sandbox) Close(ctx context.Context) error {
	unexportErr := s.Unexport()
	if s.keep {
		return unexportErr
	}
	if err := fsutil.RemoveTree(ctx, s.fs, s.root); err != nil {
		return err
	}
	return unexportErr
}
