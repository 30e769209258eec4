package transaction

import (
	"context"
	"fmt"
	"path"

	"github.com/forgepm/forge/internal/catalog"
	"github.com/forgepm/forge/internal/domain"
	"github.com/forgepm/forge/internal/fakeroot"
	"github.com/forgepm/forge/internal/fsutil"
	"github.com/forgepm/forge/internal/recipe"
)

// Install runs the full transaction for name: admission, dependency
// closure, source acquisition, stage, build, install-to-fakeroot,
// manifest, commit, and finalize (spec.md §4.7). isDep marks whether
// this call originated from another package's dependency closure: an
// already-installed dependency is skipped, and the flag decides whether
// the package is registered explicit or implicit.
func (e *Engine) Install(ctx context.Context, name string, isDep bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// 1. Admission.
	installed, err := e.Catalog.IsInstalled(ctx, name)
	if err != nil {
		return err
	}
	if installed && isDep {
		return nil
	}

	r, ok := e.Recipes[name]
	if !ok {
		return domain.ErrPackageNotFound{Package: name}
	}

	alreadyExplicit := false
	if row, err := e.Catalog.Get(ctx, name); err == nil {
		alreadyExplicit = row.IsExplicit
	}
	pkgID, err := e.Catalog.Register(ctx, name, r.Version, r.Description, !isDep || alreadyExplicit)
	if err != nil {
		return err
	}

	// 2. Dependency closure.
	for _, dep := range r.Dependencies {
		if err := e.Install(ctx, dep, true); err != nil {
			return fmt.Errorf("dependency %s of %s: %w", dep, name, err)
		}
		depID, ok, err := e.Catalog.LookupID(ctx, dep)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrPackageNotFound{Package: dep}
		}
		if err := e.Catalog.AddEdge(ctx, pkgID, depID); err != nil {
			return err
		}
	}

	// 3. Source acquisition.
	sourceDir, err := e.acquireSource(ctx, name, r)
	if err != nil {
		return err
	}

	// 4. Stage.
	sandbox, err := fakeroot.New(ctx, e.FS, e.FakerootBase, e.KeepFakeroot)
	if err != nil {
		return err
	}
	defer sandbox.Close(ctx)

	buildsrc := path.Join(sandbox.DESTDIR(), "buildsrc")
	if err := fsutil.CopyTree(ctx, e.FS, sourceDir, buildsrc); err != nil {
		return err
	}
	gitMeta := path.Join(buildsrc, ".git")
	if e.FS.Exists(ctx, gitMeta) {
		if err := fsutil.RemoveTree(ctx, e.FS, gitMeta); err != nil {
			return err
		}
	}

	// 5. Build.
	if r.HasPhase(recipe.PhaseBuild) {
		if err := e.Interp.Run(ctx, r, recipe.PhaseBuild, buildsrc); err != nil {
			return err
		}
	}

	// 6. Pre-install snapshot (diagnostic only, §9).
	preSnapshot, err := fsutil.Snapshot(ctx, e.FS, e.LiveRoot)
	if err != nil {
		return err
	}

	// 7. Install to fakeroot.
	if !r.HasPhase(recipe.PhaseInstall) {
		return domain.ErrCapabilityMissing{Package: name, Capability: "install"}
	}
	if err := sandbox.Export(); err != nil {
		return err
	}
	installErr := e.Interp.Run(ctx, r, recipe.PhaseInstall, buildsrc)
	if unexportErr := sandbox.Unexport(); unexportErr != nil && installErr == nil {
		installErr = unexportErr
	}
	if installErr != nil {
		return installErr
	}

	// 8. Manifest.
	entries, err := walkManifest(ctx, e.FS, sandbox.DESTDIR(), e.LiveRoot)
	if err != nil {
		return err
	}

	if e.Pretend {
		e.logger().Info(ctx, "pretend: skipping commit", "package", name, "files", len(entries))
		return nil
	}

	// 9. Commit, with file-granular rollback on failure.
	done, err := commit(ctx, e.FS, e.logger(), entries)
	if err != nil {
		rollback(ctx, e.FS, done)
		return err
	}

	e.diagnosePostInstall(ctx, preSnapshot, done)

	rows := make([]catalog.FileRow, 0, len(done))
	for _, d := range done {
		rows = append(rows, d.row)
	}

	// 10. Finalize.
	if err := e.Catalog.RecordFiles(ctx, pkgID, rows); err != nil {
		return err
	}
	return e.Catalog.MarkInstalled(ctx, name, sourceDir)
}

// acquireSource reuses a recorded source_location if it still exists on
// disk, otherwise runs the download phase (or, absent one, just creates
// an empty source directory).
func (e *Engine) acquireSource(ctx context.Context, name string, r *recipe.Recipe) (string, error) {
	if row, err := e.Catalog.Get(ctx, name); err == nil && row.SourceLocation != "" && e.FS.Exists(ctx, row.SourceLocation) {
		return row.SourceLocation, nil
	}

	sourceDir := e.sourceDirFor(name)
	if r.HasPhase(recipe.PhaseDownload) {
		if err := e.Interp.Run(ctx, r, recipe.PhaseDownload, sourceDir); err != nil {
			return "", err
		}
		return sourceDir, nil
	}
	if err := fsutil.MkdirP(ctx, e.FS, sourceDir, 0o755); err != nil {
		return "", err
	}
	return sourceDir, nil
}

// diagnosePostInstall logs, without failing the transaction, any
// live-root path present after commit that the fakeroot manifest did
// not account for — a possible side effect outside DESTDIR (§9).
func (e *Engine) diagnosePostInstall(ctx context.Context, pre []string, done []committedFile) {
	post, err := fsutil.Snapshot(ctx, e.FS, e.LiveRoot)
	if err != nil {
		return
	}
	preSet := make(map[string]bool, len(pre))
	for _, p := range pre {
		preSet[p] = true
	}
	manifestSet := make(map[string]bool, len(done))
	for _, d := range done {
		manifestSet[d.livePath] = true
	}
	for _, p := range post {
		if preSet[p] || manifestSet[p] {
			continue
		}
		e.logger().Warn(ctx, "possible side effect outside DESTDIR", "path", p)
	}
}
