package recipe

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"path"
	"strings"

	"github.com/forgepm/forge/internal/domain"
)

// ArtifactPath returns the compiled-cache path for a recipe named name
// under artifactsDir.
func ArtifactPath(artifactsDir, name string) string {
	return path.Join(artifactsDir, name+".forgec")
}

// CompileReport summarizes one sweep of Rebuild over a repository tree.
type CompileReport struct {
	Compiled int
	Failed   []CompileFailure
}

// CompileFailure names a recipe file that failed to parse, validate, or
// encode during a sweep; a single bad file does not abort the sweep.
type CompileFailure struct {
	Path string
	Err  error
}

// Rebuild parses and validates every "<name>.toml" recipe under tree and
// writes a gob-encoded cache entry to "<artifactsDir>/<name>.forgec" for
// each one that succeeds. A parse or validation failure for one file is
// recorded in the report and does not stop the sweep, matching the
// "shared object fails to compile" contract of spec.md's original
// module host.
func Rebuild(ctx context.Context, fs domain.FS, tree *Tree, artifactsDir string) (CompileReport, error) {
	paths, err := tree.AllRecipePaths(ctx)
	if err != nil {
		return CompileReport{}, err
	}

	var report CompileReport
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := compileOne(ctx, fs, p, artifactsDir); err != nil {
			report.Failed = append(report.Failed, CompileFailure{Path: p, Err: err})
			continue
		}
		report.Compiled++
	}
	return report, nil
}

func compileOne(ctx context.Context, fs domain.FS, recipePath, artifactsDir string) error {
	data, err := fs.ReadFile(ctx, recipePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", recipePath, err)
	}
	r, err := Parse(data)
	if err != nil {
		return domain.ErrCompileFailed{Recipe: recipePath, Err: err}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return domain.ErrCompileFailed{Recipe: recipePath, Err: err}
	}

	if err := fs.MkdirAll(ctx, artifactsDir, 0o755); err != nil {
		return fmt.Errorf("create artifacts dir: %w", err)
	}
	out := ArtifactPath(artifactsDir, r.Name)
	if err := fs.WriteFile(ctx, out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

// Load gob-decodes a single compiled artifact back into a Recipe. A
// corrupt or unreadable artifact returns domain.ErrModuleLoad.
func Load(ctx context.Context, fs domain.FS, artifactPath string) (*Recipe, error) {
	data, err := fs.ReadFile(ctx, artifactPath)
	if err != nil {
		return nil, domain.ErrModuleLoad{Artifact: artifactPath, Err: err}
	}
	var r Recipe
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&r); err != nil {
		return nil, domain.ErrModuleLoad{Artifact: artifactPath, Err: err}
	}
	return &r, nil
}

// LoadAll decodes every ".forgec" artifact under artifactsDir. Load
// order is unspecified; the dependency graph imposes order later. A
// single corrupt artifact is skipped and its failure recorded rather
// than aborting the whole load.
func LoadAll(ctx context.Context, fs domain.FS, artifactsDir string) ([]*Recipe, []CompileFailure, error) {
	entries, err := fs.ReadDir(ctx, artifactsDir)
	if err != nil {
		return nil, nil, err
	}

	var recipes []*Recipe
	var failed []CompileFailure
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".forgec") {
			continue
		}
		p := path.Join(artifactsDir, e.Name())
		r, err := Load(ctx, fs, p)
		if err != nil {
			failed = append(failed, CompileFailure{Path: p, Err: err})
			continue
		}
		recipes = append(recipes, r)
	}
	return recipes, failed, nil
}
