// Package catalog implements the persistent store of known packages,
// their dependency edges, and the files each installed package owns. It
// is backed by modernc.org/sqlite (pure Go, no cgo) with foreign-key
// enforcement enabled, and serializes all writes behind a single mutex
// since the manager never runs more than one writer against a root.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"

	_ "modernc.org/sqlite"
)

// Catalog is the package manager's persistent database of packages,
// dependency edges, and owned files.
type Catalog struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if necessary) the SQLite catalog file at path
// and applies the schema. path may be ":memory:" for tests.
func Open(ctx context.Context, path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: enable foreign keys: %w", err)
	}

	c := &Catalog{db: db}
	if err := c.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the underlying database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS packages (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	name            TEXT NOT NULL UNIQUE,
	version         TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	installed       BOOLEAN NOT NULL DEFAULT 0,
	is_explicit     BOOLEAN NOT NULL DEFAULT 0,
	source_location TEXT
);

CREATE TABLE IF NOT EXISTS dependencies (
	package_id    INTEGER NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
	dependency_id INTEGER NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
	PRIMARY KEY (package_id, dependency_id)
);

CREATE TABLE IF NOT EXISTS files (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	package_id    INTEGER NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
	absolute_path TEXT NOT NULL,
	size          INTEGER NOT NULL,
	mode          INTEGER NOT NULL,
	mtime         INTEGER NOT NULL,
	UNIQUE (package_id, absolute_path)
);

CREATE INDEX IF NOT EXISTS idx_files_package ON files(package_id);
CREATE INDEX IF NOT EXISTS idx_dependencies_dependency ON dependencies(dependency_id);
`

func (c *Catalog) migrate(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("catalog: apply schema: %w", err)
	}
	return nil
}

// PackageRow is a catalog package record.
type PackageRow struct {
	ID             int64
	Name           string
	Version        string
	Description    string
	Installed      bool
	IsExplicit     bool
	SourceLocation string // empty when unset
}

// FileRow is a catalog file record.
type FileRow struct {
	Path  string
	Size  int64
	Mode  uint32
	MTime int64
}

// MaxFileSize is the largest file size the catalog will record: sqlite
// has no native uint64 column, so sizes are rejected if they would not
// fit the signed 64-bit INTEGER column.
const MaxFileSize = math.MaxInt64
