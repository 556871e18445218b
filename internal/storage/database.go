// internal/storage/database.go
//
// Database is a directory of tables, one subdirectory each, grounded on
// original_source/db.py's DB class (itself a dict subclass populated by
// os.listdir(name) at construction) and on
// Hareesh108-haruDB/internal/storage/memory.go's Database for the Go
// idiom of a struct wrapping a table map plus a data directory. Exclusive
// ownership of the directory is enforced with a gofrs/flock advisory
// lock, since GatorDB is a single-process, single-writer store.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const treeOrder = DefaultOrder

// Database is the root handle for a GatorDB data directory: a table name
// -> Table map, backed by one subdirectory per table.
type Database struct {
	dir    string
	tables map[string]*Table
	lock   *flock.Flock
}

// Open acquires an exclusive lock on dir and loads every table already
// present there. dir is created if it does not exist. Open fails with
// ErrDatabaseLocked if another process already holds the directory.
func Open(dir string) (*Database, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}

	lock := flock.New(filepath.Join(dir, ".gatordb.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock data dir %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("data dir %s: %w", dir, ErrDatabaseLocked)
	}

	db := &Database{dir: dir, tables: make(map[string]*Table), lock: lock}

	entries, err := os.ReadDir(dir)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("list data dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		t, err := LoadTable(filepath.Join(dir, name), name, treeOrder)
		if err != nil {
			lock.Unlock()
			return nil, err
		}
		db.tables[name] = t
	}
	return db, nil
}

// Close releases the directory lock. It does not flush any table; callers
// save explicitly (e.g. after every mutating command, per spec.md §5).
func (db *Database) Close() error {
	if err := db.lock.Unlock(); err != nil {
		return fmt.Errorf("unlock data dir %s: %w", db.dir, err)
	}
	return nil
}

// CreateTable adds a new, empty table named name. It fails with
// ErrTableAlreadyExists if a table by that name is already open.
func (db *Database) CreateTable(name string) (*Table, error) {
	if _, exists := db.tables[name]; exists {
		return nil, fmt.Errorf("table %s: %w", name, ErrTableAlreadyExists)
	}
	t, err := NewTable(filepath.Join(db.dir, name), name, treeOrder)
	if err != nil {
		return nil, err
	}
	db.tables[name] = t
	return t, nil
}

// Table returns the named table, or ErrTableNotFound.
func (db *Database) Table(name string) (*Table, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", name, ErrTableNotFound)
	}
	return t, nil
}

// DropTable removes a table from memory and deletes its directory.
func (db *Database) DropTable(name string) error {
	if _, ok := db.tables[name]; !ok {
		return fmt.Errorf("table %s: %w", name, ErrTableNotFound)
	}
	delete(db.tables, name)
	if err := os.RemoveAll(filepath.Join(db.dir, name)); err != nil {
		return fmt.Errorf("remove table dir for %s: %w", name, err)
	}
	return nil
}

// TableNames returns the names of every open table, in no particular
// order.
func (db *Database) TableNames() []string {
	names := make([]string, 0, len(db.tables))
	for n := range db.tables {
		names = append(names, n)
	}
	return names
}
