// internal/storage/persist.go
//
// Atomic, fsync-durable writes for every on-disk artifact GatorDB produces
// (column descriptors, trees, table manifests), grounded on
// Hareesh108-haruDB/internal/storage/persist.go's temp-file-then-rename
// pattern.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// readFile reads path whole; callers wrap the error with their own context.
func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func marshalColumnInfo(info ColumnInfo) ([]byte, error) {
	return json.Marshal(info)
}

func unmarshalColumnInfo(data []byte) (ColumnInfo, error) {
	var info ColumnInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return ColumnInfo{}, err
	}
	return info, nil
}

// writeFileAtomic writes data to path by first writing to a sibling temp
// file, fsyncing it, renaming it into place, then fsyncing the containing
// directory so the rename itself survives a crash.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file into %s: %w", path, err)
	}
	return syncDir(dir)
}

// syncDir fsyncs a directory so a prior rename/create within it is durable.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open dir %s for sync: %w", dir, err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("sync dir %s: %w", dir, err)
	}
	return nil
}
