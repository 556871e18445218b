// internal/storage/column.go
//
// A Column owns exactly one index: the primary-key column is backed by a
// ClusteredIndex (pk -> row), every other column by a NonClusteredIndex
// (value -> pk list). This mirrors original_source/db.py's Column class,
// which picks its index_type the same way at construction time.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Column is one named, typed field of a table, along with the index that
// makes it searchable. Its descriptor and tree live in their own
// subdirectory of the owning table, <table>/<col>/, matching
// original_source/db.py's Column.path layout.
type Column struct {
	dir  string // <table-dir>/<name>
	name string
	Info ColumnInfo

	clustered    *ClusteredIndex
	nonClustered *NonClusteredIndex
}

// NewColumn creates a fresh, empty column as a subdirectory of tableDir.
func NewColumn(tableDir, name string, info ColumnInfo, order int) (*Column, error) {
	dir := filepath.Join(tableDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create column dir for %s: %w", name, err)
	}
	c := &Column{dir: dir, name: name, Info: info}
	if info.PrimaryKey {
		c.clustered = NewClusteredIndex(order)
		return c, nil
	}
	nc, err := NewNonClusteredIndex(info.DBType, order)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	c.nonClustered = nc
	return c, nil
}

func (c *Column) descPath() string { return filepath.Join(c.dir, c.name+".col") }
func (c *Column) treePath() string { return filepath.Join(c.dir, c.name+".tree") }

// InsertPK stores row under pk. Only valid for the primary-key column.
func (c *Column) InsertPK(row Row, pk int64) error {
	if c.clustered == nil {
		return fmt.Errorf("column %s is not the primary key", c.name)
	}
	return c.clustered.Insert(row, pk)
}

// GetPK returns the row stored under pk. Only valid for the primary-key
// column.
func (c *Column) GetPK(pk int64, cols map[string]*Column) (Row, bool, error) {
	if c.clustered == nil {
		return nil, false, fmt.Errorf("column %s is not the primary key", c.name)
	}
	return c.clustered.Get(pk, cols)
}

// DeletePK removes the row stored under pk. Only valid for the
// primary-key column.
func (c *Column) DeletePK(pk int64) {
	if c.clustered != nil {
		c.clustered.Delete(pk)
	}
}

// AllRows returns every row in pk order. Only valid for the primary-key
// column.
func (c *Column) AllRows(cols map[string]*Column) ([]Row, error) {
	if c.clustered == nil {
		return nil, fmt.Errorf("column %s is not the primary key", c.name)
	}
	return c.clustered.Values(cols)
}

// IndexInsert records that pk's row now holds value in this column. Only
// valid for non-primary-key columns.
func (c *Column) IndexInsert(value any, pk int64) {
	if c.nonClustered != nil {
		c.nonClustered.Insert(value, pk)
	}
}

// IndexGet returns the PKs of every row whose value in this column equals
// value. Only valid for non-primary-key columns.
func (c *Column) IndexGet(value any) []int64 {
	if c.nonClustered == nil {
		return nil
	}
	return c.nonClustered.Get(value)
}

// IndexDelete forgets that pk's row held value in this column. Only valid
// for non-primary-key columns.
func (c *Column) IndexDelete(value any, pk int64) {
	if c.nonClustered != nil {
		c.nonClustered.Delete(value, pk)
	}
}

// Save persists the column's descriptor and tree to disk.
func (c *Column) Save() error {
	data, err := marshalColumnInfo(c.Info)
	if err != nil {
		return fmt.Errorf("marshal descriptor for column %s: %w", c.name, err)
	}
	if err := writeFileAtomic(c.descPath(), data); err != nil {
		return err
	}
	if c.clustered != nil {
		return c.clustered.Save(c.treePath())
	}
	return c.nonClustered.Save(c.treePath())
}

// LoadColumn reads a previously saved column back from a subdirectory of
// tableDir.
func LoadColumn(tableDir, name string, order int) (*Column, error) {
	dir := filepath.Join(tableDir, name)
	descData, err := readFile(filepath.Join(dir, name+".col"))
	if err != nil {
		return nil, fmt.Errorf("read descriptor for column %s: %w", name, err)
	}
	info, err := unmarshalColumnInfo(descData)
	if err != nil {
		return nil, fmt.Errorf("decode descriptor for column %s: %w", name, err)
	}
	c := &Column{dir: dir, name: name, Info: info}
	if info.PrimaryKey {
		c.clustered = NewClusteredIndex(order)
		if err := c.clustered.Load(c.treePath(), order); err != nil {
			return nil, err
		}
		return c, nil
	}
	nc, err := NewNonClusteredIndex(info.DBType, order)
	if err != nil {
		return nil, err
	}
	if err := nc.Load(c.treePath(), order); err != nil {
		return nil, err
	}
	c.nonClustered = nc
	return c, nil
}

// Reset replaces the column's index with a fresh, empty one of the same
// shape, matching original_source/db.py's delete_all_rows behavior of
// swapping in a brand-new Column per cleared table.
func (c *Column) Reset(order int) error {
	if c.Info.PrimaryKey {
		c.clustered = NewClusteredIndex(order)
		return nil
	}
	nc, err := NewNonClusteredIndex(c.Info.DBType, order)
	if err != nil {
		return err
	}
	c.nonClustered = nc
	return nil
}
