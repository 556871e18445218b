// internal/storage/table.go
//
// Table owns an ordered set of named Columns plus the name of whichever
// one is the primary key, grounded on original_source/db.py's DBTable
// class: a manifest of column descriptors on disk, one directory per
// table, select/filter/insert/update/delete all routed through the
// primary key's clustered index.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Table is one named relation: an ordered column list, a primary key, and
// the directory backing its on-disk state.
type Table struct {
	dir        string
	name       string
	order      int
	colNames   []string // declaration order, for Columns() and the manifest
	cols       map[string]*Column
	primaryKey string // "" until set
}

// manifest is the JSON file (named "cols") listing a table's column names
// in declaration order, per original_source/db.py's DBTable manifest.
type manifest struct {
	Columns    []string `json:"columns"`
	PrimaryKey string   `json:"primary_key"`
}

func (t *Table) manifestPath() string { return filepath.Join(t.dir, "cols") }

// NewTable creates an empty table rooted at dir. dir is created if absent.
func NewTable(dir, name string, order int) (*Table, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create table dir %s: %w", dir, err)
	}
	return &Table{
		dir:   dir,
		name:  name,
		order: order,
		cols:  make(map[string]*Column),
	}, nil
}

// LoadTable reads a table previously saved to dir back into memory. It
// returns ErrCorruptedDatabase if dir has no manifest.
func LoadTable(dir, name string, order int) (*Table, error) {
	data, err := os.ReadFile(filepath.Join(dir, "cols"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("table %s: %w", name, ErrCorruptedDatabase)
		}
		return nil, fmt.Errorf("read manifest for table %s: %w", name, err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest for table %s: %w", name, err)
	}
	t := &Table{
		dir:        dir,
		name:       name,
		order:      order,
		colNames:   m.Columns,
		cols:       make(map[string]*Column, len(m.Columns)),
		primaryKey: m.PrimaryKey,
	}
	for _, cn := range m.Columns {
		col, err := LoadColumn(dir, cn, order)
		if err != nil {
			return nil, fmt.Errorf("load column %s of table %s: %w", cn, name, err)
		}
		t.cols[cn] = col
	}
	return t, nil
}

// Save persists the table's manifest and every column.
func (t *Table) Save() error {
	m := manifest{Columns: t.colNames, PrimaryKey: t.primaryKey}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest for table %s: %w", t.name, err)
	}
	if err := writeFileAtomic(t.manifestPath(), data); err != nil {
		return err
	}
	for _, cn := range t.colNames {
		if err := t.cols[cn].Save(); err != nil {
			return fmt.Errorf("save column %s of table %s: %w", cn, t.name, err)
		}
	}
	return nil
}

// Name returns the table's name.
func (t *Table) Name() string { return t.name }

// Columns returns the table's column names in declaration order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.colNames...)
}

// ColumnInfo returns the descriptor for a named column.
func (t *Table) ColumnInfo(name string) (ColumnInfo, bool) {
	c, ok := t.cols[name]
	if !ok {
		return ColumnInfo{}, false
	}
	return c.Info, true
}

// PrimaryKey returns the name of the primary-key column, or "" if unset.
func (t *Table) PrimaryKey() string { return t.primaryKey }

// AddColumn appends a new, empty column to the table. Per spec.md §4.4's
// primary-key rules, a column is designated PK when either (a) its
// PrimaryKey flag is set, or (b) it is the first column added and no PK
// has been designated yet. At most one PK per table; a second explicit
// designation is rejected with ErrPrimaryKeyAlreadySet.
func (t *Table) AddColumn(name string, info ColumnInfo) error {
	if info.PrimaryKey {
		if t.primaryKey != "" {
			return fmt.Errorf("table %s: %w", t.name, ErrPrimaryKeyAlreadySet)
		}
		t.primaryKey = name
	} else if len(t.colNames) == 0 && t.primaryKey == "" {
		info.PrimaryKey = true
		t.primaryKey = name
	}
	col, err := NewColumn(t.dir, name, info, t.order)
	if err != nil {
		return err
	}
	t.cols[name] = col
	t.colNames = append(t.colNames, name)
	return nil
}

// SetPrimaryKey designates an already-declared column as the primary key.
func (t *Table) SetPrimaryKey(name string) error {
	col, ok := t.cols[name]
	if !ok {
		return fmt.Errorf("table %s, column %s: %w", t.name, name, ErrPrimaryKeyNotInTable)
	}
	if t.primaryKey != "" {
		return fmt.Errorf("table %s: %w", t.name, ErrPrimaryKeyAlreadySet)
	}
	if col.Info.PrimaryKey {
		return fmt.Errorf("table %s: %w", t.name, ErrPrimaryKeyAlreadySet)
	}
	col.Info.PrimaryKey = true
	newCol, err := NewColumn(t.dir, name, col.Info, t.order)
	if err != nil {
		return err
	}
	t.cols[name] = newCol
	t.primaryKey = name
	return nil
}

func (t *Table) pkColumn() (*Column, error) {
	if t.primaryKey == "" {
		return nil, fmt.Errorf("table %s: %w", t.name, ErrNoPrimaryKey)
	}
	return t.cols[t.primaryKey], nil
}

func pkValue(row Row, pkName string) (int64, error) {
	v, ok := row[pkName]
	if !ok {
		return 0, fmt.Errorf("row missing primary key column %s", pkName)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("primary key column %s must be an integer, got %T", pkName, v)
	}
}

// Insert validates row against the table's shape, then writes it into the
// clustered index and every secondary index.
func (t *Table) Insert(row Row) error {
	if !SameShape(row, t.colNames) {
		return fmt.Errorf("table %s: %w", t.name, ErrInvalidShape)
	}
	pkCol, err := t.pkColumn()
	if err != nil {
		return err
	}
	pk, err := pkValue(row, t.primaryKey)
	if err != nil {
		return err
	}
	if err := pkCol.InsertPK(row, pk); err != nil {
		return err
	}
	for _, cn := range t.colNames {
		if cn == t.primaryKey {
			continue
		}
		t.cols[cn].IndexInsert(row[cn], pk)
	}
	return nil
}

// SelectAll returns every row, in ascending primary-key order.
func (t *Table) SelectAll() ([]Row, error) {
	pkCol, err := t.pkColumn()
	if err != nil {
		return nil, err
	}
	return pkCol.AllRows(t.cols)
}

// Filter returns the PKs of every row whose named column equals value,
// per spec.md §4.4's EQUALS-only condition model. Filtering on the
// primary key itself is a membership check against the clustered index
// that consults no secondary index: it returns [value] when a row with
// that pk exists and an empty list otherwise — a variant of
// original_source/db.py's DBTable.filter shortcut.
func (t *Table) Filter(column string, value any) ([]int64, error) {
	col, ok := t.cols[column]
	if !ok {
		return nil, fmt.Errorf("table %s, column %s: %w", t.name, column, ErrColumnNotFound)
	}
	if column == t.primaryKey {
		pk, err := pkValue(Row{column: value}, column)
		if err != nil {
			return nil, err
		}
		if _, found, err := col.GetPK(pk, t.cols); err != nil {
			return nil, err
		} else if found {
			return []int64{pk}, nil
		}
		return nil, nil
	}
	return col.IndexGet(value), nil
}

// Select returns the rows named by pks, in the order given.
func (t *Table) Select(pks []int64) ([]Row, error) {
	pkCol, err := t.pkColumn()
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(pks))
	for _, pk := range pks {
		row, ok, err := pkCol.GetPK(pk, t.cols)
		if err != nil {
			return nil, err
		}
		if ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Update applies changes (column -> new value) to every row named by pks,
// maintaining every secondary index by deleting the stale edge and
// inserting the fresh one, per spec.md §4.4.
func (t *Table) Update(pks []int64, changes Row) error {
	for col := range changes {
		if col == t.primaryKey {
			return fmt.Errorf("table %s: cannot update the primary key column %s", t.name, col)
		}
		if _, ok := t.cols[col]; !ok {
			return fmt.Errorf("table %s, column %s: %w", t.name, col, ErrColumnNotFound)
		}
	}
	pkCol, err := t.pkColumn()
	if err != nil {
		return err
	}
	for _, pk := range pks {
		row, ok, err := pkCol.GetPK(pk, t.cols)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		for cn, newVal := range changes {
			col := t.cols[cn]
			col.IndexDelete(row[cn], pk)
			col.IndexInsert(newVal, pk)
			row[cn] = newVal
		}
		if err := pkCol.InsertPK(row, pk); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes every row named by pks, dropping its clustered entry and
// every secondary index edge. It returns the number of rows actually
// removed.
func (t *Table) Delete(pks []int64) (int, error) {
	pkCol, err := t.pkColumn()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, pk := range pks {
		row, ok, err := pkCol.GetPK(pk, t.cols)
		if err != nil {
			return removed, err
		}
		if !ok {
			continue
		}
		for _, cn := range t.colNames {
			if cn == t.primaryKey {
				continue
			}
			t.cols[cn].IndexDelete(row[cn], pk)
		}
		pkCol.DeletePK(pk)
		removed++
	}
	return removed, nil
}

// DeleteAllRows empties the table by resetting every column's index,
// matching original_source/db.py's delete_all_rows behavior.
func (t *Table) DeleteAllRows() error {
	for _, cn := range t.colNames {
		if err := t.cols[cn].Reset(t.order); err != nil {
			return fmt.Errorf("reset column %s of table %s: %w", cn, t.name, err)
		}
	}
	return nil
}

