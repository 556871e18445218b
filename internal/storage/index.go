// internal/storage/index.go
//
// Two index variants share the BPlusTree but diverge in key/value
// semantics, grounded on original_source/db.py's ClusteredIndex and
// NonclusteredIndex classes: a clustered index maps the primary key to a
// row's serialized bytes, a non-clustered index maps a column's value to
// the packed list of primary keys of rows currently holding that value.
package storage

import (
	"bytes"
	"cmp"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
)

// ClusteredIndex is the primary index: pk (always a 64-bit integer, per
// spec.md §3) -> serialized row.
type ClusteredIndex struct {
	tree *BPlusTree[int64, []byte]
}

func NewClusteredIndex(order int) *ClusteredIndex {
	return &ClusteredIndex{tree: NewBPlusTree[int64, []byte](order)}
}

// Insert overwrites any existing row stored under pk.
func (c *ClusteredIndex) Insert(row Row, pk int64) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal row for pk %d: %w", pk, err)
	}
	c.tree.Insert(pk, data)
	return nil
}

// Get returns the deserialized row for pk, if present.
func (c *ClusteredIndex) Get(pk int64, cols map[string]*Column) (Row, bool, error) {
	data, ok := c.tree.Get(pk)
	if !ok {
		return nil, false, nil
	}
	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, false, fmt.Errorf("unmarshal row for pk %d: %w", pk, err)
	}
	return normalizeRow(row, cols), true, nil
}

func (c *ClusteredIndex) Delete(pk int64) {
	c.tree.Delete(pk)
}

// Values returns every stored row, deserialized, in ascending pk order.
func (c *ClusteredIndex) Values(cols map[string]*Column) ([]Row, error) {
	var rows []Row
	for _, data := range c.tree.All() {
		var row Row
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, fmt.Errorf("unmarshal row: %w", err)
		}
		rows = append(rows, normalizeRow(row, cols))
	}
	return rows, nil
}

type gobEntry[K any] struct {
	Key   K
	Value []byte
}

func (c *ClusteredIndex) Save(path string) error {
	var entries []gobEntry[int64]
	for k, v := range c.tree.All() {
		entries = append(entries, gobEntry[int64]{Key: k, Value: v})
	}
	return writeGob(path, entries)
}

func (c *ClusteredIndex) Load(path string, order int) error {
	var entries []gobEntry[int64]
	if err := readGob(path, &entries); err != nil {
		return err
	}
	c.tree = NewBPlusTree[int64, []byte](order)
	for _, e := range entries {
		c.tree.Insert(e.Key, e.Value)
	}
	return nil
}

// nonClusteredTree is implemented by typedNCTree[int64], typedNCTree[float64],
// and typedNCTree[string] — the three key types a secondary column's
// DBType can take.
type nonClusteredTree interface {
	insert(value any, pk int64)
	get(value any) []int64
	delete(value any, pk int64)
	save(path string) error
	load(path string, order int) error
}

type typedNCTree[K cmp.Ordered] struct {
	tree *BPlusTree[K, []byte]
}

func (t *typedNCTree[K]) insert(value any, pk int64) {
	k := value.(K)
	if existing, ok := t.tree.Get(k); ok {
		t.tree.Insert(k, appendPK(existing, pk))
	} else {
		t.tree.Insert(k, encodePKList([]int64{pk}))
	}
}

func (t *typedNCTree[K]) get(value any) []int64 {
	k := value.(K)
	b, ok := t.tree.Get(k)
	if !ok {
		return nil
	}
	return decodePKList(b)
}

func (t *typedNCTree[K]) delete(value any, pk int64) {
	k := value.(K)
	b, ok := t.tree.Get(k)
	if !ok {
		return
	}
	newB, empty := removePK(b, pk)
	if empty {
		t.tree.Delete(k)
	} else {
		t.tree.Insert(k, newB)
	}
}

func (t *typedNCTree[K]) save(path string) error {
	var entries []gobEntry[K]
	for k, v := range t.tree.All() {
		entries = append(entries, gobEntry[K]{Key: k, Value: v})
	}
	return writeGob(path, entries)
}

func (t *typedNCTree[K]) load(path string, order int) error {
	var entries []gobEntry[K]
	if err := readGob(path, &entries); err != nil {
		return err
	}
	t.tree = NewBPlusTree[K, []byte](order)
	for _, e := range entries {
		t.tree.Insert(e.Key, e.Value)
	}
	return nil
}

// NonClusteredIndex is a secondary index: column value -> PK list.
type NonClusteredIndex struct {
	dbtype DBType
	impl   nonClusteredTree
}

func NewNonClusteredIndex(dbtype DBType, order int) (*NonClusteredIndex, error) {
	impl, err := newTypedNCTree(dbtype, order)
	if err != nil {
		return nil, err
	}
	return &NonClusteredIndex{dbtype: dbtype, impl: impl}, nil
}

func newTypedNCTree(dbtype DBType, order int) (nonClusteredTree, error) {
	switch dbtype {
	case TypeInteger:
		return &typedNCTree[int64]{tree: NewBPlusTree[int64, []byte](order)}, nil
	case TypeFloat:
		return &typedNCTree[float64]{tree: NewBPlusTree[float64, []byte](order)}, nil
	case TypeText:
		return &typedNCTree[string]{tree: NewBPlusTree[string, []byte](order)}, nil
	default:
		return nil, fmt.Errorf("%w: dbtype %d", ErrUnknownType, dbtype)
	}
}

// Insert adds pk to the PK list stored under value.
func (n *NonClusteredIndex) Insert(value any, pk int64) {
	n.impl.insert(value, pk)
}

// Get returns the PK list stored under value, or an empty list if absent.
func (n *NonClusteredIndex) Get(value any) []int64 {
	pks := n.impl.get(value)
	if pks == nil {
		return []int64{}
	}
	return pks
}

// Delete removes pk from value's PK list, dropping the tree entry entirely
// if the list becomes empty.
func (n *NonClusteredIndex) Delete(value any, pk int64) {
	n.impl.delete(value, pk)
}

func (n *NonClusteredIndex) Save(path string) error {
	return n.impl.save(path)
}

func (n *NonClusteredIndex) Load(path string, order int) error {
	impl, err := newTypedNCTree(n.dbtype, order)
	if err != nil {
		return err
	}
	if err := impl.load(path, order); err != nil {
		return err
	}
	n.impl = impl
	return nil
}

func writeGob(path string, v any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("encode tree %s: %w", path, err)
	}
	return writeFileAtomic(path, buf.Bytes())
}

func readGob(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tree %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("decode tree %s: %w", path, err)
	}
	return nil
}
