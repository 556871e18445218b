// internal/parser/command.go
//
// Parsed commands are tagged records, one struct per statement shape, per
// spec.md §6.2's command table. The parser's only job is to turn text
// into one of these; dispatching them against a storage.Database is the
// engine's job.
package parser

import "github.com/liamrosenfeld/gatordb/internal/storage"

// ColumnDecl is one column in a CREATE TABLE statement.
type ColumnDecl struct {
	Name       string
	DBType     storage.DBType
	PrimaryKey bool
}

// Equality is a single column = value condition, the only predicate
// shape GatorDB's dialect supports (spec.md §4.4's EQUALS-only model).
type Equality struct {
	Column string
	Value  string // raw literal text; coerced against the column's type downstream
}

// CreateTable carries the table name, its ordered column declarations,
// and the name of whichever column is the primary key, matching
// spec.md §6's CreateTable payload of
// "table_name, ordered {name: dbtype}, primary_key_name". PrimaryKeyName
// is "" when no column was explicitly marked PRIMARY KEY, letting
// storage.Table.AddColumn's rule-(b) fallback designate the first
// column instead.
type CreateTable struct {
	Table          string
	Columns        []ColumnDecl
	PrimaryKeyName string
}

type InsertInto struct {
	Table  string
	Values []string // positional, in declared column order
}

type Select struct {
	Table string
	Where *Equality // nil means "no filter"
}

type Update struct {
	Table string
	Where Equality
	Set   []Equality
}

type Delete struct {
	Table string
	Where Equality
}

type Truncate struct {
	Table string
}

type DropTable struct {
	Table string
}
