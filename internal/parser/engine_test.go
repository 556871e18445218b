package parser

import (
	"strings"
	"testing"

	"github.com/liamrosenfeld/gatordb/internal/storage"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	db, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewEngine(db)
}

func mustExec(t *testing.T, e *Engine, stmt string) Result {
	t.Helper()
	res, err := e.Execute(stmt)
	if err != nil {
		t.Fatalf("execute %q: %v", stmt, err)
	}
	return res
}

func TestCreateInsertSelectAll(t *testing.T) {
	e := newTestEngine(t)
	mustExec(t, e, "CREATE TABLE users (id integer primary key, name text)")
	mustExec(t, e, "INSERT INTO users VALUES (1, 'ann')")
	mustExec(t, e, "INSERT INTO users VALUES (2, 'bo')")

	res := mustExec(t, e, "SELECT * FROM users")
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Rows))
	}
}

func TestSelectWhereEquality(t *testing.T) {
	e := newTestEngine(t)
	mustExec(t, e, "CREATE TABLE users (id integer primary key, name text)")
	mustExec(t, e, "INSERT INTO users VALUES (1, 'ann')")
	mustExec(t, e, "INSERT INTO users VALUES (2, 'bo')")

	res := mustExec(t, e, "SELECT * FROM users WHERE name = 'bo'")
	if len(res.Rows) != 1 || res.Rows[0]["id"] != int64(2) {
		t.Fatalf("expected 1 row for bo, got %+v", res.Rows)
	}
}

func TestUpdateMaintainsIndex(t *testing.T) {
	e := newTestEngine(t)
	mustExec(t, e, "CREATE TABLE users (id integer primary key, name text)")
	mustExec(t, e, "INSERT INTO users VALUES (1, 'ann')")

	res := mustExec(t, e, "UPDATE users SET name = 'annie' WHERE id = 1")
	if !strings.Contains(res.Message, "1 row") {
		t.Fatalf("expected update message, got %q", res.Message)
	}

	sel := mustExec(t, e, "SELECT * FROM users WHERE name = 'annie'")
	if len(sel.Rows) != 1 {
		t.Fatalf("expected updated row findable by new value, got %+v", sel.Rows)
	}
}

func TestDeleteRequiresWhere(t *testing.T) {
	e := newTestEngine(t)
	mustExec(t, e, "CREATE TABLE users (id integer primary key, name text)")
	if _, err := e.Execute("DELETE FROM users"); err == nil {
		t.Fatalf("expected error for DELETE without WHERE")
	}
}

func TestTruncateRejectsWhereClause(t *testing.T) {
	e := newTestEngine(t)
	mustExec(t, e, "CREATE TABLE users (id integer primary key, name text)")
	if _, err := e.Execute("TRUNCATE users WHERE id = 1"); err == nil {
		t.Fatalf("expected error for TRUNCATE with WHERE clause")
	}
}

func TestTruncateEmptiesTable(t *testing.T) {
	e := newTestEngine(t)
	mustExec(t, e, "CREATE TABLE users (id integer primary key, name text)")
	mustExec(t, e, "INSERT INTO users VALUES (1, 'ann')")
	mustExec(t, e, "TRUNCATE users")

	res := mustExec(t, e, "SELECT * FROM users")
	if len(res.Rows) != 0 {
		t.Fatalf("expected empty table after truncate, got %d rows", len(res.Rows))
	}
}

func TestDropTable(t *testing.T) {
	e := newTestEngine(t)
	mustExec(t, e, "CREATE TABLE users (id integer primary key, name text)")
	mustExec(t, e, "DROP TABLE users")

	if _, err := e.Execute("SELECT * FROM users"); err == nil {
		t.Fatalf("expected error selecting from dropped table")
	}
}

// TestCreateTableWithoutExplicitPrimaryKey covers spec.md §4.4 rule (b):
// when no column is annotated PRIMARY KEY, the first declared column is
// still implicitly designated, so INSERT INTO doesn't fail with
// ErrNoPrimaryKey.
func TestCreateTableWithoutExplicitPrimaryKey(t *testing.T) {
	e := newTestEngine(t)
	mustExec(t, e, "CREATE TABLE widgets (id integer, label text)")
	mustExec(t, e, "INSERT INTO widgets VALUES (1, 'gadget')")

	res := mustExec(t, e, "SELECT * FROM widgets WHERE id = 1")
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row filtered on implicit primary key, got %+v", res.Rows)
	}
}

func TestWordAliases(t *testing.T) {
	e := newTestEngine(t)
	mustExec(t, e, "HATCH TABLE users (id integer primary key, name text)")
	mustExec(t, e, "INSERT INTO users VALUES (1, 'ann')")

	res := mustExec(t, e, "SWIPE * FROM users")
	if len(res.Rows) != 1 {
		t.Fatalf("expected SWIPE to alias SELECT, got %+v", res.Rows)
	}

	mustExec(t, e, "CHOMP users")
	res = mustExec(t, e, "SWIPE * FROM users")
	if len(res.Rows) != 0 {
		t.Fatalf("expected CHOMP to alias TRUNCATE, got %+v", res.Rows)
	}

	mustExec(t, e, "SWAMP TABLE users")
	if _, err := e.Execute("SWIPE * FROM users"); err == nil {
		t.Fatalf("expected SWAMP to alias DROP TABLE")
	}
}
