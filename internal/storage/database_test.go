package storage

import "testing"

func TestDatabaseCreateInsertSelect(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	tbl, err := db.CreateTable("users")
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	_ = tbl.AddColumn("id", ColumnInfo{DBType: TypeInteger, PrimaryKey: true})
	_ = tbl.AddColumn("name", ColumnInfo{DBType: TypeText})
	if err := tbl.Insert(Row{"id": int64(1), "name": "ann"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := db.Table("users")
	if err != nil {
		t.Fatalf("table lookup: %v", err)
	}
	rows, err := got.SelectAll()
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected 1 row, got %v err=%v", rows, err)
	}
}

func TestDatabaseCreateTableTwiceFails(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := db.CreateTable("users"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.CreateTable("users"); err == nil {
		t.Fatalf("expected error creating a table name twice")
	}
}

func TestDatabaseDropTable(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := db.CreateTable("temp"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := db.DropTable("temp"); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	if _, err := db.Table("temp"); err == nil {
		t.Fatalf("expected dropped table to be gone")
	}
}

func TestDatabaseReopenRestoresTables(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	tbl, err := db.CreateTable("users")
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	_ = tbl.AddColumn("id", ColumnInfo{DBType: TypeInteger, PrimaryKey: true})
	_ = tbl.AddColumn("name", ColumnInfo{DBType: TypeText})
	_ = tbl.Insert(Row{"id": int64(1), "name": "ann"})
	if err := tbl.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
	reloaded, err := db2.Table("users")
	if err != nil {
		t.Fatalf("table lookup after reopen: %v", err)
	}
	rows, err := reloaded.SelectAll()
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected 1 row after reopen, got %v err=%v", rows, err)
	}
}

func TestDatabaseLockRejectsSecondOpen(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := Open(dir); err == nil {
		t.Fatalf("expected second Open of the same dir to fail")
	}
}
