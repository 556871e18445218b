// internal/parser/engine.go
//
// Engine turns one line of GatorDB's reduced SQL dialect into calls
// against a storage.Database, following the string-splitting parsing
// style of Hareesh108-haruDB/internal/parser/engine.go. The dialect also
// accepts the historical GatorDB word aliases (SWIPE/HATCH/CHOMP/SWAMP)
// documented in original_source/sqlengine.py's __alias_sql.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/liamrosenfeld/gatordb/internal/storage"
)

var ErrSyntax = errors.New("syntax error")

// aliases maps historical GatorDB keywords onto the statement they stand
// in for, checked against the first word of a command.
var aliases = map[string]string{
	"SWIPE": "SELECT",
	"HATCH": "CREATE",
	"CHOMP": "TRUNCATE",
	"SWAMP": "DROP",
}

// Engine holds the single open Database a process works against.
type Engine struct {
	DB *storage.Database
}

func NewEngine(db *storage.Database) *Engine {
	return &Engine{DB: db}
}

// Result is the outcome of one Execute call: either a plain message, or a
// set of rows with their column order.
type Result struct {
	Message string
	Columns []string
	Rows    []storage.Row
}

// Execute parses and runs one statement.
func (e *Engine) Execute(input string) (Result, error) {
	input = strings.TrimSpace(input)
	input = strings.TrimSuffix(input, ";")
	if input == "" {
		return Result{}, fmt.Errorf("%w: empty statement", ErrSyntax)
	}

	input = applyAliases(input)
	upper := strings.ToUpper(input)

	switch {
	case strings.HasPrefix(upper, "CREATE TABLE"):
		cmd, err := parseCreateTable(input)
		if err != nil {
			return Result{}, err
		}
		return e.runCreateTable(cmd)

	case strings.HasPrefix(upper, "INSERT INTO"):
		cmd, err := parseInsertInto(input)
		if err != nil {
			return Result{}, err
		}
		return e.runInsertInto(cmd)

	case strings.HasPrefix(upper, "SELECT"):
		cmd, err := parseSelect(input)
		if err != nil {
			return Result{}, err
		}
		return e.runSelect(cmd)

	case strings.HasPrefix(upper, "UPDATE"):
		cmd, err := parseUpdate(input)
		if err != nil {
			return Result{}, err
		}
		return e.runUpdate(cmd)

	case strings.HasPrefix(upper, "DELETE FROM"):
		cmd, err := parseDelete(input)
		if err != nil {
			return Result{}, err
		}
		return e.runDelete(cmd)

	case strings.HasPrefix(upper, "TRUNCATE"):
		cmd, err := parseTruncate(input)
		if err != nil {
			return Result{}, err
		}
		return e.runTruncate(cmd)

	case strings.HasPrefix(upper, "DROP TABLE"):
		cmd, err := parseDropTable(input)
		if err != nil {
			return Result{}, err
		}
		return e.runDropTable(cmd)

	default:
		return Result{}, fmt.Errorf("%w: unrecognized statement %q", ErrSyntax, input)
	}
}

func applyAliases(input string) string {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return input
	}
	if repl, ok := aliases[strings.ToUpper(fields[0])]; ok {
		fields[0] = repl
		return strings.Join(fields, " ")
	}
	return input
}

// --- CREATE TABLE ---

// parseCreateTable handles:
//   CREATE TABLE users (id integer primary key, name text)
func parseCreateTable(input string) (CreateTable, error) {
	parts := strings.SplitN(input, "(", 2)
	if len(parts) < 2 {
		return CreateTable{}, fmt.Errorf("%w: missing column list", ErrSyntax)
	}
	header := strings.Fields(strings.TrimSpace(parts[0]))
	if len(header) < 3 {
		return CreateTable{}, fmt.Errorf("%w: expected CREATE TABLE <name>", ErrSyntax)
	}
	table := header[2]

	colsRaw := strings.TrimSuffix(strings.TrimSpace(parts[1]), ")")
	var decls []ColumnDecl
	var pkName string
	for _, raw := range strings.Split(colsRaw, ",") {
		fields := strings.Fields(strings.TrimSpace(raw))
		if len(fields) < 2 {
			return CreateTable{}, fmt.Errorf("%w: column %q needs a name and a type", ErrSyntax, raw)
		}
		dbtype, err := storage.ParseDBType(fields[1])
		if err != nil {
			return CreateTable{}, err
		}
		pk := len(fields) >= 4 &&
			strings.EqualFold(fields[2], "primary") &&
			strings.EqualFold(fields[3], "key")
		if pk {
			pkName = fields[0]
		}
		decls = append(decls, ColumnDecl{Name: fields[0], DBType: dbtype, PrimaryKey: pk})
	}
	return CreateTable{Table: table, Columns: decls, PrimaryKeyName: pkName}, nil
}

// runCreateTable adds every declared column in order. When no column
// was explicitly marked PRIMARY KEY (cmd.PrimaryKeyName == ""),
// Table.AddColumn's rule-(b) fallback designates the first column added
// as the primary key, per spec.md §4.4.
func (e *Engine) runCreateTable(cmd CreateTable) (Result, error) {
	tbl, err := e.DB.CreateTable(cmd.Table)
	if err != nil {
		return Result{}, err
	}
	for _, c := range cmd.Columns {
		pk := c.PrimaryKey || c.Name == cmd.PrimaryKeyName
		if err := tbl.AddColumn(c.Name, storage.ColumnInfo{DBType: c.DBType, PrimaryKey: pk}); err != nil {
			return Result{}, err
		}
	}
	if err := tbl.Save(); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("table %s created", cmd.Table)}, nil
}

// --- INSERT INTO ---

// parseInsertInto handles:
//   INSERT INTO users VALUES (1, 'ann')
func parseInsertInto(input string) (InsertInto, error) {
	idx := strings.Index(strings.ToUpper(input), "VALUES")
	if idx == -1 {
		return InsertInto{}, fmt.Errorf("%w: missing VALUES clause", ErrSyntax)
	}
	parts := []string{input[:idx], input[idx+len("VALUES"):]}
	header := strings.Fields(parts[0])
	if len(header) < 3 {
		return InsertInto{}, fmt.Errorf("%w: expected INSERT INTO <table>", ErrSyntax)
	}
	table := header[2]

	valRaw := strings.Trim(strings.TrimSpace(parts[1]), "()")
	values := splitTopLevelCommas(valRaw)
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	return InsertInto{Table: table, Values: values}, nil
}

func (e *Engine) runInsertInto(cmd InsertInto) (Result, error) {
	tbl, err := e.DB.Table(cmd.Table)
	if err != nil {
		return Result{}, err
	}
	cols := tbl.Columns()
	if len(cols) != len(cmd.Values) {
		return Result{}, fmt.Errorf("%w: table %s expects %d values, got %d", ErrSyntax, cmd.Table, len(cols), len(cmd.Values))
	}
	row := make(storage.Row, len(cols))
	for i, col := range cols {
		info, _ := tbl.ColumnInfo(col)
		v, err := storage.CoerceLiteral(cmd.Values[i], info.DBType)
		if err != nil {
			return Result{}, err
		}
		row[col] = v
	}
	if err := tbl.Insert(row); err != nil {
		return Result{}, err
	}
	if err := tbl.Save(); err != nil {
		return Result{}, err
	}
	return Result{Message: "1 row inserted"}, nil
}

// --- SELECT ---

// parseSelect handles:
//   SELECT * FROM users [WHERE col = value]
func parseSelect(input string) (Select, error) {
	fields := strings.Fields(input)
	if len(fields) < 4 || !strings.EqualFold(fields[1], "*") || !strings.EqualFold(fields[2], "FROM") {
		return Select{}, fmt.Errorf("%w: expected SELECT * FROM <table> [WHERE ...]", ErrSyntax)
	}
	table := fields[3]

	whereIdx := indexOfKeyword(fields, "WHERE")
	if whereIdx == -1 {
		return Select{Table: table}, nil
	}
	eq, err := parseEquality(strings.Join(fields[whereIdx+1:], " "))
	if err != nil {
		return Select{}, err
	}
	return Select{Table: table, Where: &eq}, nil
}

func (e *Engine) runSelect(cmd Select) (Result, error) {
	tbl, err := e.DB.Table(cmd.Table)
	if err != nil {
		return Result{}, err
	}
	if cmd.Where == nil {
		rows, err := tbl.SelectAll()
		if err != nil {
			return Result{}, err
		}
		return Result{Columns: tbl.Columns(), Rows: rows}, nil
	}
	val, err := coerceAgainstColumn(tbl, cmd.Where.Column, cmd.Where.Value)
	if err != nil {
		return Result{}, err
	}
	pks, err := tbl.Filter(cmd.Where.Column, val)
	if err != nil {
		return Result{}, err
	}
	rows, err := tbl.Select(pks)
	if err != nil {
		return Result{}, err
	}
	return Result{Columns: tbl.Columns(), Rows: rows}, nil
}

// --- UPDATE ---

// parseUpdate handles:
//   UPDATE users SET name = 'annie' WHERE id = 1
func parseUpdate(input string) (Update, error) {
	fields := strings.Fields(input)
	if len(fields) < 2 {
		return Update{}, fmt.Errorf("%w: expected UPDATE <table> SET ...", ErrSyntax)
	}
	table := fields[1]

	setIdx := indexOfKeyword(fields, "SET")
	whereIdx := indexOfKeyword(fields, "WHERE")
	if setIdx == -1 || whereIdx == -1 || whereIdx < setIdx {
		return Update{}, fmt.Errorf("%w: expected UPDATE <table> SET ... WHERE ...", ErrSyntax)
	}

	setClause := strings.Join(fields[setIdx+1:whereIdx], " ")
	var sets []Equality
	for _, part := range splitTopLevelCommas(setClause) {
		eq, err := parseEquality(part)
		if err != nil {
			return Update{}, err
		}
		sets = append(sets, eq)
	}

	whereClause := strings.Join(fields[whereIdx+1:], " ")
	where, err := parseEquality(whereClause)
	if err != nil {
		return Update{}, err
	}
	return Update{Table: table, Where: where, Set: sets}, nil
}

func (e *Engine) runUpdate(cmd Update) (Result, error) {
	tbl, err := e.DB.Table(cmd.Table)
	if err != nil {
		return Result{}, err
	}
	whereVal, err := coerceAgainstColumn(tbl, cmd.Where.Column, cmd.Where.Value)
	if err != nil {
		return Result{}, err
	}
	pks, err := tbl.Filter(cmd.Where.Column, whereVal)
	if err != nil {
		return Result{}, err
	}
	changes := make(storage.Row, len(cmd.Set))
	for _, s := range cmd.Set {
		v, err := coerceAgainstColumn(tbl, s.Column, s.Value)
		if err != nil {
			return Result{}, err
		}
		changes[s.Column] = v
	}
	if err := tbl.Update(pks, changes); err != nil {
		return Result{}, err
	}
	if err := tbl.Save(); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("%d row(s) updated", len(pks))}, nil
}

// --- DELETE ---

// parseDelete handles:
//   DELETE FROM users WHERE id = 1
func parseDelete(input string) (Delete, error) {
	fields := strings.Fields(input)
	if len(fields) < 3 {
		return Delete{}, fmt.Errorf("%w: expected DELETE FROM <table> WHERE ...", ErrSyntax)
	}
	table := fields[2]
	whereIdx := indexOfKeyword(fields, "WHERE")
	if whereIdx == -1 {
		return Delete{}, fmt.Errorf("%w: DELETE requires a WHERE clause", ErrSyntax)
	}
	where, err := parseEquality(strings.Join(fields[whereIdx+1:], " "))
	if err != nil {
		return Delete{}, err
	}
	return Delete{Table: table, Where: where}, nil
}

func (e *Engine) runDelete(cmd Delete) (Result, error) {
	tbl, err := e.DB.Table(cmd.Table)
	if err != nil {
		return Result{}, err
	}
	val, err := coerceAgainstColumn(tbl, cmd.Where.Column, cmd.Where.Value)
	if err != nil {
		return Result{}, err
	}
	pks, err := tbl.Filter(cmd.Where.Column, val)
	if err != nil {
		return Result{}, err
	}
	n, err := tbl.Delete(pks)
	if err != nil {
		return Result{}, err
	}
	if err := tbl.Save(); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("%d row(s) deleted", n)}, nil
}

// --- TRUNCATE ---

// parseTruncate handles:
//   TRUNCATE users
// A trailing WHERE clause is rejected — spec.md §6.2 gives TRUNCATE no
// where-clause form, unlike the historical engine it descends from.
func parseTruncate(input string) (Truncate, error) {
	fields := strings.Fields(input)
	if len(fields) != 2 {
		return Truncate{}, fmt.Errorf("%w: TRUNCATE takes exactly one table name, no WHERE clause", ErrSyntax)
	}
	return Truncate{Table: fields[1]}, nil
}

func (e *Engine) runTruncate(cmd Truncate) (Result, error) {
	tbl, err := e.DB.Table(cmd.Table)
	if err != nil {
		return Result{}, err
	}
	if err := tbl.DeleteAllRows(); err != nil {
		return Result{}, err
	}
	if err := tbl.Save(); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("table %s truncated", cmd.Table)}, nil
}

// --- DROP TABLE ---

func parseDropTable(input string) (DropTable, error) {
	fields := strings.Fields(input)
	if len(fields) != 3 {
		return DropTable{}, fmt.Errorf("%w: expected DROP TABLE <name>", ErrSyntax)
	}
	return DropTable{Table: fields[2]}, nil
}

func (e *Engine) runDropTable(cmd DropTable) (Result, error) {
	if err := e.DB.DropTable(cmd.Table); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("table %s dropped", cmd.Table)}, nil
}

// --- shared helpers ---

func indexOfKeyword(fields []string, kw string) int {
	for i, f := range fields {
		if strings.EqualFold(f, kw) {
			return i
		}
	}
	return -1
}

// parseEquality parses "col = value", the only predicate shape the
// dialect supports.
func parseEquality(clause string) (Equality, error) {
	idx := strings.Index(clause, "=")
	if idx == -1 {
		return Equality{}, fmt.Errorf("%w: condition %q is not col = value", ErrSyntax, clause)
	}
	col := strings.TrimSpace(clause[:idx])
	val := strings.TrimSpace(clause[idx+1:])
	if col == "" || val == "" {
		return Equality{}, fmt.Errorf("%w: condition %q is not col = value", ErrSyntax, clause)
	}
	return Equality{Column: col, Value: val}, nil
}

func coerceAgainstColumn(tbl *storage.Table, col, raw string) (any, error) {
	info, ok := tbl.ColumnInfo(col)
	if !ok {
		return nil, fmt.Errorf("table %s, column %s: %w", tbl.Name(), col, storage.ErrColumnNotFound)
	}
	return storage.CoerceLiteral(raw, info.DBType)
}

// splitTopLevelCommas splits on commas that are not inside a quoted
// string, so values like 'a, b' survive a VALUES/SET list intact.
func splitTopLevelCommas(s string) []string {
	var parts []string
	var cur strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			cur.WriteByte(c)
		case c == ',':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}
