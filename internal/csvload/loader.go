// internal/csvload/loader.go
//
// Bulk CSV ingestion, grounded on original_source/gcsv.py: the first CSV
// column becomes the table's primary key, every other column's type is
// inferred from the first data row (numeric cells become integer,
// everything else text), and every remaining row is inserted through the
// normal Table.Insert path so it picks up index maintenance for free.
package csvload

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/liamrosenfeld/gatordb/internal/storage"
)

// Options configures one CSV load.
type Options struct {
	Delimiter  rune
	TableName  string
	AutoCreate bool // create columns from CSV headers if the table doesn't exist yet
}

// Load reads CSV rows from r into a table named opts.TableName within db,
// creating the table (and inferring its columns) on first use when
// opts.AutoCreate is set. It returns the number of rows inserted.
func Load(db *storage.Database, r io.Reader, opts Options) (int, error) {
	if opts.TableName == "" {
		return 0, fmt.Errorf("csv load: table name required")
	}
	if strings.EqualFold(opts.TableName, "table") {
		return 0, fmt.Errorf("csv load: %q is a reserved table name", opts.TableName)
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	headers, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("csv load: read header row: %w", err)
	}
	if len(headers) == 0 {
		return 0, fmt.Errorf("csv load: empty header row")
	}

	inserted := 0
	tbl, err := db.Table(opts.TableName)
	if err != nil {
		if !opts.AutoCreate {
			return 0, err
		}
		tbl, err = createFromHeaders(db, opts.TableName, headers, reader)
		if err != nil {
			return 0, err
		}
		inserted = 1 // createFromHeaders inserted the first data row
	}

	count, err := insertRows(tbl, headers, reader)
	count += inserted
	if err != nil {
		return count, err
	}
	if err := tbl.Save(); err != nil {
		return count, err
	}
	return count, nil
}

// createFromHeaders creates a new table whose first column is the
// primary key and whose remaining columns' types are inferred from the
// first data row. That first row is consumed and inserted here, so the
// caller continues with the rows after it.
func createFromHeaders(db *storage.Database, name string, headers []string, reader *csv.Reader) (*storage.Table, error) {
	firstRow, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("csv load: infer column types: %w", err)
	}

	tbl, err := db.CreateTable(name)
	if err != nil {
		return nil, err
	}
	if err := tbl.AddColumn(headers[0], storage.ColumnInfo{DBType: storage.TypeInteger, PrimaryKey: true}); err != nil {
		return nil, err
	}
	for i, header := range headers[1:] {
		dbtype := storage.TypeText
		if isNumeric(firstRow[i+1]) {
			dbtype = storage.TypeInteger
		}
		if err := tbl.AddColumn(header, storage.ColumnInfo{DBType: dbtype}); err != nil {
			return nil, err
		}
	}

	if err := insertOneRow(tbl, headers, firstRow); err != nil {
		return nil, err
	}
	return tbl, nil
}

func insertRows(tbl *storage.Table, headers []string, reader *csv.Reader) (int, error) {
	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("csv load: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		if err := insertOneRow(tbl, headers, row); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func insertOneRow(tbl *storage.Table, headers, values []string) error {
	row := make(storage.Row, len(headers))
	for i, header := range headers {
		if i >= len(values) {
			return fmt.Errorf("csv load: row shorter than header list")
		}
		info, ok := tbl.ColumnInfo(header)
		if !ok {
			return fmt.Errorf("csv load: column %s: %w", header, storage.ErrColumnNotFound)
		}
		v, err := storage.CoerceLiteral(values[i], info.DBType)
		if err != nil {
			return err
		}
		row[header] = v
	}
	return tbl.Insert(row)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
