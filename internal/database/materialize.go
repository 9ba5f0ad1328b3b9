package database

import (
	"database/sql"
	"fmt"
)

// Cursor is an open, forward-only row iterator. *sqlx.Rows satisfies it.
type Cursor interface {
	Columns() ([]string, error)
	ColumnTypes() ([]*sql.ColumnType, error)
	Next() bool
	SliceScan() ([]any, error)
	Err() error
	Close() error
}

// Materialize drains cursor into a ResultSet for query. The cursor is
// always closed. On any error no partial result is returned.
func Materialize(query string, cursor Cursor) (*ResultSet, error) {
	defer cursor.Close()

	names, err := cursor.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	types, err := cursor.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("read column types: %w", err)
	}

	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name}
		if i < len(types) && types[i] != nil {
			columns[i].DeclaredType = NormalizeType(types[i].DatabaseTypeName())
		}
	}

	rows := make([][]Value, 0)
	for cursor.Next() {
		cells, err := cursor.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(rows), err)
		}
		if len(cells) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", len(rows), len(cells), len(columns))
		}
		row := make([]Value, len(cells))
		for i, c := range cells {
			row[i] = ConvertCell(columns[i], c)
		}
		rows = append(rows, row)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &ResultSet{
		Query:   query,
		Columns: columns,
		Rows:    rows,
	}, nil
}
