package database

import (
	"fmt"
	"strings"
	"time"
)

// Column describes one result or table column. Order is significant.
type Column struct {
	Name         string
	DeclaredType string
}

// Table is a table name with its introspected columns.
type Table struct {
	Name    string
	Columns []Column
}

// ResultSet is a fully materialized query result paired with the SQL
// that produced it.
type ResultSet struct {
	Query    string
	Columns  []Column
	Rows     [][]Value
	Duration time.Duration
}

// RowCount returns the number of materialized rows.
func (r *ResultSet) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// ColumnNames returns the column names in result order.
func (r *ResultSet) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// Validate reports an error if any row does not have exactly one value
// per column.
func (r *ResultSet) Validate() error {
	if r == nil {
		return fmt.Errorf("nil result set")
	}
	for i, row := range r.Rows {
		if len(row) != len(r.Columns) {
			return fmt.Errorf("row %d has %d values, want %d", i, len(row), len(r.Columns))
		}
	}
	return nil
}

// NormalizeType canonicalizes a declared column type so that schema
// introspection and cursor metadata compare equal.
func NormalizeType(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// QuoteIdentifier wraps name in double quotes, doubling any embedded
// quote so the name can never terminate the identifier early.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// SelectAll returns the default browse query for a table.
func SelectAll(table string) string {
	return "SELECT * FROM " + QuoteIdentifier(table)
}
