package sqlite

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/joacominatel/litebrowse/internal/database"
)

const driverName = "sqlite3"

// Driver implements the database.Driver interface for SQLite files.
type Driver struct {
	db   *sqlx.DB
	path string
}

// New creates a new SQLite driver.
func New() *Driver {
	return &Driver{}
}

// Open opens path read-only. The file must already exist: SQLite would
// otherwise create an empty database in its place.
func (d *Driver) Open(ctx context.Context, path string) error {
	if d.db != nil {
		return fmt.Errorf("already open: %s", d.path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	db, err := sqlx.ConnectContext(ctx, driverName, dsn(path))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	db.SetMaxOpenConns(1)

	var n int
	if err := db.GetContext(ctx, &n, queryProbe); err != nil {
		_ = db.Close()
		return fmt.Errorf("read catalog: %w", err)
	}

	d.db = db
	d.path = path
	return nil
}

// Close closes the database handle.
func (d *Driver) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// IsOpen reports whether the handle is open.
func (d *Driver) IsOpen() bool {
	return d.db != nil
}

// Path returns the path of the open file.
func (d *Driver) Path() string {
	return d.path
}

// ListTables returns user table names, excluding SQLite internal tables.
func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	if d.db == nil {
		return nil, database.ErrConnectionClosed
	}

	tables := []string{}
	if err := d.db.SelectContext(ctx, &tables, queryListTables); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	// sorted and unique whatever the catalog query returns
	slices.Sort(tables)
	return slices.Compact(tables), nil
}

type columnRow struct {
	Name string `db:"name"`
	Type string `db:"type"`
}

// GetColumns returns column metadata for a table.
func (d *Driver) GetColumns(ctx context.Context, table string) ([]database.Column, error) {
	if d.db == nil {
		return nil, database.ErrConnectionClosed
	}

	var rows []columnRow
	if err := d.db.SelectContext(ctx, &rows, queryGetColumns, table); err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", database.ErrNoSuchTable, table)
	}

	columns := make([]database.Column, len(rows))
	for i, r := range rows {
		columns[i] = database.Column{
			Name:         r.Name,
			DeclaredType: database.NormalizeType(r.Type),
		}
	}
	return columns, nil
}

// ExecuteQuery runs a SQL query and returns the materialized results.
func (d *Driver) ExecuteQuery(ctx context.Context, query string) (*database.ResultSet, error) {
	if d.db == nil {
		return nil, database.ErrConnectionClosed
	}

	start := time.Now()

	rows, err := d.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	result, err := database.Materialize(query, rows)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// dsn builds a read-only SQLite URI filename for path.
func dsn(path string) string {
	return "file:" + uriEscaper.Replace(path) + "?mode=ro&_query_only=true"
}
