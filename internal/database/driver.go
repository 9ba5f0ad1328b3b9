package database

import (
	"context"
	"errors"
)

// ErrConnectionClosed is returned by driver operations issued before
// Open or after Close.
var ErrConnectionClosed = errors.New("connection closed")

// ErrNoSuchTable is returned when introspecting a table that does not
// exist.
var ErrNoSuchTable = errors.New("no such table")

// Driver owns the single database handle of a session. It is not safe
// for concurrent use; callers serialize access.
type Driver interface {
	// Open opens the database file at path.
	Open(ctx context.Context, path string) error

	// Close releases the handle. Closing a closed driver is a no-op.
	Close() error

	// IsOpen reports whether a handle is currently held.
	IsOpen() bool

	// ListTables returns user table names sorted ascending.
	ListTables(ctx context.Context) ([]string, error)

	// GetColumns returns the declared columns of a table in order.
	GetColumns(ctx context.Context, table string) ([]Column, error)

	// ExecuteQuery runs a SQL statement and materializes the result.
	ExecuteQuery(ctx context.Context, query string) (*ResultSet, error)

	// Path returns the file backing the open database.
	Path() string
}
