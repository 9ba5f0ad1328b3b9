package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/joacominatel/litebrowse/internal/database"
)

// Service is the only holder of the database driver. It translates
// driver errors into the application error kinds.
type Service struct {
	driver database.Driver
}

// NewService creates a new application service.
func NewService(driver database.Driver) *Service {
	return &Service{driver: driver}
}

// Open opens the database file at path. An empty path is rejected.
func (s *Service) Open(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return &ErrConnection{Cause: errors.New("no database file selected")}
	}
	if err := s.driver.Open(ctx, path); err != nil {
		return &ErrConnection{Path: path, Cause: err}
	}
	return nil
}

// Close closes the database connection.
func (s *Service) Close() error {
	return s.driver.Close()
}

// IsOpen reports whether a database is open.
func (s *Service) IsOpen() bool {
	return s.driver.IsOpen()
}

// ListTables returns the user tables of the open database.
func (s *Service) ListTables(ctx context.Context) ([]string, error) {
	tables, err := s.driver.ListTables(ctx)
	if err != nil {
		if errors.Is(err, database.ErrConnectionClosed) {
			return nil, err
		}
		return nil, &ErrSchema{Cause: err}
	}
	return tables, nil
}

// GetColumns fetches column metadata for a specific table.
func (s *Service) GetColumns(ctx context.Context, table string) ([]database.Column, error) {
	columns, err := s.driver.GetColumns(ctx, table)
	if err != nil {
		if errors.Is(err, database.ErrConnectionClosed) {
			return nil, err
		}
		return nil, &ErrSchema{Table: table, Cause: err}
	}
	return columns, nil
}

// Execute runs a SQL query and returns the results.
func (s *Service) Execute(ctx context.Context, query string) (*database.ResultSet, error) {
	result, err := s.driver.ExecuteQuery(ctx, query)
	if err != nil {
		return nil, &ErrQuery{Query: query, Cause: err}
	}
	return result, nil
}

// Path returns the open database path.
func (s *Service) Path() string {
	return s.driver.Path()
}

// DatabaseName returns the database file name without its extension.
func (s *Service) DatabaseName() string {
	return DisplayName(s.driver.Path())
}

// DisplayName derives a short name from a database path.
func DisplayName(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
