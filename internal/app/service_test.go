package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/litebrowse/internal/database"
)

type stubDriver struct {
	openErr  error
	listErr  error
	colsErr  error
	queryErr error
	opened   string
}

func (d *stubDriver) Open(_ context.Context, path string) error {
	if d.openErr != nil {
		return d.openErr
	}
	d.opened = path
	return nil
}
func (d *stubDriver) Close() error { d.opened = ""; return nil }
func (d *stubDriver) IsOpen() bool { return d.opened != "" }
func (d *stubDriver) Path() string { return d.opened }
func (d *stubDriver) ListTables(context.Context) ([]string, error) {
	return []string{"a"}, d.listErr
}
func (d *stubDriver) GetColumns(context.Context, string) ([]database.Column, error) {
	return nil, d.colsErr
}
func (d *stubDriver) ExecuteQuery(_ context.Context, q string) (*database.ResultSet, error) {
	if d.queryErr != nil {
		return nil, d.queryErr
	}
	return &database.ResultSet{Query: q}, nil
}

func TestService_OpenEmptyPath(t *testing.T) {
	s := NewService(&stubDriver{})
	err := s.Open(context.Background(), "  ")

	var ce *ErrConnection
	require.ErrorAs(t, err, &ce)
	assert.False(t, s.IsOpen())
}

func TestService_OpenError(t *testing.T) {
	s := NewService(&stubDriver{openErr: errors.New("file is not a database")})
	err := s.Open(context.Background(), "x.db")

	var ce *ErrConnection
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "x.db", ce.Path)
	assert.Contains(t, err.Error(), "file is not a database")
}

func TestService_ListTablesErrors(t *testing.T) {
	s := NewService(&stubDriver{listErr: database.ErrConnectionClosed})
	_, err := s.ListTables(context.Background())
	require.ErrorIs(t, err, database.ErrConnectionClosed)
	var se *ErrSchema
	assert.False(t, errors.As(err, &se))

	s = NewService(&stubDriver{listErr: errors.New("malformed")})
	_, err = s.ListTables(context.Background())
	require.ErrorAs(t, err, &se)
}

func TestService_GetColumnsError(t *testing.T) {
	s := NewService(&stubDriver{colsErr: database.ErrNoSuchTable})
	_, err := s.GetColumns(context.Background(), "ghost")

	var se *ErrSchema
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "ghost", se.Table)
	require.ErrorIs(t, err, database.ErrNoSuchTable)
}

func TestService_Execute(t *testing.T) {
	s := NewService(&stubDriver{})
	rs, err := s.Execute(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", rs.Query)

	s = NewService(&stubDriver{queryErr: errors.New("no such table: x")})
	_, err = s.Execute(context.Background(), "SELECT * FROM x")
	var qe *ErrQuery
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "SELECT * FROM x", qe.Query)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "chinook", DisplayName("/data/chinook.sqlite"))
	assert.Equal(t, "notes", DisplayName("notes"))
	assert.Equal(t, ".hidden", DisplayName("/x/.hidden"))
	assert.Equal(t, "", DisplayName(""))
}
