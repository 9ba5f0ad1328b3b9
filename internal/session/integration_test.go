package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/litebrowse/internal/app"
	"github.com/joacominatel/litebrowse/internal/database/sqlite"
)

func newSQLiteFile(t *testing.T, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	db, err := sqlx.Connect("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("PRAGMA user_version = 1")
	require.NoError(t, err)
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err, s)
	}
	return path
}

func TestSession_EndToEnd(t *testing.T) {
	path := newSQLiteFile(t,
		"CREATE TABLE Users (id INTEGER, name TEXT)",
		"CREATE TABLE Items (id INTEGER, note TEXT)",
		"INSERT INTO Items VALUES (1, NULL)",
	)
	svc := app.NewService(sqlite.New())
	sink := &recordingSink{}
	c := New(svc, sink, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, c.Start(ctx, path))
	defer c.Close()
	assert.Equal(t, []string{"Items", "Users"}, c.Tree().Labels())

	out := c.Dispatch(ctx, NodeActivated{Node: c.Tree().Find("Users")})
	require.Equal(t, OutcomeResult, out.Kind)
	assert.Equal(t, `SELECT * FROM "Users"`, out.Panel.Result.Query)
	assert.Equal(t, 0, out.Panel.Result.RowCount())

	cols, err := svc.GetColumns(ctx, "Users")
	require.NoError(t, err)
	assert.Equal(t, cols, out.Panel.Result.Columns)

	out = c.Dispatch(ctx, NodeActivated{Node: c.Tree().Find("Items")})
	require.Equal(t, OutcomeResult, out.Kind)
	require.Equal(t, 1, out.Panel.Result.RowCount())
	assert.True(t, out.Panel.Result.Rows[0][1].IsNull())
}

func TestSession_InvalidPath(t *testing.T) {
	svc := app.NewService(sqlite.New())
	c := New(svc, nil, zerolog.Nop())

	err := c.Start(context.Background(), filepath.Join(t.TempDir(), "missing.db"))
	var ce *app.ErrConnection
	require.ErrorAs(t, err, &ce)

	assert.Nil(t, c.Tree())
	assert.False(t, svc.IsOpen())
	assert.Equal(t, StateClosed, c.State())
}

func TestSession_CloseReleasesConnection(t *testing.T) {
	svc := app.NewService(sqlite.New())
	c := New(svc, nil, zerolog.Nop())

	require.NoError(t, c.Start(context.Background(), newSQLiteFile(t)))
	require.True(t, svc.IsOpen())
	require.NoError(t, c.Close())
	assert.False(t, svc.IsOpen())
}
