package session

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/litebrowse/internal/app"
	"github.com/joacominatel/litebrowse/internal/database"
	"github.com/joacominatel/litebrowse/internal/navigator"
)

// ---- fakes ----

type fakeRepo struct {
	open     bool
	openErr  error
	listErr  error
	tables   []string
	results  map[string]*database.ResultSet
	columns  map[string][]database.Column
	executed []string
	closeCnt int
}

func (r *fakeRepo) Open(_ context.Context, path string) error {
	if path == "" {
		return &app.ErrConnection{Cause: errors.New("no database file selected")}
	}
	if r.openErr != nil {
		return &app.ErrConnection{Path: path, Cause: r.openErr}
	}
	r.open = true
	return nil
}

func (r *fakeRepo) Close() error {
	r.closeCnt++
	r.open = false
	return nil
}

func (r *fakeRepo) ListTables(context.Context) ([]string, error) {
	if !r.open {
		return nil, database.ErrConnectionClosed
	}
	if r.listErr != nil {
		return nil, &app.ErrSchema{Cause: r.listErr}
	}
	return r.tables, nil
}

func (r *fakeRepo) GetColumns(_ context.Context, table string) ([]database.Column, error) {
	cols, ok := r.columns[table]
	if !ok {
		return nil, &app.ErrSchema{Table: table, Cause: database.ErrNoSuchTable}
	}
	return cols, nil
}

func (r *fakeRepo) Execute(_ context.Context, query string) (*database.ResultSet, error) {
	r.executed = append(r.executed, query)
	rs, ok := r.results[query]
	if !ok {
		return nil, &app.ErrQuery{Query: query, Cause: errors.New(`near "SELEKT": syntax error`)}
	}
	return rs, nil
}

type recordingSink struct {
	panels []Panel
	err    error
}

func (s *recordingSink) Replace(p Panel) error {
	if s.err != nil {
		return s.err
	}
	s.panels = append(s.panels, p)
	return nil
}

func (s *recordingSink) current() Panel {
	return s.panels[len(s.panels)-1]
}

func usersRepo() *fakeRepo {
	q := `SELECT * FROM "Users"`
	cols := []database.Column{{Name: "id", DeclaredType: "INTEGER"}, {Name: "name", DeclaredType: "TEXT"}}
	return &fakeRepo{
		tables: []string{"Users", "Items"},
		columns: map[string][]database.Column{
			"Users": cols,
		},
		results: map[string]*database.ResultSet{
			q: {Query: q, Columns: cols, Rows: [][]database.Value{}},
			`SELECT * FROM "Items"`: {
				Query:   `SELECT * FROM "Items"`,
				Columns: []database.Column{{Name: "id"}, {Name: "note"}},
				Rows:    [][]database.Value{{database.IntegerValue(1), database.Null}},
			},
		},
	}
}

func started(t *testing.T, repo *fakeRepo, sink Sink) *Controller {
	t.Helper()
	c := New(repo, sink, zerolog.Nop())
	require.NoError(t, c.Start(context.Background(), "test.db"))
	return c
}

// ---- tests ----

func TestStart(t *testing.T) {
	c := started(t, usersRepo(), nil)

	assert.Equal(t, StateBrowsingTree, c.State())
	assert.Equal(t, "test.db", c.Path())
	assert.Equal(t, []string{"Items", "Users"}, c.Tree().Labels())
	assert.False(t, c.LastSync().IsZero())
	assert.Nil(t, c.Panel())
}

func TestStart_EmptyDatabase(t *testing.T) {
	c := started(t, &fakeRepo{}, nil)

	assert.Equal(t, StateBrowsingTree, c.State())
	assert.Empty(t, c.Tree().Root.Children)
}

func TestStart_ConnectionError(t *testing.T) {
	repo := &fakeRepo{openErr: errors.New("unable to open database file")}
	c := New(repo, nil, zerolog.Nop())

	err := c.Start(context.Background(), "/no/such/file.db")
	var ce *app.ErrConnection
	require.ErrorAs(t, err, &ce)

	assert.Equal(t, StateClosed, c.State())
	assert.Nil(t, c.Tree())
	assert.False(t, repo.open)
}

func TestStart_EmptyPathFailsFast(t *testing.T) {
	c := New(&fakeRepo{}, nil, zerolog.Nop())

	err := c.Start(context.Background(), "")
	var ce *app.ErrConnection
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, StateClosed, c.State())
}

func TestStart_SchemaErrorKeepsConnection(t *testing.T) {
	repo := usersRepo()
	repo.listErr = errors.New("database is locked")
	c := New(repo, nil, zerolog.Nop())

	err := c.Start(context.Background(), "test.db")
	var se *app.ErrSchema
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StateOpen, c.State())
	assert.True(t, repo.open)
	assert.Nil(t, c.Tree())

	// retry succeeds once the lock is gone
	repo.listErr = nil
	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, StateBrowsingTree, c.State())
	assert.Equal(t, []string{"Items", "Users"}, c.Tree().Labels())

	require.NoError(t, c.Close())
	assert.False(t, repo.open)
}

func TestStart_Twice(t *testing.T) {
	c := started(t, usersRepo(), nil)
	require.Error(t, c.Start(context.Background(), "other.db"))
}

func TestDispatch_Leaf(t *testing.T) {
	sink := &recordingSink{}
	c := started(t, usersRepo(), sink)

	out := c.Dispatch(context.Background(), NodeActivated{Node: c.Tree().Find("Users")})
	require.Equal(t, OutcomeResult, out.Kind)
	require.NoError(t, out.Err)
	assert.Equal(t, StateResultDisplayed, c.State())

	p := sink.current()
	assert.Equal(t, PanelResult, p.Kind)
	assert.Equal(t, `SELECT * FROM "Users"`, p.Query)
	assert.Equal(t, `SELECT * FROM "Users"`, p.Result.Query)
	assert.Equal(t, "Results: Users", p.Title)
	assert.Len(t, p.Result.Columns, 2)
	assert.Equal(t, 0, p.Result.RowCount())
	assert.Equal(t, p.ID, c.Panel().ID)
}

func TestDispatch_NullCell(t *testing.T) {
	sink := &recordingSink{}
	c := started(t, usersRepo(), sink)

	out := c.Dispatch(context.Background(), NodeActivated{Node: c.Tree().Find("Items")})
	require.Equal(t, OutcomeResult, out.Kind)

	row := sink.current().Result.Rows[0]
	assert.True(t, row[1].IsNull())
	assert.NotEqual(t, database.TextValue("NULL"), row[1])
}

func TestDispatch_SupersedesPreviousPanel(t *testing.T) {
	sink := &recordingSink{}
	c := started(t, usersRepo(), sink)
	ctx := context.Background()

	first := c.Dispatch(ctx, NodeActivated{Node: c.Tree().Find("Users")})
	second := c.Dispatch(ctx, NodeActivated{Node: c.Tree().Find("Items")})

	assert.NotEqual(t, first.Panel.ID, second.Panel.ID)
	assert.Equal(t, second.Panel.ID, c.Panel().ID)
	assert.Equal(t, "Results: Items", c.Panel().Title)
	assert.Len(t, sink.panels, 2)
}

func TestDispatch_CategoryNeverExecutes(t *testing.T) {
	repo := usersRepo()
	sink := &recordingSink{}
	c := started(t, repo, sink)

	out := c.Dispatch(context.Background(), NodeActivated{Node: c.Tree().Root})
	assert.Equal(t, OutcomeUnsupported, out.Kind)
	require.ErrorIs(t, out.Err, app.ErrUnsupported)

	assert.Empty(t, repo.executed)
	assert.Empty(t, sink.panels)
	assert.Equal(t, StateBrowsingTree, c.State())
}

func TestDispatch_NilNode(t *testing.T) {
	repo := usersRepo()
	c := started(t, repo, nil)

	out := c.Dispatch(context.Background(), NodeActivated{})
	assert.Equal(t, OutcomeUnsupported, out.Kind)
	assert.Empty(t, repo.executed)
}

func TestRun_QueryErrorKeepsPriorResult(t *testing.T) {
	sink := &recordingSink{}
	c := started(t, usersRepo(), sink)
	ctx := context.Background()

	good := c.Dispatch(ctx, NodeActivated{Node: c.Tree().Find("Items")})
	require.Equal(t, OutcomeResult, good.Kind)
	before := *good.Panel.Result

	out := c.Run(ctx, navigator.QueryRequest{SQL: "SELEKT * FROM Users"})
	require.Equal(t, OutcomeError, out.Kind)

	var qe *app.ErrQuery
	require.ErrorAs(t, out.Err, &qe)
	assert.Equal(t, "SELEKT * FROM Users", qe.Query)
	assert.Equal(t, StateErrorDisplayed, c.State())

	p := sink.current()
	assert.Equal(t, PanelError, p.Kind)
	assert.Contains(t, p.Err.Error(), "syntax error")
	assert.Nil(t, p.Result)
	require.NotNil(t, p.Stale)
	assert.Equal(t, before, *p.Stale, "prior result left untouched")

	// a successful query replaces the error panel
	next := c.Dispatch(ctx, NodeActivated{Node: c.Tree().Find("Users")})
	assert.Equal(t, OutcomeResult, next.Kind)
	assert.Equal(t, StateResultDisplayed, c.State())
	assert.Equal(t, PanelResult, sink.current().Kind)
}

func TestRun_DisplayErrorIsNonFatal(t *testing.T) {
	sink := &recordingSink{}
	c := started(t, usersRepo(), sink)
	ctx := context.Background()

	c.Dispatch(ctx, NodeActivated{Node: c.Tree().Find("Users")})
	shown := c.Panel()

	sink.err = errors.New("terminal gone")
	out := c.Dispatch(ctx, NodeActivated{Node: c.Tree().Find("Items")})

	var de *app.ErrDisplay
	require.ErrorAs(t, out.DisplayErr, &de)
	assert.Equal(t, OutcomeResult, out.Kind)
	assert.Same(t, shown, c.Panel(), "controller keeps the panel the sink still shows")
	assert.Equal(t, StateResultDisplayed, c.State())
}

func TestRun_Closed(t *testing.T) {
	c := New(usersRepo(), nil, zerolog.Nop())

	out := c.Run(context.Background(), navigator.QueryRequest{SQL: `SELECT * FROM "Users"`})
	assert.Equal(t, OutcomeError, out.Kind)
	require.ErrorIs(t, out.Err, database.ErrConnectionClosed)
}

func TestRefresh_Twice(t *testing.T) {
	c := started(t, usersRepo(), nil)
	ctx := context.Background()

	require.NoError(t, c.Refresh(ctx))
	a := c.Tree().Labels()
	require.NoError(t, c.Refresh(ctx))
	b := c.Tree().Labels()
	assert.Equal(t, a, b)
}

func TestRefresh_Closed(t *testing.T) {
	c := New(usersRepo(), nil, zerolog.Nop())
	require.ErrorIs(t, c.Refresh(context.Background()), database.ErrConnectionClosed)
}

func TestLoadColumns(t *testing.T) {
	c := started(t, usersRepo(), nil)
	ctx := context.Background()

	node := c.Tree().Find("Users")
	cols, err := c.LoadColumns(ctx, node)
	require.NoError(t, err)
	assert.Equal(t, cols, node.Table.Columns)

	_, err = c.LoadColumns(ctx, c.Tree().Find("Items"))
	var se *app.ErrSchema
	require.ErrorAs(t, err, &se)

	_, err = c.LoadColumns(ctx, c.Tree().Root)
	require.ErrorIs(t, err, app.ErrUnsupported)
}

func TestDismiss(t *testing.T) {
	sink := &recordingSink{}
	c := started(t, usersRepo(), sink)

	c.Dispatch(context.Background(), NodeActivated{Node: c.Tree().Find("Users")})
	require.NoError(t, c.Dismiss())

	assert.Nil(t, c.Panel())
	assert.Equal(t, StateBrowsingTree, c.State())
	assert.Equal(t, PanelNone, sink.current().Kind)

	// nothing to dismiss
	require.NoError(t, c.Dismiss())
}

func TestClose(t *testing.T) {
	repo := usersRepo()
	c := started(t, repo, nil)
	c.Dispatch(context.Background(), NodeActivated{Node: c.Tree().Find("Users")})

	require.NoError(t, c.Close())
	assert.Equal(t, StateClosed, c.State())
	assert.Nil(t, c.Tree())
	assert.Nil(t, c.Panel())
	assert.False(t, repo.open)

	require.NoError(t, c.Close())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "browsing", StateBrowsingTree.String())
	assert.Equal(t, "running", StateQueryRunning.String())
	assert.Equal(t, "unknown", State(99).String())
}
