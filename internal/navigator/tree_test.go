package navigator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	tables []string
	err    error
	calls  int
}

func (f *fakeLister) ListTables(context.Context) ([]string, error) {
	f.calls++
	return f.tables, f.err
}

func TestBuild(t *testing.T) {
	tree, err := Build(context.Background(), &fakeLister{tables: []string{"users", "orders"}})
	require.NoError(t, err)

	require.NotNil(t, tree.Root)
	assert.Equal(t, RootLabel, tree.Root.Label)
	assert.Equal(t, KindCategory, tree.Root.Kind())
	assert.Equal(t, []string{"orders", "users"}, tree.Labels())

	for _, leaf := range tree.Leaves() {
		assert.True(t, leaf.IsLeaf())
		assert.Empty(t, leaf.Children)
		require.NotNil(t, leaf.Table)
		assert.Equal(t, leaf.Label, leaf.Table.Name)
	}
}

func TestBuild_EmptyDatabase(t *testing.T) {
	tree, err := Build(context.Background(), &fakeLister{})
	require.NoError(t, err)

	assert.Empty(t, tree.Root.Children)
	assert.Equal(t, KindCategory, tree.Root.Kind(), "root stays a category with no tables")
	assert.Empty(t, tree.Leaves())
}

func TestBuild_DeduplicatesAndSorts(t *testing.T) {
	tree, err := Build(context.Background(), &fakeLister{tables: []string{"b", "a", "b", "C"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "a", "b"}, tree.Labels())
}

func TestBuild_Error(t *testing.T) {
	tree, err := Build(context.Background(), &fakeLister{err: errors.New("boom")})
	require.Error(t, err)
	assert.Nil(t, tree)
}

func TestRefresh_Idempotent(t *testing.T) {
	lister := &fakeLister{tables: []string{"x", "a", "m"}}
	tree, err := Build(context.Background(), lister)
	require.NoError(t, err)

	first := tree.Root
	require.NoError(t, tree.Refresh(context.Background()))
	second := tree.Root

	assert.NotSame(t, first, second, "refresh rebuilds instead of patching")
	assert.Equal(t, first, second)
	assert.Equal(t, 2, lister.calls)
}

func TestRefresh_KeepsSnapshotOnError(t *testing.T) {
	lister := &fakeLister{tables: []string{"a"}}
	tree, err := Build(context.Background(), lister)
	require.NoError(t, err)

	lister.err = errors.New("locked")
	require.Error(t, tree.Refresh(context.Background()))
	assert.Equal(t, []string{"a"}, tree.Labels())
}

func TestRefresh_PicksUpChanges(t *testing.T) {
	lister := &fakeLister{tables: []string{"a"}}
	tree, err := Build(context.Background(), lister)
	require.NoError(t, err)

	lister.tables = []string{"a", "b"}
	require.NoError(t, tree.Refresh(context.Background()))
	assert.Equal(t, []string{"a", "b"}, tree.Labels())
}

func TestFindAndWalk(t *testing.T) {
	tree, err := Build(context.Background(), &fakeLister{tables: []string{"a", "b"}})
	require.NoError(t, err)

	assert.Equal(t, "b", tree.Find("b").Label)
	assert.Nil(t, tree.Find("zzz"))

	var visited []string
	var depths []int
	tree.Walk(func(n *Node, depth int) {
		visited = append(visited, n.Label)
		depths = append(depths, depth)
	})
	assert.Equal(t, []string{RootLabel, "a", "b"}, visited)
	assert.Equal(t, []int{0, 1, 1}, depths)
}

func TestActivate_Leaf(t *testing.T) {
	tree, err := Build(context.Background(), &fakeLister{tables: []string{"Users"}})
	require.NoError(t, err)

	req := Activate(tree.Find("Users"))
	qr, ok := req.(QueryRequest)
	require.True(t, ok)
	assert.Equal(t, "Users", qr.Table)
	assert.Equal(t, `SELECT * FROM "Users"`, qr.SQL)
}

func TestActivate_LeafEscapesQuotes(t *testing.T) {
	req := Activate(&Node{Label: `we"ird`})
	qr, ok := req.(QueryRequest)
	require.True(t, ok)
	assert.Equal(t, `SELECT * FROM "we""ird"`, qr.SQL)
}

func TestActivate_Category(t *testing.T) {
	tree, err := Build(context.Background(), &fakeLister{tables: []string{"a"}})
	require.NoError(t, err)

	req := Activate(tree.Root)
	cr, ok := req.(CustomQueryRequest)
	require.True(t, ok)
	assert.Same(t, tree.Root, cr.Node)
}

func TestActivate_EmptyRootIsCategory(t *testing.T) {
	tree, err := Build(context.Background(), &fakeLister{})
	require.NoError(t, err)

	_, ok := Activate(tree.Root).(CustomQueryRequest)
	assert.True(t, ok)
}
