// Package navigator builds the browse tree shown in the explorer: a
// single "Tables" category whose children are one leaf per table.
package navigator

import (
	"context"
	"slices"

	"github.com/joacominatel/litebrowse/internal/database"
)

// RootLabel is the label of the single root category node.
const RootLabel = "Tables"

// Kind distinguishes selectable tables from grouping nodes.
type Kind int

const (
	KindCategory Kind = iota
	KindLeaf
)

func (k Kind) String() string {
	if k == KindLeaf {
		return "leaf"
	}
	return "category"
}

// Node is an element of the browse tree.
type Node struct {
	Label    string
	Children []*Node
	Table    *database.Table // set on table leaves

	category bool
}

// Kind reports whether n is a leaf or a category. The root stays a
// category even when the database has no tables.
func (n *Node) Kind() Kind {
	if n.category || len(n.Children) > 0 {
		return KindCategory
	}
	return KindLeaf
}

// IsLeaf reports whether n is a selectable table node.
func (n *Node) IsLeaf() bool {
	return n.Kind() == KindLeaf
}

// TableLister lists table names. app.Service satisfies it.
type TableLister interface {
	ListTables(ctx context.Context) ([]string, error)
}

// Tree is a snapshot of the database's tables.
type Tree struct {
	Root   *Node
	lister TableLister
}

// Build lists the tables and builds a fresh tree.
func Build(ctx context.Context, lister TableLister) (*Tree, error) {
	t := &Tree{lister: lister}
	if err := t.Refresh(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Refresh discards the current nodes and rebuilds from the database. On
// error the previous snapshot is kept.
func (t *Tree) Refresh(ctx context.Context) error {
	names, err := t.lister.ListTables(ctx)
	if err != nil {
		return err
	}

	names = slices.Clone(names)
	slices.Sort(names)
	names = slices.Compact(names)

	root := &Node{Label: RootLabel, category: true}
	for _, name := range names {
		root.Children = append(root.Children, &Node{
			Label: name,
			Table: &database.Table{Name: name},
		})
	}
	t.Root = root
	return nil
}

// Leaves returns the table nodes in order.
func (t *Tree) Leaves() []*Node {
	if t == nil || t.Root == nil {
		return nil
	}
	return t.Root.Children
}

// Labels returns the table labels in order.
func (t *Tree) Labels() []string {
	leaves := t.Leaves()
	labels := make([]string, len(leaves))
	for i, n := range leaves {
		labels[i] = n.Label
	}
	return labels
}

// Find returns the leaf labelled label, or nil.
func (t *Tree) Find(label string) *Node {
	for _, n := range t.Leaves() {
		if n.Label == label {
			return n
		}
	}
	return nil
}

// Walk visits every node depth-first, parents before children.
func (t *Tree) Walk(fn func(n *Node, depth int)) {
	if t == nil || t.Root == nil {
		return
	}
	walk(t.Root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int)) {
	fn(n, depth)
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}
