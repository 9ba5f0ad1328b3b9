package navigator

import "github.com/joacominatel/litebrowse/internal/database"

// Request is the outcome of activating a node.
type Request interface {
	isRequest()
}

// QueryRequest asks for the default browse query of a table.
type QueryRequest struct {
	Table string
	SQL   string
}

// CustomQueryRequest is produced by category nodes. It is an extension
// point with no behavior yet.
type CustomQueryRequest struct {
	Node *Node
}

func (QueryRequest) isRequest()       {}
func (CustomQueryRequest) isRequest() {}

// Activate dispatches on the node kind.
func Activate(n *Node) Request {
	if n.IsLeaf() {
		return QueryRequest{
			Table: n.Label,
			SQL:   database.SelectAll(n.Label),
		}
	}
	return CustomQueryRequest{Node: n}
}
