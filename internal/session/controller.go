// Package session drives one database browsing session: it opens the
// file, builds the navigator tree and turns node activations into
// queries whose results replace the single displayed panel.
//
// A Controller is not safe for concurrent use. It is meant to be driven
// from one event loop, which makes at most one query outstanding.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joacominatel/litebrowse/internal/app"
	"github.com/joacominatel/litebrowse/internal/database"
	"github.com/joacominatel/litebrowse/internal/navigator"
)

// Repository is the data access the controller needs. app.Service
// implements it and is the only owner of the connection.
type Repository interface {
	Open(ctx context.Context, path string) error
	Close() error
	ListTables(ctx context.Context) ([]string, error)
	GetColumns(ctx context.Context, table string) ([]database.Column, error)
	Execute(ctx context.Context, query string) (*database.ResultSet, error)
}

// NodeActivated is delivered by the display layer when the user selects
// a navigator node.
type NodeActivated struct {
	Node *navigator.Node
}

// OutcomeKind classifies the result of handling an activation.
type OutcomeKind int

const (
	OutcomeResult OutcomeKind = iota
	OutcomeError
	OutcomeUnsupported
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeResult:
		return "result"
	case OutcomeError:
		return "error"
	case OutcomeUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Outcome reports what an activation did.
type Outcome struct {
	Kind       OutcomeKind
	Panel      *Panel
	Err        error
	DisplayErr error
}

// Controller owns the session state machine.
type Controller struct {
	repo Repository
	sink Sink
	log  zerolog.Logger
	now  func() time.Time

	state    State
	path     string
	tree     *navigator.Tree
	panel    *Panel
	lastGood *database.ResultSet
	lastSync time.Time
}

// New creates a controller in the Closed state.
func New(repo Repository, sink Sink, log zerolog.Logger) *Controller {
	if sink == nil {
		sink = Discard
	}
	return &Controller{
		repo: repo,
		sink: sink,
		log:  log.With().Str("component", "session").Logger(),
		now:  time.Now,
	}
}

// SetSink replaces the display sink.
func (c *Controller) SetSink(sink Sink) {
	if sink == nil {
		sink = Discard
	}
	c.sink = sink
}

// Start opens path and builds the navigator tree.
//
// A connection failure leaves the session Closed with nothing held
// open. A schema failure keeps the connection Open so Refresh can retry;
// the caller still owns teardown through Close.
func (c *Controller) Start(ctx context.Context, path string) error {
	if c.state != StateClosed {
		return fmt.Errorf("session already started on %s", c.path)
	}

	if err := c.repo.Open(ctx, path); err != nil {
		_ = c.repo.Close()
		c.log.Error().Err(err).Str("path", path).Msg("open database")
		return err
	}
	c.state = StateOpen
	c.path = path
	c.log.Info().Str("path", path).Msg("database opened")

	if err := c.buildTree(ctx); err != nil {
		c.log.Error().Err(err).Msg("build navigator")
		return err
	}
	return nil
}

// Refresh rebuilds the navigator tree from the database.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.state == StateClosed {
		return database.ErrConnectionClosed
	}
	if err := c.buildTree(ctx); err != nil {
		c.log.Warn().Err(err).Msg("refresh navigator")
		return err
	}
	return nil
}

func (c *Controller) buildTree(ctx context.Context) error {
	if c.tree == nil {
		tree, err := navigator.Build(ctx, c.repo)
		if err != nil {
			return err
		}
		c.tree = tree
	} else if err := c.tree.Refresh(ctx); err != nil {
		return err
	}

	c.lastSync = c.now()
	if c.state == StateOpen {
		c.state = StateBrowsingTree
	}
	c.log.Debug().Int("tables", len(c.tree.Leaves())).Msg("navigator built")
	return nil
}

// Dispatch handles a node activation synchronously.
func (c *Controller) Dispatch(ctx context.Context, msg NodeActivated) Outcome {
	if msg.Node == nil {
		return Outcome{Kind: OutcomeUnsupported, Err: app.ErrUnsupported}
	}

	switch req := navigator.Activate(msg.Node).(type) {
	case navigator.QueryRequest:
		return c.Run(ctx, req)
	case navigator.CustomQueryRequest:
		c.log.Debug().Str("node", req.Node.Label).Msg("custom query requested")
		return Outcome{
			Kind: OutcomeUnsupported,
			Err:  fmt.Errorf("custom query on %q: %w", req.Node.Label, app.ErrUnsupported),
		}
	default:
		return Outcome{Kind: OutcomeUnsupported, Err: app.ErrUnsupported}
	}
}

// Run executes req and replaces the displayed panel with its result or
// error. On error the previous good result is carried as Stale and is
// not modified.
func (c *Controller) Run(ctx context.Context, req navigator.QueryRequest) Outcome {
	if c.state == StateClosed {
		err := &app.ErrQuery{Query: req.SQL, Cause: database.ErrConnectionClosed}
		return Outcome{Kind: OutcomeError, Err: err}
	}

	prevState, prevPanel := c.state, c.panel
	c.state = StateQueryRunning

	title := "Results"
	if req.Table != "" {
		title = "Results: " + req.Table
	}
	panel := &Panel{
		ID:        uuid.New(),
		Title:     title,
		Query:     req.SQL,
		CreatedAt: c.now(),
	}

	var out Outcome
	result, err := c.repo.Execute(ctx, req.SQL)
	if err != nil {
		var qe *app.ErrQuery
		if !errors.As(err, &qe) {
			err = &app.ErrQuery{Query: req.SQL, Cause: err}
		}
		panel.Kind = PanelError
		panel.Err = err
		panel.Stale = c.lastGood
		c.state = StateErrorDisplayed
		out = Outcome{Kind: OutcomeError, Panel: panel, Err: err}
		c.log.Warn().Err(err).Str("query", req.SQL).Msg("query failed")
	} else {
		panel.Kind = PanelResult
		panel.Result = result
		c.state = StateResultDisplayed
		out = Outcome{Kind: OutcomeResult, Panel: panel}
		c.log.Info().
			Str("query", req.SQL).
			Int("rows", result.RowCount()).
			Dur("duration", result.Duration).
			Msg("query executed")
	}

	if derr := c.sink.Replace(*panel); derr != nil {
		// The sink kept its previous panel; mirror that here.
		c.state, c.panel = prevState, prevPanel
		out.DisplayErr = &app.ErrDisplay{Cause: derr}
		c.log.Error().Err(derr).Str("panel", panel.ID.String()).Msg("display result")
		return out
	}

	c.panel = panel
	if result != nil {
		c.lastGood = result
	}
	return out
}

// LoadColumns introspects the columns of a table leaf and stores them on
// the node's table descriptor.
func (c *Controller) LoadColumns(ctx context.Context, node *navigator.Node) ([]database.Column, error) {
	if node == nil || !node.IsLeaf() || node.Table == nil {
		return nil, app.ErrUnsupported
	}
	if c.state == StateClosed {
		return nil, database.ErrConnectionClosed
	}
	cols, err := c.repo.GetColumns(ctx, node.Table.Name)
	if err != nil {
		return nil, err
	}
	node.Table.Columns = cols
	return cols, nil
}

// Dismiss clears the displayed panel and returns to browsing.
func (c *Controller) Dismiss() error {
	if c.panel == nil {
		return nil
	}
	if err := c.sink.Replace(Panel{Kind: PanelNone}); err != nil {
		return &app.ErrDisplay{Cause: err}
	}
	c.panel = nil
	if c.state == StateResultDisplayed || c.state == StateErrorDisplayed {
		c.state = StateBrowsingTree
	}
	return nil
}

// Close tears the session down from any state. It is safe to call more
// than once.
func (c *Controller) Close() error {
	err := c.repo.Close()
	if c.state != StateClosed {
		c.log.Info().Str("path", c.path).Msg("session closed")
	}
	c.state = StateClosed
	c.tree = nil
	c.panel = nil
	c.lastGood = nil
	return err
}

// State returns the current session state.
func (c *Controller) State() State { return c.state }

// Tree returns the current navigator tree, or nil before it is built.
func (c *Controller) Tree() *navigator.Tree { return c.tree }

// Panel returns the displayed panel, or nil.
func (c *Controller) Panel() *Panel { return c.panel }

// Path returns the database path of the session.
func (c *Controller) Path() string { return c.path }

// LastSync returns when the tree was last rebuilt.
func (c *Controller) LastSync() time.Time { return c.lastSync }
