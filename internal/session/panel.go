package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/joacominatel/litebrowse/internal/database"
)

// PanelKind identifies what a panel displays.
type PanelKind int

const (
	PanelNone PanelKind = iota
	PanelResult
	PanelError
)

// Panel is the single active result display of a session.
type Panel struct {
	ID        uuid.UUID
	Kind      PanelKind
	Title     string
	Query     string
	Result    *database.ResultSet // PanelResult only
	Err       error               // PanelError only
	Stale     *database.ResultSet // last good result, shown under an error
	CreatedAt time.Time
}

// Sink displays panels. Replace swaps the shown panel for p; an error
// means the previous panel is still displayed.
type Sink interface {
	Replace(p Panel) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Panel) error

func (f SinkFunc) Replace(p Panel) error {
	return f(p)
}

// Discard is a Sink that shows nothing.
var Discard Sink = SinkFunc(func(Panel) error { return nil })
