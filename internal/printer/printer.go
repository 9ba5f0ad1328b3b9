// Package printer renders session panels as plain-text tables for
// non-interactive use.
package printer

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/joacominatel/litebrowse/internal/database"
	"github.com/joacominatel/litebrowse/internal/navigator"
	"github.com/joacominatel/litebrowse/internal/session"
)

// Printer is a session.Sink writing each panel to an io.Writer.
type Printer struct {
	out          io.Writer
	maxCellWidth int
}

// New creates a printer. A maxCellWidth of zero disables truncation.
func New(out io.Writer, maxCellWidth int) *Printer {
	return &Printer{out: out, maxCellWidth: maxCellWidth}
}

// errWriter remembers the first write error, since tablewriter drops
// them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

// Replace prints panel. Printed output cannot be withdrawn, so replacing
// simply appends the new panel.
func (p *Printer) Replace(panel session.Panel) error {
	w := &errWriter{w: p.out}

	switch panel.Kind {
	case session.PanelNone:
		return nil
	case session.PanelError:
		fmt.Fprintf(w, "%s\n", panel.Title)
		fmt.Fprintf(w, "ERROR: %v\n", panel.Err)
		if panel.Query != "" {
			fmt.Fprintf(w, "query: %s\n", panel.Query)
		}
	case session.PanelResult:
		fmt.Fprintf(w, "%s\n", panel.Title)
		if panel.Query != "" {
			fmt.Fprintf(w, "query: %s\n", panel.Query)
		}
		p.writeResult(w, panel.Result)
	default:
		return fmt.Errorf("unknown panel kind %d", panel.Kind)
	}
	return w.err
}

func (p *Printer) writeResult(w io.Writer, rs *database.ResultSet) {
	if len(rs.Columns) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader(rs.ColumnNames())
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)

		for _, row := range rs.Rows {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = Truncate(v.String(), p.maxCellWidth)
			}
			table.Append(cells)
		}
		table.Render()
	}

	if rs.RowCount() == 0 {
		fmt.Fprintf(w, "QUERY OK: 0 rows returned (%s)\n", rs.Duration.Round(time.Microsecond))
		return
	}
	fmt.Fprintf(w, "%s rows in %s\n", humanize.Comma(int64(rs.RowCount())), rs.Duration.Round(time.Microsecond))
}

// Tables prints the table names of tree, one per line.
func (p *Printer) Tables(tree *navigator.Tree) error {
	w := &errWriter{w: p.out}
	if tree == nil {
		return nil
	}
	for _, label := range tree.Labels() {
		fmt.Fprintln(w, label)
	}
	return w.err
}

// Truncate shortens s to at most width runes, marking the cut with an
// ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
