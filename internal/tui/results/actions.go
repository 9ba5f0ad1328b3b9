package results

import (
	"encoding/csv"
	"encoding/json"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joacominatel/litebrowse/internal/database"
	"github.com/joacominatel/litebrowse/internal/session"
)

// StatusNotifyMsg carries the outcome of a copy action to the status bar.
type StatusNotifyMsg struct {
	Message string
}

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

func (m Model) selectedRow() ([]database.Value, bool) {
	if m.panel.Kind != session.PanelResult {
		return nil, false
	}
	rs := m.panel.Result
	if rs == nil || m.cursorY < 0 || m.cursorY >= len(rs.Rows) {
		return nil, false
	}
	return rs.Rows[m.cursorY], true
}

func (m Model) selectedCell() (database.Value, bool) {
	row, ok := m.selectedRow()
	if !ok || m.cursorX < 0 || m.cursorX >= len(row) {
		return database.Null, false
	}
	return row[m.cursorX], true
}

func copyCmd(text, done string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return StatusNotifyMsg{Message: "Copy failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: done}
	}
}

func notify(msg string) tea.Cmd {
	return func() tea.Msg { return StatusNotifyMsg{Message: msg} }
}

func (m Model) copyCellCmd() tea.Cmd {
	v, ok := m.selectedCell()
	if !ok {
		return notify("Nothing to copy")
	}
	val := v.String()
	return copyCmd(val, "Copied: "+truncateStatus(val, 40))
}

func (m Model) copyRowJSONCmd() tea.Cmd {
	row, ok := m.selectedRow()
	if !ok {
		return notify("No row to copy")
	}
	return copyCmd(rowToJSON(m.panel.Result.Columns, row), "Copied row as JSON")
}

func (m Model) copyRowCSVCmd() tea.Cmd {
	row, ok := m.selectedRow()
	if !ok {
		return notify("No row to copy")
	}
	return copyCmd(rowToCSV(m.panel.Result.Columns, row), "Copied row as CSV")
}

// rowToJSON preserves column order unlike map marshaling
func rowToJSON(columns []database.Column, row []database.Value) string {
	var b strings.Builder
	b.WriteString("{")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		key, _ := json.Marshal(col.Name)
		b.Write(key)
		b.WriteString(": ")
		if i >= len(row) {
			b.WriteString("null")
			continue
		}
		b.Write(jsonValue(row[i]))
	}
	b.WriteString("}")
	return b.String()
}

func jsonValue(v database.Value) []byte {
	var native any
	switch v.Kind {
	case database.KindNull:
		return []byte("null")
	case database.KindBlob, database.KindDateTime, database.KindOther:
		native = v.String()
	default:
		native = v.Native()
	}
	out, err := json.Marshal(native)
	if err != nil {
		// NaN and Inf have no JSON form
		out, _ = json.Marshal(v.String())
	}
	return out
}

func rowToCSV(columns []database.Column, row []database.Value) string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	cells := make([]string, len(row))
	for i, v := range row {
		if !v.IsNull() {
			cells[i] = v.String()
		}
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(names)
	_ = w.Write(cells)
	w.Flush()
	return b.String()
}

func truncateStatus(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
