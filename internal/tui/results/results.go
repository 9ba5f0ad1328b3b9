package results

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/joacominatel/litebrowse/internal/database"
	"github.com/joacominatel/litebrowse/internal/session"
	"github.com/joacominatel/litebrowse/internal/tui/theme"
)

const defaultMaxCellWidth = 40

// Model is the query results component.
type Model struct {
	panel        session.Panel
	width        int
	height       int
	focused      bool
	cursorY      int
	cursorX      int
	scrollY      int
	colWidths    []int
	maxCellWidth int
}

// New creates a new results model. Cells wider than maxCellWidth are
// truncated; zero uses the default.
func New(maxCellWidth int) Model {
	if maxCellWidth <= 0 {
		maxCellWidth = defaultMaxCellWidth
	}
	return Model{maxCellWidth: maxCellWidth}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// Focused returns whether the results pane has focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetPanel replaces the displayed panel and resets the cursor.
func (m *Model) SetPanel(p session.Panel) {
	m.panel = p
	m.cursorY, m.cursorX, m.scrollY = 0, 0, 0
	m.calculateColumnWidths()
}

// Panel returns the displayed panel.
func (m Model) Panel() session.Panel {
	return m.panel
}

// table returns the result set to draw: the panel's own result, or the
// stale one under an error.
func (m Model) table() *database.ResultSet {
	switch m.panel.Kind {
	case session.PanelResult:
		return m.panel.Result
	case session.PanelError:
		return m.panel.Stale
	}
	return nil
}

func (m *Model) calculateColumnWidths() {
	rs := m.table()
	if rs == nil || len(rs.Columns) == 0 {
		m.colWidths = nil
		return
	}

	m.colWidths = make([]int, len(rs.Columns))

	// display width, not byte length
	for i, col := range rs.Columns {
		m.colWidths[i] = lipgloss.Width(col.Name)
	}

	for _, row := range rs.Rows {
		for i, cell := range row {
			w := lipgloss.Width(cell.String())
			if i < len(m.colWidths) && w > m.colWidths[i] {
				m.colWidths[i] = w
			}
		}
	}

	for i := range m.colWidths {
		if m.colWidths[i] < 1 {
			m.colWidths[i] = 1
		}
		if m.colWidths[i] > m.maxCellWidth {
			m.colWidths[i] = m.maxCellWidth
		}
	}
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	rows := m.table().RowCount()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursorY > 0 {
				m.cursorY--
			}
		case "down", "j":
			if m.cursorY < rows-1 {
				m.cursorY++
			}
		case "left", "h":
			if m.cursorX > 0 {
				m.cursorX--
			}
		case "right", "l":
			if m.cursorX < len(m.colWidths)-1 {
				m.cursorX++
			}
		case "pgup":
			m.cursorY = max(0, m.cursorY-m.visibleRows())
		case "pgdown":
			m.cursorY = max(0, min(rows-1, m.cursorY+m.visibleRows()))
		case "home", "g":
			m.cursorY = 0
		case "end", "G":
			m.cursorY = max(0, rows-1)
		case "y":
			return m, m.copyCellCmd()
		case "Y":
			return m, m.copyRowJSONCmd()
		case "c":
			return m, m.copyRowCSVCmd()
		}
		m.clampScroll()
	}

	return m, nil
}

func (m Model) visibleRows() int {
	v := m.height - 5 // title, header, separator, footer
	if m.panel.Kind == session.PanelError {
		v -= 2
	}
	return max(1, v)
}

func (m *Model) clampScroll() {
	visible := m.visibleRows()
	if m.cursorY < m.scrollY {
		m.scrollY = m.cursorY
	}
	if m.cursorY >= m.scrollY+visible {
		m.scrollY = m.cursorY - visible + 1
	}
}

// View renders the results pane.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := m.panel.Title
	if title == "" {
		title = "Results"
	}

	switch m.panel.Kind {
	case session.PanelError:
		var b strings.Builder
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
		b.WriteString(theme.StyleError.Render("  Error: " + m.panel.Err.Error()))
		if m.panel.Stale != nil {
			b.WriteString("\n")
			b.WriteString(theme.StyleMuted.Render("  Showing previous result: " + m.panel.Stale.Query))
			b.WriteString("\n")
			b.WriteString(m.renderTable(m.panel.Stale))
		}
		return b.String()

	case session.PanelResult:
		rs := m.panel.Result
		stats := fmt.Sprintf("%s row(s) | %s",
			humanize.Comma(int64(rs.RowCount())),
			rs.Duration.Round(time.Microsecond).String(),
		)
		header := titleStyle.Render(title) + "  " + theme.StyleMuted.Render(stats)

		if rs.RowCount() == 0 {
			return header + "\n" + theme.StyleSuccess.Render("  QUERY OK: 0 rows returned")
		}
		return header + "\n" + m.renderTable(rs)

	default:
		return titleStyle.Render(title) + "\n" +
			theme.StyleMuted.Render("  Select a table to see its rows")
	}
}

func (m Model) renderTable(rs *database.ResultSet) string {
	if len(rs.Columns) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(rs.ColumnNames()))
	b.WriteString("\n")
	b.WriteString(m.renderSeparator())

	visible := m.visibleRows()
	for i := m.scrollY; i < len(rs.Rows) && i < m.scrollY+visible; i++ {
		b.WriteString("\n")
		row := rs.Rows[i]
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.String()
		}
		selected := -1
		if m.focused && i == m.cursorY && m.panel.Kind == session.PanelResult {
			selected = m.cursorX
		}
		b.WriteString(m.renderRow(cells, row, selected))
	}

	return b.String()
}

func (m Model) renderRow(cells []string, values []database.Value, selected int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		display := m.fit(cell, i)
		switch {
		case i == selected:
			parts[i] = theme.StyleSelected.Render(display)
		case values[i].IsNull():
			parts[i] = theme.StyleNull.Render(display)
		default:
			parts[i] = display
		}
	}
	return "  " + strings.Join(parts, " │ ")
}

func (m Model) renderHeader(names []string) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorPrimary)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = style.Render(m.fit(name, i))
	}
	return "  " + strings.Join(parts, " │ ")
}

// fit truncates or pads cell to the width of column i.
func (m Model) fit(cell string, i int) string {
	width := 10
	if i < len(m.colWidths) {
		width = m.colWidths[i]
	}
	if width < 1 {
		width = 1
	}

	display := cell
	displayWidth := lipgloss.Width(display)

	if displayWidth > width {
		runes := []rune(display)
		if width > 1 && len(runes) > 0 {
			trimmed := runes
			for lipgloss.Width(string(trimmed)) >= width && len(trimmed) > 0 {
				trimmed = trimmed[:len(trimmed)-1]
			}
			display = string(trimmed) + "…"
		} else {
			display = "…"
		}
		displayWidth = lipgloss.Width(display)
	}

	// never pad negative
	if pad := width - displayWidth; pad > 0 {
		display += strings.Repeat(" ", pad)
	}
	return display
}

func (m Model) renderSeparator() string {
	parts := make([]string, len(m.colWidths))
	for i, w := range m.colWidths {
		if w < 1 {
			w = 1
		}
		parts[i] = strings.Repeat("─", w)
	}
	return "  " + lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Join(parts, "─┼─"))
}
