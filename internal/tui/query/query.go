// Package query is the read-only pane listing the SQL the session has
// executed, newest first.
package query

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/joacominatel/litebrowse/internal/tui/theme"
)

const maxHistory = 50

// RerunMsg is sent when the user re-runs a history entry.
type RerunMsg struct {
	Table string
	SQL   string
}

// Entry is one executed query.
type Entry struct {
	Table string
	SQL   string
	At    time.Time
	OK    bool
	Rows  int
}

// Model is the query pane component.
type Model struct {
	history []Entry
	cursor  int
	width   int
	height  int
	focused bool
	now     func() time.Time
}

// New creates a new query pane.
func New() Model {
	return Model{now: time.Now}
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

// Focused returns whether the pane has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Push records an executed query and selects it.
func (m *Model) Push(e Entry) {
	m.history = append([]Entry{e}, m.history...)
	if len(m.history) > maxHistory {
		m.history = m.history[:maxHistory]
	}
	m.cursor = 0
}

// History returns the entries, newest first.
func (m Model) History() []Entry {
	return m.history
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the query pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.history)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.history) {
				e := m.history[m.cursor]
				return m, func() tea.Msg { return RerunMsg{Table: e.Table, SQL: e.SQL} }
			}
		}
	}

	return m, nil
}

// Highlight uppercases and colors SQL keywords outside quoted text.
func Highlight(sql string) string {
	kw := lipgloss.NewStyle().Foreground(theme.ColorPrimary).Bold(true)

	var result strings.Builder
	word := strings.Builder{}
	inQuote := false
	quote := rune(0)

	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		if sqlKeywords[strings.ToLower(w)] {
			result.WriteString(kw.Render(strings.ToUpper(w)))
		} else {
			result.WriteString(w)
		}
		word.Reset()
	}

	for _, ch := range sql {
		if (ch == '\'' || ch == '"') && !inQuote {
			flush()
			inQuote = true
			quote = ch
			result.WriteRune(ch)
			continue
		}
		if inQuote {
			if ch == quote {
				inQuote = false
			}
			result.WriteRune(ch)
			continue
		}

		if !unicode.IsLetter(ch) && ch != '_' {
			flush()
			result.WriteRune(ch)
		} else {
			word.WriteRune(ch)
		}
	}
	flush()

	return result.String()
}

// View renders the query pane.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := titleStyle.Render("Query")

	if len(m.history) == 0 {
		return title + "\n" + theme.StyleMuted.Render("  No query executed yet")
	}

	var b strings.Builder
	b.WriteString(title)

	visible := max(1, m.height-1)
	offset := 0
	if m.cursor >= visible {
		offset = m.cursor - visible + 1
	}

	for i := offset; i < len(m.history) && i < offset+visible; i++ {
		e := m.history[i]

		marker := theme.StyleSuccess.Render("✓")
		detail := fmt.Sprintf("%s rows", humanize.Comma(int64(e.Rows)))
		if !e.OK {
			marker = theme.StyleError.Render("✗")
			detail = "failed"
		}
		detail += ", " + humanize.RelTime(e.At, m.now(), "ago", "from now")

		prefix := "  "
		if i == m.cursor && m.focused {
			prefix = theme.StyleSelected.Render("> ")
		}

		b.WriteString("\n")
		b.WriteString(prefix + marker + " " + Highlight(e.SQL) + "  " + theme.StyleMuted.Render(detail))
	}

	return b.String()
}

// sqlKeywords are highlighted in the pane.
var sqlKeywords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true, "or": true,
	"join": true, "inner": true, "outer": true, "left": true, "on": true,
	"not": true, "in": true, "is": true, "null": true, "like": true,
	"order": true, "by": true, "group": true, "having": true,
	"limit": true, "offset": true, "as": true, "distinct": true,
	"count": true, "union": true, "all": true, "asc": true, "desc": true,
}
