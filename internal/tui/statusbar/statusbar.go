package statusbar

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/joacominatel/litebrowse/internal/tui/theme"
)

// Model is the status bar component.
type Model struct {
	width      int
	open       bool
	name       string
	path       string
	tables     int
	synced     time.Time
	state      string
	activePane string
	message    string
	now        func() time.Time
}

// New creates a new status bar model.
func New() Model {
	return Model{
		activePane: "explorer",
		now:        time.Now,
	}
}

// SetWidth updates the component width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetDatabase updates the open database shown on the left.
func (m *Model) SetDatabase(open bool, name, path string) {
	m.open = open
	m.name = name
	m.path = path
}

// SetTables updates the table count.
func (m *Model) SetTables(n int) {
	m.tables = n
}

// SetSynced records when the table list was last refreshed.
func (m *Model) SetSynced(t time.Time) {
	m.synced = t
}

// SetState updates the displayed session state.
func (m *Model) SetState(s string) {
	m.state = s
}

// SetActivePane updates the displayed active pane name.
func (m *Model) SetActivePane(pane string) {
	m.activePane = pane
}

// SetMessage sets a temporary status message.
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

// Message returns the current status message.
func (m Model) Message() string {
	return m.message
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages (status bar has no interactive behavior).
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	style := theme.StyleStatusBar.Width(m.width)

	var left string
	if m.open {
		left = lipgloss.NewStyle().
			Foreground(theme.ColorSuccess).
			Render("●") + " " + m.name
		if m.path != "" && m.path != m.name {
			left += " " + theme.StyleMuted.Render("("+m.path+")")
		}
		left += fmt.Sprintf(" │ %d tables", m.tables)
		if !m.synced.IsZero() {
			left += " │ synced " + humanize.RelTime(m.synced, m.now(), "ago", "from now")
		}
		if m.state != "" {
			left += " │ " + m.state
		}
	} else {
		left = lipgloss.NewStyle().
			Foreground(theme.ColorError).
			Render("●") + " no database"
	}

	hints := "Enter: Open │ r: Refresh │ Tab: Switch pane │ ?: Help │ q: Quit"

	right := hints
	if m.message != "" {
		right = m.message
	}

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := m.width - leftLen - rightLen - 4 // borders + spacing
	if padding < 1 {
		padding = 1
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
