package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/joacominatel/litebrowse/internal/app"
	"github.com/joacominatel/litebrowse/internal/config"
	"github.com/joacominatel/litebrowse/internal/navigator"
	"github.com/joacominatel/litebrowse/internal/session"
	"github.com/joacominatel/litebrowse/internal/tui/explorer"
	"github.com/joacominatel/litebrowse/internal/tui/query"
	"github.com/joacominatel/litebrowse/internal/tui/results"
	"github.com/joacominatel/litebrowse/internal/tui/statusbar"
	"github.com/joacominatel/litebrowse/internal/tui/theme"
)

// Pane identifies a focusable area.
type Pane int

const (
	PaneExplorer Pane = iota
	PaneQuery
	PaneResults
)

func (p Pane) String() string {
	switch p {
	case PaneExplorer:
		return "explorer"
	case PaneQuery:
		return "query"
	case PaneResults:
		return "results"
	default:
		return "unknown"
	}
}

// AppMode tracks the current UI state.
type AppMode int

const (
	ModeSelectFile AppMode = iota // recent files list
	ModeOpenFile                  // manual path input
	ModeMain                      // main TUI
)

type (
	openFileMsg struct {
		path string
	}
	syncTickMsg time.Time
)

// Options configures the top-level model.
type Options struct {
	Controller      *session.Controller
	Config          *config.Config
	Save            func(*config.Config) error // persists the recent list; may be nil
	Path            string                     // opened on start when set
	RefreshInterval time.Duration              // zero disables periodic sync
	MaxCellWidth    int
	Log             zerolog.Logger
	Context         context.Context
}

// panelSink receives panels from the controller. The model is copied on
// every Update, so the sink lives behind a pointer.
type panelSink struct {
	panel session.Panel
}

func (s *panelSink) Replace(p session.Panel) error {
	if p.Kind == session.PanelResult {
		if err := p.Result.Validate(); err != nil {
			return err
		}
	}
	s.panel = p
	return nil
}

// Model is the top-level bubbletea model orchestrating all components.
type Model struct {
	ctx     context.Context
	ctrl    *session.Controller
	cfg     *config.Config
	save    func(*config.Config) error
	log     zerolog.Logger
	sink    *panelSink
	keys    keyMap
	help    help.Model
	refresh time.Duration

	explorer   explorer.Model
	query      query.Model
	results    results.Model
	statusbar  statusbar.Model
	fileInput  textinput.Model
	activePane Pane
	mode       AppMode
	width      int
	height     int
	err        error
	showHelp   bool

	initialPath  string
	recentCursor int
}

// NewModel creates the top-level model and attaches it to the
// controller as its display sink.
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "path/to/database.db"
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 70

	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	mode := ModeOpenFile
	if opts.Path == "" && len(cfg.Recent) > 0 {
		mode = ModeSelectFile
	}

	sink := &panelSink{}
	opts.Controller.SetSink(sink)

	return Model{
		ctx:         ctx,
		ctrl:        opts.Controller,
		cfg:         cfg,
		save:        opts.Save,
		log:         opts.Log.With().Str("component", "tui").Logger(),
		sink:        sink,
		keys:        defaultKeyMap(),
		help:        help.New(),
		refresh:     opts.RefreshInterval,
		explorer:    explorer.New(),
		query:       query.New(),
		results:     results.New(opts.MaxCellWidth),
		statusbar:   statusbar.New(),
		fileInput:   ti,
		activePane:  PaneExplorer,
		mode:        mode,
		initialPath: opts.Path,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
	}

	if m.initialPath != "" {
		path := m.initialPath
		cmds = append(cmds, func() tea.Msg { return openFileMsg{path: path} })
	}

	return tea.Batch(cmds...)
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch m.mode {
		case ModeSelectFile:
			return m.updateSelectFile(msg)
		case ModeOpenFile:
			return m.updateOpenFile(msg)
		case ModeMain:
			return m.updateMain(msg)
		}

	case openFileMsg:
		return m.startSession(msg.path)

	case syncTickMsg:
		if m.mode != ModeMain || m.ctrl.State() == session.StateClosed {
			return m, nil
		}
		return m, tea.Batch(m.refreshTables(), m.tickCmd())

	case explorer.ActivateMsg:
		table := ""
		if msg.Node != nil {
			table = msg.Node.Label
		}
		out := m.ctrl.Dispatch(m.ctx, session.NodeActivated{Node: msg.Node})
		m.applyOutcome(table, out)
		return m, nil

	case explorer.RequestColumnsMsg:
		cols, err := m.ctrl.LoadColumns(m.ctx, msg.Node)
		if err != nil {
			m.statusbar.SetMessage("Failed to load columns: " + err.Error())
			return m, nil
		}
		m.explorer.SetColumns(msg.Node.Label, cols)
		return m, nil

	case query.RerunMsg:
		out := m.ctrl.Run(m.ctx, navigator.QueryRequest{Table: msg.Table, SQL: msg.SQL})
		m.applyOutcome(msg.Table, out)
		return m, nil

	case results.StatusNotifyMsg:
		m.statusbar.SetMessage(msg.Message)
		return m, nil
	}

	if m.mode == ModeMain {
		return m.updateComponents(msg)
	}
	return m, nil
}

func (m Model) updateSelectFile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.cfg.Recent)

	switch msg.String() {
	case "up", "k":
		if m.recentCursor > 0 {
			m.recentCursor--
		}
	case "down", "j":
		if m.recentCursor < count { // last item is "Open file"
			m.recentCursor++
		}
	case "enter":
		if m.recentCursor < count {
			return m.startSession(m.cfg.Recent[m.recentCursor].Path)
		}
		m.mode = ModeOpenFile
		m.fileInput.Focus()
		return m, nil
	case "n", "o":
		m.mode = ModeOpenFile
		m.fileInput.Focus()
		return m, nil
	case "q":
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) updateOpenFile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.startSession(strings.TrimSpace(m.fileInput.Value()))
	case "esc":
		if len(m.cfg.Recent) == 0 {
			return m, tea.Quit
		}
		m.mode = ModeSelectFile
		m.err = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)
	return m, cmd
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.NextPane):
		m.cyclePane()
		return m, nil
	case key.Matches(msg, m.keys.PrevPane):
		m.cyclePaneBack()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshTables()
	case key.Matches(msg, m.keys.Dismiss):
		if err := m.ctrl.Dismiss(); err != nil {
			m.statusbar.SetMessage(err.Error())
			return m, nil
		}
		m.results.SetPanel(m.sink.panel)
		m.statusbar.SetState(m.ctrl.State().String())
		return m, nil
	}

	return m.updateComponents(msg)
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.activePane {
	case PaneExplorer:
		m.explorer, cmd = m.explorer.Update(msg)
	case PaneQuery:
		m.query, cmd = m.query.Update(msg)
	case PaneResults:
		m.results, cmd = m.results.Update(msg)
	}

	return m, cmd
}

// startSession opens path through the controller. A connection failure
// keeps the file prompt up; a schema failure still enters the main view
// so the user can refresh.
func (m Model) startSession(path string) (tea.Model, tea.Cmd) {
	err := m.ctrl.Start(m.ctx, path)
	if err != nil && m.ctrl.State() == session.StateClosed {
		m.err = err
		if m.mode == ModeMain {
			m.mode = ModeOpenFile
		}
		m.statusbar.SetMessage("")
		return m, nil
	}

	m.mode = ModeMain
	m.err = nil
	m.statusbar.SetDatabase(true, app.DisplayName(path), path)
	m.setFocus(PaneExplorer)
	reload := m.syncTree()
	m.layout()

	var schemaErr *app.ErrSchema
	switch {
	case errors.As(err, &schemaErr):
		m.statusbar.SetMessage("Failed to load tables: " + err.Error())
	case err != nil:
		m.statusbar.SetMessage(err.Error())
	}

	m.cfg.AddRecent(path, time.Now())
	if m.save != nil {
		if serr := m.save(m.cfg); serr != nil {
			m.log.Warn().Err(serr).Msg("save recent files")
			m.statusbar.SetMessage("Warning: could not save recent files")
		}
	}

	return m, tea.Batch(reload, m.tickCmd())
}

func (m Model) tickCmd() tea.Cmd {
	if m.refresh <= 0 {
		return nil
	}
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return syncTickMsg(t)
	})
}

func (m *Model) refreshTables() tea.Cmd {
	if err := m.ctrl.Refresh(m.ctx); err != nil {
		m.statusbar.SetMessage("Refresh failed: " + err.Error())
		return nil
	}
	return m.syncTree()
}

// syncTree copies the controller's tree and sync time into the views.
// The returned command reloads columns of expanded tables.
func (m *Model) syncTree() tea.Cmd {
	tree := m.ctrl.Tree()
	reload := m.explorer.SetTree(tree)
	m.statusbar.SetTables(len(tree.Leaves()))
	m.statusbar.SetSynced(m.ctrl.LastSync())
	m.statusbar.SetState(m.ctrl.State().String())
	return reload
}

func (m *Model) applyOutcome(table string, out session.Outcome) {
	defer m.statusbar.SetState(m.ctrl.State().String())

	if out.Kind == session.OutcomeUnsupported {
		m.statusbar.SetMessage("Select a table to browse its rows")
		return
	}

	if out.Panel != nil {
		m.query.Push(query.Entry{
			Table: table,
			SQL:   out.Panel.Query,
			At:    out.Panel.CreatedAt,
			OK:    out.Kind == session.OutcomeResult,
			Rows:  out.Panel.Result.RowCount(),
		})
	}

	if out.DisplayErr != nil {
		m.statusbar.SetMessage(out.DisplayErr.Error())
		return
	}

	m.results.SetPanel(m.sink.panel)
	if out.Err != nil {
		m.statusbar.SetMessage("Query failed")
		return
	}
	m.statusbar.SetMessage("")
}

func (m *Model) cyclePane() {
	switch m.activePane {
	case PaneExplorer:
		m.setFocus(PaneQuery)
	case PaneQuery:
		m.setFocus(PaneResults)
	case PaneResults:
		m.setFocus(PaneExplorer)
	}
}

func (m *Model) cyclePaneBack() {
	switch m.activePane {
	case PaneExplorer:
		m.setFocus(PaneResults)
	case PaneQuery:
		m.setFocus(PaneExplorer)
	case PaneResults:
		m.setFocus(PaneQuery)
	}
}

func (m *Model) setFocus(pane Pane) {
	m.activePane = pane
	m.explorer.SetFocused(pane == PaneExplorer)
	m.query.SetFocused(pane == PaneQuery)
	m.results.SetFocused(pane == PaneResults)
	m.statusbar.SetActivePane(pane.String())
}

// dimensions splits the screen: explorer on the left, query pane above
// results on the right.
func (m Model) dimensions() (explorerWidth, rightWidth, availHeight, queryHeight, resultsHeight int) {
	explorerWidth = min(max(m.width/4, 22), 35)
	rightWidth = m.width - explorerWidth - 1

	statusHeight := 1
	availHeight = m.height - statusHeight - 2

	queryHeight = max(availHeight*25/100, 4)
	resultsHeight = availHeight - queryHeight - 2
	return
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	explorerWidth, rightWidth, availHeight, queryHeight, resultsHeight := m.dimensions()

	m.explorer.SetSize(explorerWidth, availHeight)
	m.query.SetSize(rightWidth, queryHeight)
	m.results.SetSize(rightWidth, resultsHeight)
	m.statusbar.SetWidth(m.width)
}

// View renders the entire application.
func (m Model) View() string {
	if m.showHelp {
		return m.viewHelp()
	}

	switch m.mode {
	case ModeSelectFile:
		return m.viewSelectFile()
	case ModeOpenFile:
		return m.viewOpenFile()
	default:
		return m.viewMain()
	}
}

func (m Model) header() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(1, 0)
	subtitleStyle := lipgloss.NewStyle().Foreground(theme.ColorMuted)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("litebrowse"),
		subtitleStyle.Render("Browse SQLite files from the terminal."),
	)
}

func (m Model) errLine() string {
	if m.err == nil {
		return ""
	}
	return "\n" + theme.StyleError.Render("  Error: "+m.err.Error())
}

func (m Model) viewSelectFile() string {
	sectionTitle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Render("Recent Files")

	var items []string
	for i, r := range m.cfg.Recent {
		label := "  " + r.DisplayString()
		if i == m.recentCursor {
			label = theme.StyleSelected.Render("> " + r.DisplayString())
		}
		items = append(items, label)
	}

	openLabel := "  [Open File]"
	if m.recentCursor == len(m.cfg.Recent) {
		openLabel = theme.StyleSelected.Render("> [Open File]")
	}
	items = append(items, "", openLabel)

	hints := theme.StyleMuted.Render("  ↑/↓: Navigate  Enter: Open  n: Other file  q: Quit")

	parts := []string{"", m.header(), "", sectionTitle}
	parts = append(parts, items...)
	if e := m.errLine(); e != "" {
		parts = append(parts, e)
	}
	parts = append(parts, "", hints)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m Model) viewOpenFile() string {
	prompt := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Render("Database file:")

	backHint := ""
	if len(m.cfg.Recent) > 0 {
		backHint = "Esc: Back │ "
	}
	quitHint := "Esc/Ctrl+C: Quit"
	if backHint != "" {
		quitHint = "Ctrl+C: Quit"
	}
	hint := theme.StyleMuted.Render("  " + backHint + "Enter: Open │ " + quitHint)

	content := lipgloss.JoinVertical(lipgloss.Left,
		"",
		m.header(),
		"",
		prompt,
		"  "+m.fileInput.View(),
		m.errLine(),
		"",
		hint,
	)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

func (m Model) border(p Pane) lipgloss.Style {
	if m.activePane == p {
		return theme.StyleActiveBorder
	}
	return theme.StyleBorder
}

func (m Model) viewMain() string {
	explorerWidth, rightWidth, availHeight, queryHeight, resultsHeight := m.dimensions()

	explorerView := m.border(PaneExplorer).
		Width(explorerWidth - 2).
		Height(availHeight).
		Render(m.explorer.View())

	queryView := m.border(PaneQuery).
		Width(rightWidth - 2).
		Height(queryHeight).
		Render(m.query.View())

	resultsView := m.border(PaneResults).
		Width(rightWidth - 2).
		Height(resultsHeight).
		Render(m.results.View())

	mainArea := lipgloss.JoinHorizontal(lipgloss.Top,
		explorerView,
		lipgloss.JoinVertical(lipgloss.Left, queryView, resultsView),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		mainArea,
		m.statusbar.View(),
	)
}

func (m Model) viewHelp() string {
	title := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Render("litebrowse - Keyboard Shortcuts")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		theme.StyleMuted.Render("Press any key to close"),
	)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

// Err returns the last session start error shown in the prompt.
func (m Model) Err() error {
	return m.err
}

// Mode returns the current UI mode.
func (m Model) Mode() AppMode {
	return m.mode
}
