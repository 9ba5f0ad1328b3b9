package explorer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joacominatel/litebrowse/internal/database"
	"github.com/joacominatel/litebrowse/internal/navigator"
	"github.com/joacominatel/litebrowse/internal/tui/theme"
)

// ActivateMsg is sent when the user selects a node with enter.
type ActivateMsg struct {
	Node *navigator.Node
}

// RequestColumnsMsg is sent when a table is expanded and its columns
// have not been loaded yet.
type RequestColumnsMsg struct {
	Node *navigator.Node
}

// flatItem is a visible line in the flattened tree view. Column detail
// lines carry a column instead of a node.
type flatItem struct {
	node   *navigator.Node
	column *database.Column
	depth  int
}

// Model is the explorer (table tree) component.
type Model struct {
	tree         *navigator.Tree
	items        []flatItem
	rootExpanded bool
	expanded     map[string]bool // table leaves by label
	columns      map[string][]database.Column
	cursor       int
	width        int
	height       int
	focused      bool
}

// New creates a new explorer model.
func New() Model {
	return Model{
		rootExpanded: true,
		expanded:     map[string]bool{},
		columns:      map[string][]database.Column{},
	}
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

// Focused returns whether the explorer has focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetTree shows tree. Loaded columns are dropped; tables that stay
// expanded have their columns requested again through the returned
// command. The cursor stays on the same node when it still exists.
func (m *Model) SetTree(tree *navigator.Tree) tea.Cmd {
	var label string
	wasRoot := false
	if n := m.Selected(); n != nil {
		label, wasRoot = n.Label, m.isRoot(n)
	}

	m.tree = tree
	clear(m.columns)

	var reload []tea.Cmd
	for table, open := range m.expanded {
		node := tree.Find(table)
		if node == nil || !open {
			delete(m.expanded, table)
			continue
		}
		reload = append(reload, requestColumns(node))
	}
	m.flatten()

	for i, it := range m.items {
		if it.column == nil && it.node.Label == label && m.isRoot(it.node) == wasRoot {
			m.cursor = i
			break
		}
	}
	return tea.Batch(reload...)
}

func requestColumns(node *navigator.Node) tea.Cmd {
	return func() tea.Msg { return RequestColumnsMsg{Node: node} }
}

func (m Model) isRoot(n *navigator.Node) bool {
	return m.tree != nil && n == m.tree.Root
}

func (m Model) isExpanded(n *navigator.Node) bool {
	if m.isRoot(n) {
		return m.rootExpanded
	}
	return m.expanded[n.Label]
}

func (m *Model) setExpanded(n *navigator.Node, open bool) {
	if m.isRoot(n) {
		m.rootExpanded = open
		return
	}
	m.expanded[n.Label] = open
}

// SetColumns attaches the columns of table as detail lines.
func (m *Model) SetColumns(table string, columns []database.Column) {
	m.columns[table] = columns
	m.flatten()
}

// Columns returns the loaded columns of table.
func (m Model) Columns(table string) ([]database.Column, bool) {
	cols, ok := m.columns[table]
	return cols, ok
}

// Selected returns the node under the cursor. On a column line it
// returns the owning table.
func (m Model) Selected() *navigator.Node {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return m.items[m.cursor].node
}

// flatten rebuilds the flat item list from the tree.
func (m *Model) flatten() {
	m.items = nil
	if m.tree != nil && m.tree.Root != nil {
		m.flattenNode(m.tree.Root, 0)
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func (m *Model) flattenNode(node *navigator.Node, depth int) {
	m.items = append(m.items, flatItem{node: node, depth: depth})
	if !m.isExpanded(node) {
		return
	}
	if !m.isRoot(node) {
		for i := range m.columns[node.Label] {
			m.items = append(m.items, flatItem{
				node:   node,
				column: &m.columns[node.Label][i],
				depth:  depth + 1,
			})
		}
		return
	}
	for _, child := range node.Children {
		m.flattenNode(child, depth+1)
	}
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the explorer.
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
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(0, len(m.items)-1)
		case "enter":
			if n := m.Selected(); n != nil {
				return m, func() tea.Msg { return ActivateMsg{Node: n} }
			}
		case "right", "l", " ":
			return m, m.toggleExpand()
		case "left", "h":
			m.collapse()
		}
	}

	return m, nil
}

func (m *Model) toggleExpand() tea.Cmd {
	node := m.Selected()
	if node == nil {
		return nil
	}

	if m.isExpanded(node) {
		m.setExpanded(node, false)
		m.flatten()
		return nil
	}

	m.setExpanded(node, true)
	m.flatten()

	if !m.isRoot(node) {
		if _, loaded := m.columns[node.Label]; !loaded {
			return requestColumns(node)
		}
	}
	return nil
}

func (m *Model) collapse() {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return
	}
	item := m.items[m.cursor]
	if !m.isExpanded(item.node) {
		return
	}
	m.setExpanded(item.node, false)
	m.flatten()

	// land on the collapsed node, not wherever its detail lines were
	for i, it := range m.items {
		if it.column == nil && it.node == item.node {
			m.cursor = i
			return
		}
	}
}

// View renders the explorer.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := titleStyle.Render("Explorer")

	if m.tree == nil {
		return title + "\n" + theme.StyleMuted.Render("  No database")
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	visibleHeight := m.height - 2 // title + padding
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	scrollOffset := 0
	if m.cursor >= visibleHeight {
		scrollOffset = m.cursor - visibleHeight + 1
	}

	for i := scrollOffset; i < len(m.items) && i < scrollOffset+visibleHeight; i++ {
		b.WriteString(m.renderItem(m.items[i], i == m.cursor))
		if i < scrollOffset+visibleHeight-1 {
			b.WriteString("\n")
		}
	}

	if len(m.tree.Leaves()) == 0 {
		b.WriteString("\n")
		b.WriteString(theme.StyleMuted.Render("  (no tables)"))
	}

	return b.String()
}

func (m Model) renderItem(item flatItem, selected bool) string {
	indent := strings.Repeat("  ", item.depth)

	var line string
	if item.column != nil {
		line = fmt.Sprintf("%s  %s %s", indent, item.column.Name,
			theme.StyleMuted.Render(item.column.DeclaredType))
	} else {
		icon := "▶ "
		if m.isExpanded(item.node) {
			icon = "▼ "
		}
		line = indent + icon + item.node.Label
	}

	if m.width > 4 && lipgloss.Width(line) > m.width-2 {
		runes := []rune(line)
		for len(runes) > 0 && lipgloss.Width(string(runes)) > m.width-4 {
			runes = runes[:len(runes)-1]
		}
		line = string(runes) + ".."
	}

	if selected {
		return theme.StyleSelected.Render(line)
	}
	return line
}
