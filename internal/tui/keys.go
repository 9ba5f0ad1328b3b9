package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the global bindings. Pane-local keys are handled by each
// component and only listed here for help.
type keyMap struct {
	Quit     key.Binding
	NextPane key.Binding
	PrevPane key.Binding
	Refresh  key.Binding
	Dismiss  key.Binding
	Help     key.Binding

	Navigate key.Binding
	Open     key.Binding
	Expand   key.Binding
	Copy     key.Binding
	CopyRow  key.Binding
	CopyCSV  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		PrevPane: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous pane")),
		Refresh:  key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh tables")),
		Dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close result")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),

		Navigate: key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "navigate")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open table / re-run")),
		Expand:   key.NewBinding(key.WithKeys("right", "left", "l", "h"), key.WithHelp("→/←", "show/hide columns")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
		CopyRow:  key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row as JSON")),
		CopyCSV:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy row as CSV")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Refresh, k.NextPane, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.NextPane, k.PrevPane, k.Refresh, k.Dismiss, k.Help},
		{k.Navigate, k.Open, k.Expand},
		{k.Copy, k.CopyRow, k.CopyCSV},
	}
}
