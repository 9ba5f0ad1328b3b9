package theme

import "github.com/charmbracelet/lipgloss"

// Color palette: minimalist, terminal-friendly.
var (
	ColorPrimary   lipgloss.TerminalColor
	ColorSecondary lipgloss.TerminalColor
	ColorSuccess   lipgloss.TerminalColor
	ColorError     lipgloss.TerminalColor
	ColorBorder    lipgloss.TerminalColor
	ColorMuted     lipgloss.TerminalColor
	ColorHighlight lipgloss.TerminalColor
)

// Shared styles used across TUI components.
var (
	StyleBorder       lipgloss.Style
	StyleActiveBorder lipgloss.Style
	StyleTitle        lipgloss.Style
	StyleMuted        lipgloss.Style
	StyleError        lipgloss.Style
	StyleSuccess      lipgloss.Style
	StyleStatusBar    lipgloss.Style
	StyleNull         lipgloss.Style
	StyleSelected     lipgloss.Style
)

func init() {
	Apply("default")
}

// Apply switches the palette. Known names are "default" and "mono";
// anything else falls back to default. It reports the applied name.
func Apply(name string) string {
	switch name {
	case "mono":
		noColor := lipgloss.NoColor{}
		ColorPrimary = noColor
		ColorSecondary = noColor
		ColorSuccess = noColor
		ColorError = noColor
		ColorBorder = noColor
		ColorMuted = noColor
		ColorHighlight = noColor
	default:
		name = "default"
		ColorPrimary = lipgloss.Color("63")    // Purple
		ColorSecondary = lipgloss.Color("241") // Gray
		ColorSuccess = lipgloss.Color("42")    // Green
		ColorError = lipgloss.Color("196")     // Red
		ColorBorder = lipgloss.Color("238")    // Dark gray
		ColorMuted = lipgloss.Color("245")     // Light gray
		ColorHighlight = lipgloss.Color("229") // Yellow
	}
	build()
	return name
}

func build() {
	StyleBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	StyleActiveBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary)

	StyleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	StyleMuted = lipgloss.NewStyle().
		Foreground(ColorMuted)

	StyleError = lipgloss.NewStyle().
		Foreground(ColorError)

	StyleSuccess = lipgloss.NewStyle().
		Foreground(ColorSuccess)

	StyleStatusBar = lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)

	StyleNull = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Italic(true)

	StyleSelected = lipgloss.NewStyle().
		Foreground(ColorHighlight).
		Bold(true)
}
