package format

import "github.com/charmbracelet/lipgloss"

// styles used by the text renderers. Without a color-capable terminal
// lipgloss renders them as plain text.
var styles = struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Item    lipgloss.Style
	Muted   lipgloss.Style
	Score   lipgloss.Style
	Good    lipgloss.Style
	Warning lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	Header: lipgloss.NewStyle().
		Bold(true),

	Item: lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")),

	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Score: lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")),

	Good: lipgloss.NewStyle().
		Foreground(lipgloss.Color("114")),

	Warning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),
}
