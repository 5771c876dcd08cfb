// Package styles centralizes the lipgloss style definitions shared by
// the chat TUI and the command output.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Transcript prefixes.
	UserPrefixStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	AnswerPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan

	// Spinner / animation styles.
	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	// General utility styles.
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	StatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red

	// Input box borders.
	FocusedBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("2")) // green
	DisabledBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
)
