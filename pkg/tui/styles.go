package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorNeonGreen  = lipgloss.Color("#00FF99") // Blame on
	colorNeonPurple = lipgloss.Color("#874BFD") // Header / Border
	colorTextMain   = lipgloss.Color("#E2E8F0")
	colorTextSub    = lipgloss.Color("#64748B")
	colorDanger     = lipgloss.Color("#FF0055")
	colorWarning    = lipgloss.Color("#F59E0B")

	dimStyle = lipgloss.NewStyle().Foreground(colorTextSub)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorNeonPurple).
			Bold(true).
			Padding(0, 1)

	gutterStyle = lipgloss.NewStyle().Foreground(colorTextSub)

	lineSelectedStyle = lipgloss.NewStyle().
				Foreground(colorTextMain).
				Background(lipgloss.Color("#331832")).
				Bold(true)

	lineNormalStyle = lipgloss.NewStyle().Foreground(colorTextMain)

	// Inline blame, rendered after the line text.
	annotationStyle = lipgloss.NewStyle().
			Foreground(colorTextSub).
			Italic(true).
			PaddingLeft(3)

	hoverStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorNeonPurple).
			Padding(0, 1).
			MarginLeft(6)

	statusOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0B0B0B")).
			Background(colorNeonGreen).
			Bold(true).
			Padding(0, 1)

	statusOffStyle = lipgloss.NewStyle().
			Foreground(colorTextMain).
			Background(lipgloss.Color("#1E293B")).
			Padding(0, 1)

	statusWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0B0B0B")).
			Background(colorWarning).
			Bold(true).
			Padding(0, 1)

	errorStyle   = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
)
