package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	errorFg   = lipgloss.Color("#F87171")
	warnFg    = lipgloss.Color("#FBBF24")
	borderCol = lipgloss.Color("#243141")

	appStyle     = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(baseDimFg)
	labelStyle   = lipgloss.NewStyle().Foreground(baseDimFg).Width(12)
	focusStyle   = lipgloss.NewStyle().Foreground(accentFg).Width(12)
	errorStyle   = lipgloss.NewStyle().Foreground(errorFg)
	warnStyle    = lipgloss.NewStyle().Foreground(warnFg)
	sidebarStyle = lipgloss.NewStyle().Padding(0, 1)
)
