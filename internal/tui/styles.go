// Package tui provides an interactive terminal preview for sprite sheets.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary = lipgloss.Color("#ffe66d") // Yellow - titles
	ColorMuted   = lipgloss.Color("#666666") // Gray - help text
	ColorText    = lipgloss.Color("#f1faee") // Light text
	ColorBorder  = lipgloss.Color("#3d5a80") // Border color
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	statusStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	frameBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)
