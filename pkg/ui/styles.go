package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan    = lipgloss.Color("#00D7FF")
	colorMagenta = lipgloss.Color("#D75FD7")
	colorGreen   = lipgloss.Color("#5FD75F")
	colorYellow  = lipgloss.Color("#FFD75F")
	colorOrange  = lipgloss.Color("#FF8700")
	colorRed     = lipgloss.Color("#FF5F5F")
	colorDim     = lipgloss.Color("#8A8A8A")

	bannerStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMagenta).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorOrange).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorMagenta)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Color helpers for inline use
var (
	Cyan    = labelStyle.Render
	Yellow  = valueStyle.Render
	Green   = successStyle.Render
	Orange  = warningStyle.Render
	Red     = errorStyle.Render
	Magenta = highlightStyle.Render
	Dim     = dimStyle.Render
)
