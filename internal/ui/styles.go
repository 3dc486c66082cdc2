package ui

import "github.com/charmbracelet/lipgloss"

const (
	hostIcon  = "🔥"
	readyIcon = "✅"
	waitIcon  = "⏳"
	turnIcon  = "🎲"
)

var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	codeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	gmStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Italic(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
