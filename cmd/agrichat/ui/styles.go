package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorLeaf   = lipgloss.Color("#7CB342")
	colorSoil   = lipgloss.Color("#8D6E63")
	colorError  = lipgloss.Color("#E53935")
	colorMuted  = lipgloss.Color("#9E9E9E")
	colorAccent = lipgloss.Color("#FDD835")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLeaf)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSoil)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorLeaf)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	assistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLeaf)

	systemStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	attachmentStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Underline(true)

	formStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSoil)
)
