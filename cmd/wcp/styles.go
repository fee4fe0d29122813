package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	scopeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	signalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	plainStyle = lipgloss.NewStyle()
)

// palette picks colored or plain styles for non-interactive output.
type palette struct {
	title, scope, signal, value lipgloss.Style
}

func newPalette(color bool) palette {
	if !color {
		return palette{title: plainStyle, scope: plainStyle, signal: plainStyle, value: plainStyle}
	}
	return palette{title: titleStyle, scope: scopeStyle, signal: signalStyle, value: valueStyle}
}
