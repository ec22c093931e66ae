package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the TUI.
var (
	// Topic prompt styles.
	topicPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	topicBlockStyle  = lipgloss.NewStyle().PaddingLeft(1)

	// Streaming report text before the final render.
	deltaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray

	// Source lines shown as they are found.
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	// Spinner / animation styles.
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	// General utility styles.
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray/dim
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)

	// Error block style.
	errorBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("1"))
)
