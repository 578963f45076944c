// Package styles holds the lipgloss palette and styles of the keypad UI.
package styles

import "github.com/charmbracelet/lipgloss"

// ANSI palette, so the UI follows the terminal theme.
var (
	ColorAccent  = lipgloss.Color("6") // cyan
	ColorError   = lipgloss.Color("1") // red
	ColorMuted   = lipgloss.Color("8") // gray
	ColorMagenta = lipgloss.Color("5")
)

// Centralized style definitions for the TUI.
var (
	// Display box.
	DisplayBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)
	DisplayErrorBorder = DisplayBorder.BorderForeground(ColorError)

	DisplayText  = lipgloss.NewStyle().Bold(true)
	DisplayError = lipgloss.NewStyle().Bold(true).Foreground(ColorError)

	// Pending expression above the display.
	Expression = lipgloss.NewStyle().Foreground(ColorMuted)

	// Title and status.
	Title  = lipgloss.NewStyle().Bold(true).Foreground(ColorMagenta)
	Status = lipgloss.NewStyle().Foreground(ColorMuted).Faint(true)
)
