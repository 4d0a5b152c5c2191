// Package consoleout renders sync.Result and other command output for the
// terminal, styled with lipgloss when stdout is a TTY and plain otherwise.
package consoleout

import "github.com/charmbracelet/lipgloss"

var (
	colorError = lipgloss.AdaptiveColor{Light: "#D73737", Dark: "#FF5555"}
	colorWarn  = lipgloss.AdaptiveColor{Light: "#E67E22", Dark: "#FFB86C"}
	colorOK    = lipgloss.AdaptiveColor{Light: "#27AE60", Dark: "#50FA7B"}
	colorInfo  = lipgloss.AdaptiveColor{Light: "#2980B9", Dark: "#8BE9FD"}
	colorMuted = lipgloss.AdaptiveColor{Light: "#6C7A89", Dark: "#6272A4"}
)

var (
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(colorOK)
	toolStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)
