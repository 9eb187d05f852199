package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
)

var (
	accentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0d6efd"))
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#198754"))
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#dc3545"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d"))
	pathStyle   = lipgloss.NewStyle().Width(36)
)

// formatByteSize formats a byte count as a human-readable string.
func formatByteSize(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fMB", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.0fKB", float64(n)/1_000)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
