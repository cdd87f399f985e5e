// SPDX-License-Identifier: MPL-2.0

package report

import "github.com/charmbracelet/lipgloss"

// Palette shared with the CLI.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
	ColorVerbose   = lipgloss.Color("#9CA3AF")
)

// Styles used by the Printer. They are bound to the Printer's renderer so
// that output to a file or pipe carries no escape sequences.
type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Call    lipgloss.Style
	Command lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds the Printer styles for renderer r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(ColorPrimary),
		Section: r.NewStyle().Bold(true).Foreground(ColorWarning),
		Call:    r.NewStyle().Foreground(ColorVerbose),
		Command: r.NewStyle().Foreground(ColorHighlight),
		Key:     r.NewStyle().Foreground(ColorMuted),
		Value:   r.NewStyle(),
		Success: r.NewStyle().Foreground(ColorSuccess),
		Warning: r.NewStyle().Bold(true).Foreground(ColorError),
		Muted:   r.NewStyle().Foreground(ColorMuted).Italic(true),
	}
}
