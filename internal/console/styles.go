// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"github.com/charmbracelet/lipgloss"
)

func init() {
	applyColorProfile()
}

func applyColorProfile() {
	lipgloss.SetColorProfile(ColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// StatusStyle renders the right-aligned verb of a status line.
	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Bold(true)

	// ErrorStyle is used for the "error:" prefix.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// WarningStyle is used for the "warning:" prefix.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // Yellow/Orange
			Bold(true)

	// HighlightStyle marks names and values inside messages.
	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")) // Yellow

	// DimStyle is used for streamed subprocess output and hints.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")) // Dim gray

	// PromptStyle is used for y/n questions.
	PromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")) // Blue
)

// Highlight renders s with HighlightStyle.
func Highlight(s string) string {
	return HighlightStyle.Render(s)
}
