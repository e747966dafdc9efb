// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/atomity/internal/ui/styles"
)

// =============================================================================
// THINKING SPINNER
// =============================================================================

// ThinkingSpinner is the loading indicator shown while a reply is pending
// its first fragment.
type ThinkingSpinner struct {
	spinner spinner.Model
	theme   *styles.Theme
}

// NewThinkingSpinner creates a spinner with ASCII-compatible frames.
func NewThinkingSpinner(theme *styles.Theme) ThinkingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = theme.Spinner
	return ThinkingSpinner{spinner: s, theme: theme}
}

// Tick starts the spinner animation.
func (s ThinkingSpinner) Tick() tea.Cmd {
	return s.spinner.Tick
}

// Update advances the animation.
func (s ThinkingSpinner) Update(msg tea.Msg) (ThinkingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner with the analysis message.
func (s ThinkingSpinner) View() string {
	return s.spinner.View() + " " + s.theme.ThinkingText.Render("Analyzing...")
}
