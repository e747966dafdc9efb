// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the Atomity TUI.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/atomity/internal/ui/styles"
)

// =============================================================================
// HEADER
// =============================================================================

// Header renders the fixed title bar.
type Header struct {
	theme     *styles.Theme
	modelName string
}

// NewHeader creates a header bound to the theme.
func NewHeader(theme *styles.Theme, modelName string) Header {
	return Header{theme: theme, modelName: modelName}
}

// View renders the header at the given width. Always 1 line high.
func (h Header) View(width int, streaming bool) string {
	if width <= 0 {
		width = 80
	}

	title := h.theme.HeaderTitle.Render("ATOMITY")
	subtitle := h.theme.HeaderSubtitle.Render(" | Analysis Terminal | " + h.modelName)

	var status string
	if streaming {
		status = lipgloss.NewStyle().Foreground(styles.Amber).Render(" [*]")
	} else {
		status = lipgloss.NewStyle().Foreground(styles.Emerald).Render(" [OK]")
	}

	return h.theme.Header.Width(width).Render(title + subtitle + status)
}
