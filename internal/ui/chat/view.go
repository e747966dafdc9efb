// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/atomity/internal/ui/styles"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// renderChat renders the complete chat view.
// Layout: header (1 line) + messages (viewport) + input (3 lines) + status (1 line).
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	header := m.header.View(m.width, m.state == StateStreaming)
	input := m.renderInput()
	status := m.renderStatusBar()
	messages := m.viewport.View()

	availableHeight := m.height - lipgloss.Height(header) - lipgloss.Height(input) - lipgloss.Height(status)
	if availableHeight < 1 {
		availableHeight = 1
	}
	if lipgloss.Height(messages) != availableHeight {
		messages = lipgloss.NewStyle().
			Height(availableHeight).
			MaxHeight(availableHeight).
			Width(m.width).
			Render(messages)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		messages,
		input,
		status,
	)
}

// =============================================================================
// INPUT AREA
// =============================================================================

// renderInput renders the separator, the input line, and the staged
// attachment indicator.
func (m Model) renderInput() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(strings.Repeat("-", width))

	inputLine := m.input.View()
	if m.state == StateStreaming {
		inputLine = m.theme.ThinkingText.Render("Streaming reply... (Esc to cancel)")
	}

	var attachLine string
	if m.pendingAttach != "" {
		attachLine = m.theme.AttachmentBadge.Render("[attach] " + m.pendingAttach)
	}

	return lipgloss.JoinVertical(lipgloss.Left, separator, inputLine, attachLine)
}

// =============================================================================
// STATUS BAR
// =============================================================================

// renderStatusBar shows the latest status message or the shortcut hints.
func (m Model) renderStatusBar() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	content := m.statusMsg
	if content == "" {
		content = m.theme.ShortcutKey.Render("Enter") + m.theme.ShortcutDesc.Render(" send  ") +
			m.theme.ShortcutKey.Render("/attach") + m.theme.ShortcutDesc.Render(" file  ") +
			m.theme.ShortcutKey.Render("/new") + m.theme.ShortcutDesc.Render(" case  ") +
			m.theme.ShortcutKey.Render("/help") + m.theme.ShortcutDesc.Render("  ") +
			m.theme.ShortcutKey.Render("Ctrl+C") + m.theme.ShortcutDesc.Render(" quit")
	} else if strings.HasPrefix(content, "Error:") {
		content = m.theme.ErrorText.Render(content)
	}

	return m.theme.StatusBar.Width(width).Render(content)
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

func (m Model) renderHelpOverlay() string {
	help := []string{
		m.theme.HeaderTitle.Render("ATOMITY Commands"),
		"",
		m.theme.ShortcutKey.Render("/attach <path>") + "  stage an image, PDF, or text file for the next message",
		m.theme.ShortcutKey.Render("/new") + "            start a new case (clears the conversation)",
		m.theme.ShortcutKey.Render("/help") + "           show this overlay",
		m.theme.ShortcutKey.Render("/quit") + "           exit",
		"",
		m.theme.ShortcutKey.Render("Enter") + "   send message",
		m.theme.ShortcutKey.Render("Esc") + "     cancel an in-flight reply",
		m.theme.ShortcutKey.Render("PgUp/PgDn") + " scroll the conversation",
		"",
		m.theme.ShortcutDesc.Render("Press Esc or Enter to close"),
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Cyan).
		Padding(1, 2).
		Render(strings.Join(help, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
