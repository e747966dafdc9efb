// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel lipgloss.Style
	AILabel   lipgloss.Style
	Timestamp lipgloss.Style

	UserBubble lipgloss.Style
	AIBubble   lipgloss.Style

	AttachmentBadge lipgloss.Style

	// ==========================================================================
	// MARKDOWN RENDER STYLES
	// ==========================================================================

	Heading2   lipgloss.Style
	Heading3   lipgloss.Style
	BoldText   lipgloss.Style
	ListBullet lipgloss.Style
	Paragraph  lipgloss.Style

	// ==========================================================================
	// MAP PANEL STYLES
	// ==========================================================================

	MapBorder lipgloss.Style
	MapMarker lipgloss.Style
	MapPath   lipgloss.Style
	MapLabel  lipgloss.Style
	MapCoords lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	StatusBar      lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style

	// ==========================================================================
	// ERROR STYLES
	// ==========================================================================

	ErrorText lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Message labels
	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.AILabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(UserBubbleBorder).
		BorderLeft(true).
		PaddingLeft(1).
		MarginLeft(2)

	t.AIBubble = lipgloss.NewStyle().
		Foreground(AIBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(AIBubbleBorder).
		BorderLeft(true).
		PaddingLeft(1)

	t.AttachmentBadge = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	// Markdown rendering
	t.Heading2 = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Underline(true)

	t.Heading3 = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.BoldText = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.ListBullet = lipgloss.NewStyle().
		Foreground(Cyan)

	t.Paragraph = lipgloss.NewStyle().
		Foreground(TextPrimary)

	// Map panel
	t.MapBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.MapMarker = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.MapPath = lipgloss.NewStyle().
		Foreground(Amber)

	t.MapLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.MapCoords = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Cyan)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Errors
	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
