// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the Atomity TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Cyan - Brand color, headings, user highlights
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// CyanDeep - Darker cyan for backgrounds
var CyanDeep = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#164E63"}

// Emerald - Success states, markers
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, critical alerts
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, attachment badges
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS (slate)
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F172A"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#1E293B"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#334155"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E2E8F0"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#94A3B8"}

// TextMuted - Hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#64748B"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F172A"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - Cyan tones
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#CFFAFE"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#06B6D4", Dark: "#0891B2"}

// AI message bubble - Slate tones
var AIBubbleFg = lipgloss.AdaptiveColor{Light: "#334155", Dark: "#E2E8F0"}
var AIBubbleBorder = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#475569"}
