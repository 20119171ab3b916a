// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY COLORS
// =============================================================================

// Indigo is the brand accent: active conversation, focus, the send prompt.
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}

// IndigoDeep is used for filled accents such as the active sidebar row.
var IndigoDeep = lipgloss.AdaptiveColor{Light: "#3730A3", Dark: "#4338CA"}

// Cyan marks informational text and document badges.
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald marks success notices.
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Amber marks in-progress indicators (Indexing..., Thinking...).
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Rose marks errors and destructive actions.
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// =============================================================================
// SURFACES
// =============================================================================

var Base = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F172A"}
var Surface = lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#1E293B"}
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#111827"}
var Overlay = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"}

// =============================================================================
// TEXT
// =============================================================================

var TextPrimary = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#F1F5F9"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#475569", Dark: "#CBD5E1"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#64748B"}
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F172A"}

// =============================================================================
// MESSAGE BUBBLES
// =============================================================================

var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#E0E7FF", Dark: "#312E81"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#1E1B4B", Dark: "#E0E7FF"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#A5B4FC", Dark: "#6366F1"}

var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#F8FAFC", Dark: "#1E293B"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#1E293B", Dark: "#E2E8F0"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#475569"}

// PDF attachment card
var CardBg = lipgloss.AdaptiveColor{Light: "#ECFEFF", Dark: "#164E63"}
var CardFg = lipgloss.AdaptiveColor{Light: "#164E63", Dark: "#CFFAFE"}
var CardBorder = lipgloss.AdaptiveColor{Light: "#67E8F9", Dark: "#0E7490"}

// Inline `code` spans
var CodeFg = lipgloss.AdaptiveColor{Light: "#BE185D", Dark: "#F9A8D4"}
var CodeBg = lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#0F172A"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet holds ASCII markers shown next to coloured status text
// so state stays readable without colour.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Pending string
	Active  string
}

// StatusIndicators is the marker set used throughout the UI.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Pending: "[ ]",
	Active:  "[*]",
}
