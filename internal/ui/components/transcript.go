// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cortex-tui/internal/model"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// EmptyStateTitle is shown when the transcript has no messages.
const EmptyStateTitle = "Ready to analyze"

// EmptyStateHint follows the empty state title.
const EmptyStateHint = "Upload a PDF with ctrl+o, then ask a question about it."

// TranscriptView lays out the message list for the transcript viewport.
type TranscriptView struct {
	Messages []model.Message
	Thinking bool
	Frame    string // spinner frame for the thinking bubble
	Width    int
	Height   int
}

// Render renders the transcript. With no messages and nothing pending it
// renders the empty state centred in Width x Height.
func (v TranscriptView) Render(theme *styles.Theme) string {
	if len(v.Messages) == 0 && !v.Thinking {
		return EmptyState(v.Width, v.Height, theme)
	}

	parts := make([]string, 0, len(v.Messages)+1)
	for _, msg := range v.Messages {
		parts = append(parts, NewMessageBubble(msg, v.Width, theme).View())
	}
	if v.Thinking {
		parts = append(parts, ThinkingBubble(v.Frame, theme))
	}
	return strings.Join(parts, "\n\n")
}

// EmptyState renders the placeholder shown before the first message.
func EmptyState(width, height int, theme *styles.Theme) string {
	block := lipgloss.JoinVertical(lipgloss.Center,
		theme.EmptyTitle.Render(EmptyStateTitle),
		theme.EmptySubtitle.Render(EmptyStateHint),
	)
	if width <= 0 || height <= 0 {
		return block
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
