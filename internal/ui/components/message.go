// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cortex-tui/internal/model"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
	"github.com/jeranaias/cortex-tui/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one transcript message.
type MessageBubble struct {
	Message model.Message
	Width   int
	theme   *styles.Theme
}

// NewMessageBubble creates a new MessageBubble.
func NewMessageBubble(msg model.Message, width int, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{Message: msg, Width: width, theme: theme}
}

// View renders the message bubble. The body variant decides the layout:
// text goes into a chat bubble, an attachment into a PDF card.
func (b *MessageBubble) View() string {
	var block string
	switch body := b.Message.Body.(type) {
	case model.PDFAttachment:
		block = b.renderPDFCard(body)
	case model.Text:
		if b.Message.IsAssistant() {
			block = b.renderAssistantText(body)
		} else {
			block = b.renderUserText(body)
		}
	default:
		block = b.renderUserText(model.Text{Text: b.Message.Text()})
	}

	label := b.theme.RoleLabel.Render(b.Message.Role.DisplayName())
	if b.Message.IsAssistant() {
		return lipgloss.JoinVertical(lipgloss.Left, label, block)
	}
	right := lipgloss.JoinVertical(lipgloss.Right, label, block)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, right)
}

func (b *MessageBubble) maxBubbleWidth() int {
	w := b.Width * 3 / 4
	if w < 20 {
		w = 20
	}
	return w
}

// ==========================================================================
// USER BUBBLE
// ==========================================================================

func (b *MessageBubble) renderUserText(body model.Text) string {
	content := strings.TrimRight(body.Text, "\n")
	if content == "" {
		content = "..."
	}
	// Borders and padding take four columns.
	inner := b.maxBubbleWidth() - 4
	if w := maxLineWidth(content); w < inner {
		inner = w
	}
	return b.theme.UserBubble.Width(inner + 2).Render(content)
}

// ==========================================================================
// ASSISTANT BUBBLE
// ==========================================================================

func (b *MessageBubble) renderAssistantText(body model.Text) string {
	inner := b.Width - 6
	return b.theme.AssistantBubble.Render(RenderMarkup(body.Text, inner, b.theme))
}

// ==========================================================================
// PDF CARD
// ==========================================================================

func (b *MessageBubble) renderPDFCard(body model.PDFAttachment) string {
	name := util.TruncateWidth(body.Filename, b.maxBubbleWidth()-10)
	return b.theme.PDFCard.Render(b.theme.PDFCardLabel.Render("PDF") + "  " + name)
}

// ThinkingBubble renders the placeholder reply shown while the answer is pending.
func ThinkingBubble(frame string, theme *styles.Theme) string {
	label := theme.RoleLabel.Render(model.RoleAssistant.DisplayName())
	return lipgloss.JoinVertical(lipgloss.Left, label, theme.ThinkingBubble.Render(frame+" Thinking..."))
}

// maxLineWidth returns the widest line of text in terminal columns.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if w := util.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}
