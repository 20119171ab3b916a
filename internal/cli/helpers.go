// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared rendering helpers for the cortex commands.

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/cortex-tui/internal/model"
	"github.com/jeranaias/cortex-tui/internal/util"
)

// renderMarkdown renders an assistant answer for the terminal. Piped output
// and renderer failures get the raw text.
func renderMarkdown(content string) string {
	if !ColorsEnabled() {
		return content
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()-4),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// printMessage writes one transcript entry.
func printMessage(w io.Writer, m model.Message) {
	label := RoleStyle.Render(m.Role.DisplayName())
	switch body := m.Body.(type) {
	case model.PDFAttachment:
		fmt.Fprintf(w, "%s  %s\n", label, DimStyle.Render("[PDF] "+body.Filename))
	case model.Text:
		if m.Role == model.RoleAssistant {
			fmt.Fprintln(w, label)
			fmt.Fprintln(w, renderMarkdown(body.Text))
		} else {
			fmt.Fprintf(w, "%s  %s\n", label, body.Text)
		}
	}
}

// printTranscript writes every message separated by blank lines.
func printTranscript(w io.Writer, msgs []model.Message) {
	for i, m := range msgs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printMessage(w, m)
	}
}

// conversationRow formats a conversation for the list view.
func conversationRow(c model.Conversation, width int) string {
	title := util.PadRight(util.TruncateWidth(util.SingleLine(c.DisplayTitle()), width), width)
	badges := strings.Join(c.DocumentBadges(2), ", ")
	return fmt.Sprintf("%s  %s  %s", DimStyle.Render(util.PadRight(c.ID, 10)), ValueStyle.Render(title), DimStyle.Render(badges))
}

// formatDurationShort formats an elapsed time for summaries.
func formatDurationShort(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", m, s)
}
