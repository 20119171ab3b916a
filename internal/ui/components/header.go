// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cortex-tui/internal/ui/styles"
	"github.com/jeranaias/cortex-tui/internal/util"
)

// =============================================================================
// HEADER
// =============================================================================

// Header is the bar above the transcript: conversation title on the left,
// activity indicator on the right.
type Header struct {
	Title     string
	Documents []string
	Indicator string
	Width     int
}

// View renders the header one line tall.
func (h Header) View(theme *styles.Theme) string {
	right := h.Indicator
	rightWidth := lipgloss.Width(right)

	// Header has one column of padding on each side.
	avail := h.Width - 2 - rightWidth - 1
	if avail < 4 {
		avail = 4
	}

	title := util.TruncateWidth(util.SingleLine(h.Title), avail)
	left := theme.HeaderTitle.Render(title)
	if len(h.Documents) > 0 {
		room := avail - util.StringWidth(title) - 3
		if room > 6 {
			docs := util.TruncateWidth(strings.Join(h.Documents, ", "), room)
			left += theme.HeaderSubtitle.Render("  " + docs)
		}
	}

	gap := h.Width - 2 - lipgloss.Width(left) - rightWidth
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return theme.Header.Width(h.Width).MaxHeight(1).Render(line)
}
