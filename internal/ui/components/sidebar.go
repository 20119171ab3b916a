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
// SIDEBAR
// =============================================================================

// Sidebar texts.
const (
	SidebarLoading = "Loading..."
	SidebarEmpty   = "No conversations yet"
	NewChatLabel   = "+ New Chat"
)

// SidebarBadgeLimit is how many document names a history row shows before
// collapsing the rest into "+N more".
const SidebarBadgeLimit = 2

// Sidebar lists the conversation history. The cursor moves independently of
// the active conversation; enter on the cursor row selects it.
type Sidebar struct {
	items   []model.Conversation
	active  string
	cursor  int
	loaded  bool
	focused bool

	width  int
	height int
	theme  *styles.Theme
}

// NewSidebar creates an empty sidebar that shows "Loading..." until items arrive.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{theme: theme, width: 32}
}

// SetSize updates the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the rendered width including the border.
func (s *Sidebar) Width() int { return s.width }

// SetItems replaces the history list and marks it loaded.
func (s *Sidebar) SetItems(items []model.Conversation) {
	s.items = items
	s.loaded = true
	s.clampCursor()
}

// SetLoading puts the sidebar back into its loading state.
func (s *Sidebar) SetLoading() {
	s.loaded = false
}

// SetActive highlights the conversation with the given id ("" for none).
func (s *Sidebar) SetActive(id string) {
	s.active = id
	for i, c := range s.items {
		if c.ID == id {
			s.cursor = i
			return
		}
	}
}

// Focus gives the sidebar keyboard focus.
func (s *Sidebar) Focus() { s.focused = true }

// Blur removes keyboard focus.
func (s *Sidebar) Blur() { s.focused = false }

// Focused reports whether the sidebar has focus.
func (s *Sidebar) Focused() bool { return s.focused }

// MoveUp moves the cursor one row up.
func (s *Sidebar) MoveUp() {
	s.cursor--
	s.clampCursor()
}

// MoveDown moves the cursor one row down.
func (s *Sidebar) MoveDown() {
	s.cursor++
	s.clampCursor()
}

// Cursor returns the conversation under the cursor.
func (s *Sidebar) Cursor() (model.Conversation, bool) {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return model.Conversation{}, false
	}
	return s.items[s.cursor], true
}

func (s *Sidebar) clampCursor() {
	if s.cursor >= len(s.items) {
		s.cursor = len(s.items) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	inner := s.width - 3 // right border plus horizontal padding
	if inner < 8 {
		inner = 8
	}

	lines := []string{
		s.theme.SidebarTitle.Render("Cortex"),
		s.theme.NewChatButton.Render(NewChatLabel) + " " + s.theme.Help.Render("ctrl+n"),
		"",
		s.theme.FormLabel.Render("History"),
	}

	switch {
	case !s.loaded:
		lines = append(lines, s.theme.SidebarMuted.Render(SidebarLoading))
	case len(s.items) == 0:
		lines = append(lines, s.theme.SidebarMuted.Render(SidebarEmpty))
	default:
		lines = append(lines, s.renderItems(inner)...)
	}

	body := strings.Join(lines, "\n")
	footer := s.theme.Help.Render("ctrl+d delete  ctrl+l logout")

	style := s.theme.Sidebar.Width(s.width - 1)
	if s.height > 0 {
		gap := s.height - lipgloss.Height(body) - lipgloss.Height(footer)
		if gap < 1 {
			gap = 1
		}
		body += strings.Repeat("\n", gap) + footer
		style = style.Height(s.height)
	} else {
		body += "\n\n" + footer
	}
	return style.Render(body)
}

func (s *Sidebar) renderItems(inner int) []string {
	var lines []string
	for i, c := range s.items {
		marker := "  "
		if s.focused && i == s.cursor {
			marker = s.theme.SidebarCursor.Render("> ")
		}

		titleStyle := s.theme.SidebarItem
		if c.ID == s.active {
			titleStyle = s.theme.SidebarItemActive
		}
		title := util.TruncateWidth(util.SingleLine(c.DisplayTitle()), inner-2)
		lines = append(lines, marker+titleStyle.Render(title))

		if badges := c.DocumentBadges(SidebarBadgeLimit); len(badges) > 0 {
			for j := range badges {
				if j < len(c.Documents) && j < SidebarBadgeLimit {
					badges[j] = util.TruncateWidth(badges[j], (inner-4)/len(badges))
				}
			}
			lines = append(lines, "    "+s.theme.SidebarBadge.Render(strings.Join(badges, " ")))
		}
	}
	return lines
}
