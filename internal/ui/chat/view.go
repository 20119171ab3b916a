// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cortex-tui/internal/model"
	"github.com/jeranaias/cortex-tui/internal/ui/components"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

// Fixed rows around the transcript: header, composer box, footer.
const (
	headerHeight   = 1
	composerHeight = 5 // three text rows plus the border
	footerHeight   = 1
)

// =============================================================================
// LAYOUT
// =============================================================================

// SetSize updates the screen dimensions and lays out the children.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	m.sidebar.SetSize(m.sidebarWidth, height)

	main := m.mainWidth()
	m.input.SetWidth(main - 4)
	m.fileInput.Width = main - 4 - len(m.fileInput.Prompt)

	vh := height - headerHeight - composerHeight - footerHeight
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = main
	m.viewport.Height = vh
	m.refreshTranscript(true)
}

func (m Model) showSidebar() bool {
	return m.theme.GetLayoutMode() != styles.LayoutNarrow
}

func (m Model) mainWidth() int {
	w := m.width
	if m.showSidebar() {
		w -= m.sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// refreshTranscript re-renders the transcript into the viewport. The view
// stays pinned to the bottom when it already was, or when toBottom is set.
func (m *Model) refreshTranscript(toBottom bool) {
	atBottom := m.viewport.AtBottom()
	content := components.TranscriptView{
		Messages: m.sync.Messages(),
		Thinking: m.sync.Thinking(),
		Frame:    m.indicator.Frame(),
		Width:    m.viewport.Width - 1,
		Height:   m.viewport.Height,
	}.Render(m.theme)
	m.viewport.SetContent(content)
	if toBottom || atBottom {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if m.dialog.IsVisible() {
		return m.dialog.View(m.width, m.height)
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderComposer(),
		m.renderFooter(),
	)
	if !m.showSidebar() {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), main)
}

func (m Model) renderHeader() string {
	title := "New Chat"
	var docs []string
	if id := m.sync.ActiveID(); id != "" {
		title = model.UntitledConversation
		if c, ok := m.dir.Find(id); ok {
			title = c.DisplayTitle()
			docs = c.DocumentBadges(3)
		}
	}
	return components.Header{
		Title:     title,
		Documents: docs,
		Indicator: m.indicator.View(m.sync.Uploading(), m.sync.Thinking()),
		Width:     m.mainWidth(),
	}.View(m.theme)
}

func (m Model) renderComposer() string {
	style := m.theme.InputContainer
	if m.Disabled() || m.focus != focusComposer {
		style = m.theme.InputContainerDisabled
	}

	var body string
	switch {
	case m.filePrompt:
		body = m.fileInput.View() + "\n" + m.theme.Help.Render("space separates files, quote paths with spaces  enter upload  esc cancel")
	case m.Disabled():
		label := components.IndicatorLabel(m.sync.Uploading(), m.sync.Thinking())
		if label == "" {
			label = "Sending..."
		}
		body = m.theme.Muted.Render("Waiting for Cortex (" + label + ")")
	default:
		body = m.input.View()
	}

	return style.Width(m.mainWidth() - 2).Height(composerHeight - 2).Render(body)
}

func (m Model) renderFooter() string {
	if m.status != "" {
		style := m.theme.NoticeText
		marker := styles.StatusIndicators.Success
		if m.statusError {
			style = m.theme.ErrorText
			marker = styles.StatusIndicators.Error
		}
		return style.Render(marker + " " + m.status)
	}

	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.theme.Help.MaxWidth(m.mainWidth()).Render(strings.Join(parts, "  "))
}
