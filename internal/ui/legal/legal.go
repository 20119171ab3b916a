// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package legal renders the Terms of Service and Privacy Policy screens.
package legal

import (
	_ "embed"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cortex-tui/internal/session"
	"github.com/jeranaias/cortex-tui/internal/ui/nav"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

//go:embed terms.md
var termsMarkdown string

//go:embed privacy.md
var privacyMarkdown string

// Page identifies a legal document.
type Page int

const (
	Terms Page = iota
	Privacy
)

// Title returns the page heading.
func (p Page) Title() string {
	if p == Privacy {
		return "Privacy Policy"
	}
	return "Terms of Service"
}

// Route returns the router path of the page.
func (p Page) Route() string {
	if p == Privacy {
		return session.RoutePrivacy
	}
	return session.RouteTerms
}

// Markdown returns the page source.
func (p Page) Markdown() string {
	if p == Privacy {
		return privacyMarkdown
	}
	return termsMarkdown
}

// PageForRoute maps a router path to a page.
func PageForRoute(path string) (Page, bool) {
	switch path {
	case session.RouteTerms:
		return Terms, true
	case session.RoutePrivacy:
		return Privacy, true
	}
	return Terms, false
}

// Render renders a page with glamour at the given wrap width.
func Render(p Page, width int, style string) (string, error) {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(p.Markdown())
	if err != nil {
		return "", fmt.Errorf("render %s: %w", p.Title(), err)
	}
	return out, nil
}

// =============================================================================
// MODEL
// =============================================================================

type keyMap struct {
	Back  key.Binding
	Other key.Binding
}

var keys = keyMap{
	Back:  key.NewBinding(key.WithKeys("esc", "q", "b"), key.WithHelp("esc", "back")),
	Other: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "other policy")),
}

// Model is a scrollable legal page. Back returns to the route it was opened
// from.
type Model struct {
	page     Page
	back     string
	viewport viewport.Model
	width    int
	height   int
	theme    *styles.Theme
}

// New creates a legal page screen.
func New(theme *styles.Theme) Model {
	return Model{theme: theme, back: session.RouteHome, viewport: viewport.New(80, 20)}
}

// Open shows page p; back is the route to return to.
func (m *Model) Open(p Page, back string) {
	m.page = p
	if back != "" && back != session.RouteTerms && back != session.RoutePrivacy {
		m.back = back
	}
	m.refresh()
	m.viewport.GotoTop()
}

// Page returns the page being shown.
func (m Model) Page() Page { return m.page }

// SetSize updates the dimensions and re-renders the page.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.refresh()
}

func (m *Model) refresh() {
	out, err := Render(m.page, m.width-4, m.theme.GlamourStyle())
	if err != nil {
		log.Printf("LEGAL: %v", err)
		out = m.page.Markdown()
	}
	m.viewport.SetContent(out)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update handles scrolling and navigation keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Back):
			return m, nav.Navigate(m.back)
		case key.Matches(km, keys.Other):
			other := Privacy
			if m.page == Privacy {
				other = Terms
			}
			return m, nav.Navigate(other.Route())
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the page with a one-line title and help footer.
func (m Model) View() string {
	title := m.theme.HeaderTitle.Render("CortexAI") + "  " + m.theme.HeaderSubtitle.Render(m.page.Title())
	help := m.theme.Help.Render("up/down scroll  tab " + otherTitle(m.page) + "  esc back")
	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), help)
}

func otherTitle(p Page) string {
	if p == Privacy {
		return Terms.Title()
	}
	return Privacy.Title()
}
