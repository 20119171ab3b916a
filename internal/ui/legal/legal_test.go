// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package legal

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cortex-tui/internal/session"
	"github.com/jeranaias/cortex-tui/internal/ui/nav"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

func TestPagesAreEmbedded(t *testing.T) {
	for _, p := range []Page{Terms, Privacy} {
		if !strings.Contains(p.Markdown(), p.Title()) {
			t.Errorf("%s markdown should contain its title", p.Title())
		}
	}
}

func TestPageForRoute(t *testing.T) {
	if p, ok := PageForRoute(session.RouteTerms); !ok || p != Terms {
		t.Error("terms route should map to Terms")
	}
	if p, ok := PageForRoute(session.RoutePrivacy); !ok || p != Privacy {
		t.Error("privacy route should map to Privacy")
	}
	if _, ok := PageForRoute(session.RouteChat); ok {
		t.Error("chat route is not a legal page")
	}
}

func TestRender(t *testing.T) {
	out, err := Render(Privacy, 80, "dark")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Privacy Policy") {
		t.Error("rendered page should contain its heading")
	}
}

func TestModel_BackNavigatesToOrigin(t *testing.T) {
	m := New(styles.NewTheme("dark"))
	m.SetSize(80, 24)
	m.Open(Terms, session.RouteHome)

	// Switching pages keeps the original return route.
	m.Open(Privacy, session.RouteTerms)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should produce a navigation command")
	}
	msg, ok := cmd().(nav.NavigateMsg)
	if !ok || msg.Path != session.RouteHome {
		t.Errorf("esc navigated to %+v, want %s", msg, session.RouteHome)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	msg, ok = cmd().(nav.NavigateMsg)
	if !ok || msg.Path != session.RouteTerms {
		t.Errorf("tab navigated to %+v, want %s", msg, session.RouteTerms)
	}
}
