// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authform

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cortex-tui/internal/api"
	"github.com/jeranaias/cortex-tui/internal/auth"
	"github.com/jeranaias/cortex-tui/internal/session"
	"github.com/jeranaias/cortex-tui/internal/ui/nav"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

type fakeBackend struct {
	calls       int
	loginErr    error
	registerErr error
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) error {
	f.calls++
	return f.loginErr
}

func (f *fakeBackend) Register(ctx context.Context, email, password string) error {
	f.calls++
	return f.registerErr
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

func newForm(b *fakeBackend) Model {
	m := New(b, styles.NewTheme("dark"))
	m.SetSize(80, 30)
	return m
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return m.Update(cmd())
}

func TestSubmit_InvalidFormSendsNothing(t *testing.T) {
	b := &fakeBackend{}
	m := newForm(b)

	m, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Error("invalid form should not start a request")
	}
	if m.Message() != auth.MsgFillAllFields {
		t.Errorf("message = %q, want %q", m.Message(), auth.MsgFillAllFields)
	}

	m = typeText(m, "not-an-email")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "secret")
	m, _ = press(m, tea.KeyEnter)
	if m.Message() != auth.MsgInvalidEmail {
		t.Errorf("message = %q, want %q", m.Message(), auth.MsgInvalidEmail)
	}
	if b.calls != 0 {
		t.Errorf("backend called %d times, want 0", b.calls)
	}
}

func TestSubmit_LoginNavigatesToChat(t *testing.T) {
	b := &fakeBackend{}
	m := newForm(b)

	m = typeText(m, "ada@example.com")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "secret1")
	m, cmd := press(m, tea.KeyEnter)
	if !m.Loading() {
		t.Error("form should be loading while the request runs")
	}

	m, cmd = run(t, m, cmd)
	if m.Loading() {
		t.Error("loading should clear after the result")
	}
	if cmd == nil {
		t.Fatal("successful login should navigate")
	}
	if got, ok := cmd().(nav.NavigateMsg); !ok || got.Path != session.RouteChat {
		t.Errorf("login should navigate to %s, got %+v", session.RouteChat, got)
	}
	if b.calls != 1 {
		t.Errorf("backend called %d times, want 1", b.calls)
	}
}

func TestSubmit_LoginFailureIsHumanized(t *testing.T) {
	b := &fakeBackend{loginErr: &api.Error{Status: 401, Message: "Invalid credentials"}}
	m := newForm(b)

	m = typeText(m, "ada@example.com")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "secret1")
	m, cmd := press(m, tea.KeyEnter)
	m, _ = run(t, m, cmd)

	if m.Message() != auth.MsgBadCredentials {
		t.Errorf("message = %q, want %q", m.Message(), auth.MsgBadCredentials)
	}
}

func TestRegister_RequiresConsentThenSwitchesToLogin(t *testing.T) {
	b := &fakeBackend{}
	m := newForm(b)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.Mode() != auth.ModeRegister {
		t.Fatal("ctrl+r should switch to register mode")
	}

	m = typeText(m, "ada@example.com")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "secret1")
	m, _ = press(m, tea.KeyEnter)
	if m.Message() != auth.MsgAcceptTerms {
		t.Fatalf("message = %q, want %q", m.Message(), auth.MsgAcceptTerms)
	}

	// Tab to the consent toggle and tick it.
	m, _ = press(m, tea.KeyTab)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.Form().AcceptedTerms {
		t.Fatal("space on the consent row should accept the terms")
	}

	m, _ = press(m, tea.KeyTab)
	m, cmd := press(m, tea.KeyEnter)
	m, _ = run(t, m, cmd)

	if m.Mode() != auth.ModeLogin {
		t.Error("successful registration should switch to login mode")
	}
	if m.Message() != auth.MsgAccountCreated {
		t.Errorf("message = %q, want %q", m.Message(), auth.MsgAccountCreated)
	}
	if f := m.Form(); f.Email != "" || f.Password != "" || f.AcceptedTerms {
		t.Errorf("form should be cleared after registration, got %+v", f)
	}
	if !strings.Contains(m.View(), auth.MsgAccountCreated) {
		t.Error("notice should be rendered")
	}
}

func TestLoginModeSkipsConsent(t *testing.T) {
	m := newForm(&fakeBackend{})
	m, _ = press(m, tea.KeyTab) // password
	m, _ = press(m, tea.KeyTab) // submit
	if m.focus != fieldSubmit {
		t.Errorf("focus = %d, want submit", m.focus)
	}
	if strings.Contains(m.View(), "I agree") {
		t.Error("login mode should not show the consent toggle")
	}
}

func TestLegalShortcuts(t *testing.T) {
	m := newForm(&fakeBackend{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if got, ok := cmd().(nav.NavigateMsg); !ok || got.Path != session.RouteTerms {
		t.Errorf("ctrl+t should open terms, got %+v", got)
	}
}
