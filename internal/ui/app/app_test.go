// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cortex-tui/internal/api"
	"github.com/jeranaias/cortex-tui/internal/model"
	"github.com/jeranaias/cortex-tui/internal/session"
	"github.com/jeranaias/cortex-tui/internal/ui/nav"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

type fakeClient struct {
	logouts   int
	logoutErr error
}

func (f *fakeClient) Login(ctx context.Context, email, password string) error    { return nil }
func (f *fakeClient) Register(ctx context.Context, email, password string) error { return nil }
func (f *fakeClient) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	return nil, nil
}
func (f *fakeClient) DeleteConversation(ctx context.Context, id string) error { return nil }
func (f *fakeClient) Messages(ctx context.Context, id string) ([]model.Message, error) {
	return nil, nil
}
func (f *fakeClient) QueryPDF(ctx context.Context, q, id string) (string, error) { return "c1", nil }
func (f *fakeClient) UploadPDF(ctx context.Context, file api.Upload, id string) (string, error) {
	return "c1", nil
}
func (f *fakeClient) Logout(ctx context.Context) error {
	f.logouts++
	return f.logoutErr
}

type fakeSession struct {
	token   string
	onDisk  string
	cleared bool
}

func (s *fakeSession) Token() string { return s.token }
func (s *fakeSession) Reload() error { s.token = s.onDisk; return nil }
func (s *fakeSession) Clear() error {
	s.token, s.onDisk, s.cleared = "", "", true
	return nil
}

func newApp(t *testing.T, c *fakeClient, s *fakeSession, opts Options) Model {
	t.Helper()
	m := New(c, s, styles.NewTheme("dark"), opts)
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func stepCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func closeChat(t *testing.T, m Model) {
	t.Helper()
	t.Cleanup(func() { m.unmountChat() })
}

func TestInitialRouteWithoutSessionShowsLogin(t *testing.T) {
	m := newApp(t, &fakeClient{}, &fakeSession{}, Options{InitialRoute: session.RouteChat})
	m = step(t, m, nav.NavigateMsg{Path: session.RouteChat})

	if m.Route() != session.RouteHome {
		t.Fatalf("route = %q, want %q", m.Route(), session.RouteHome)
	}
	if m.ChatMounted() {
		t.Fatal("chat must not mount without a session")
	}
	if m.View() == "" {
		t.Fatal("login screen should render")
	}
}

func TestHomeWithSessionRedirectsToChat(t *testing.T) {
	m := newApp(t, &fakeClient{}, &fakeSession{token: "tok"}, Options{})
	m, cmd := stepCmd(t, m, nav.NavigateMsg{Path: session.RouteHome})
	closeChat(t, m)

	if m.Route() != session.RouteChat {
		t.Fatalf("route = %q, want %q", m.Route(), session.RouteChat)
	}
	if !m.ChatMounted() {
		t.Fatal("chat should be mounted")
	}
	if cmd == nil {
		t.Fatal("mounting chat should start its loaders")
	}
}

func TestLegalPageReturnsToPreviousRoute(t *testing.T) {
	m := newApp(t, &fakeClient{}, &fakeSession{}, Options{})
	m = step(t, m, nav.NavigateMsg{Path: session.RouteHome})
	m = step(t, m, nav.NavigateMsg{Path: session.RouteTerms})
	if m.Route() != session.RouteTerms {
		t.Fatalf("route = %q, want terms", m.Route())
	}

	m, cmd := stepCmd(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should navigate back")
	}
	m = step(t, m, cmd())
	if m.Route() != session.RouteHome {
		t.Fatalf("route = %q, want home", m.Route())
	}
}

func TestChatStaysMountedBehindLegalPage(t *testing.T) {
	m := newApp(t, &fakeClient{}, &fakeSession{token: "tok"}, Options{})
	m = step(t, m, nav.NavigateMsg{Path: session.RouteChat})
	closeChat(t, m)
	m = step(t, m, nav.NavigateMsg{Path: session.RoutePrivacy})

	if !m.ChatMounted() {
		t.Fatal("chat should survive a legal page visit")
	}
	m, cmd := stepCmd(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = step(t, m, cmd())
	if m.Route() != session.RouteChat {
		t.Fatalf("route = %q, want chat", m.Route())
	}
}

func TestLogoutClearsSessionEvenWhenRequestFails(t *testing.T) {
	c := &fakeClient{logoutErr: errors.New("offline")}
	s := &fakeSession{token: "tok", onDisk: "tok"}
	m := newApp(t, c, s, Options{})
	m = step(t, m, nav.NavigateMsg{Path: session.RouteChat})
	closeChat(t, m)

	m, cmd := stepCmd(t, m, nav.LogoutMsg{})
	if cmd == nil {
		t.Fatal("logout should issue a request")
	}
	m = step(t, m, cmd())

	if c.logouts != 1 {
		t.Fatalf("logouts = %d, want 1", c.logouts)
	}
	if !s.cleared {
		t.Fatal("session should be cleared")
	}
	if m.Route() != session.RouteHome || m.ChatMounted() {
		t.Fatalf("route = %q mounted = %v, want home and unmounted", m.Route(), m.ChatMounted())
	}
}

func TestSessionChangeOnDiskReroutes(t *testing.T) {
	changes := make(chan struct{}, 1)
	s := &fakeSession{token: "tok", onDisk: "tok"}
	m := newApp(t, &fakeClient{}, s, Options{SessionChanges: changes})
	m = step(t, m, nav.NavigateMsg{Path: session.RouteChat})
	closeChat(t, m)

	s.onDisk = ""
	changes <- struct{}{}
	msg := m.listenSession()()
	if _, ok := msg.(sessionChangedMsg); !ok {
		t.Fatalf("listener returned %T", msg)
	}
	m = step(t, m, msg)

	if m.Route() != session.RouteHome {
		t.Fatalf("route = %q, want home after session removal", m.Route())
	}
	if m.ChatMounted() {
		t.Fatal("chat should be unmounted")
	}
}

func TestSessionListenerStopsWhenChannelCloses(t *testing.T) {
	changes := make(chan struct{})
	m := newApp(t, &fakeClient{}, &fakeSession{}, Options{SessionChanges: changes})
	close(changes)
	if msg := m.listenSession()(); msg != nil {
		t.Fatalf("closed channel should yield nil, got %T", msg)
	}
	if New(&fakeClient{}, &fakeSession{}, styles.NewTheme("dark"), Options{}).listenSession() != nil {
		t.Fatal("no channel means no listener")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newApp(t, &fakeClient{}, &fakeSession{token: "tok"}, Options{})
	m = step(t, m, nav.NavigateMsg{Path: session.RouteChat})

	_, cmd := stepCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected QuitMsg")
	}
}
