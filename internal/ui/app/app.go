// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model of the cortex TUI. It owns the
// screens and routes between them; every navigation, including the first,
// goes through the session guard with the current token.
package app

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cortex-tui/internal/auth"
	"github.com/jeranaias/cortex-tui/internal/session"
	"github.com/jeranaias/cortex-tui/internal/ui/authform"
	"github.com/jeranaias/cortex-tui/internal/ui/chat"
	"github.com/jeranaias/cortex-tui/internal/ui/legal"
	"github.com/jeranaias/cortex-tui/internal/ui/nav"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

// Client is the backend surface the TUI needs.
type Client interface {
	auth.Backend
	chat.Backend
	Logout(ctx context.Context) error
}

// Session is the persisted login state.
type Session interface {
	Token() string
	Reload() error
	Clear() error
}

// Options configures the root model.
type Options struct {
	// InitialRoute is the first route requested. Empty means "/".
	InitialRoute string
	// SessionChanges signals that the session file changed on disk.
	// Nil disables watching.
	SessionChanges <-chan struct{}
	// Chat configures the chat screen each time it is mounted.
	Chat chat.Options
}

// sessionChangedMsg is sent when the session file changed on disk.
type sessionChangedMsg struct{}

// logoutDoneMsg reports the end of a logout request.
type logoutDoneMsg struct {
	err error
}

// Model is the root model.
type Model struct {
	client  Client
	session Session
	opts    Options

	route       string
	auth        authform.Model
	legal       legal.Model
	chat        chat.Model
	chatMounted bool

	width  int
	height int
	theme  *styles.Theme
}

// New creates the root model. Nothing is shown until Init navigates to the
// initial route.
func New(client Client, sess Session, theme *styles.Theme, opts Options) Model {
	if opts.InitialRoute == "" {
		opts.InitialRoute = session.RouteHome
	}
	return Model{
		client:  client,
		session: sess,
		opts:    opts,
		auth:    authform.New(client, theme),
		legal:   legal.New(theme),
		theme:   theme,
	}
}

// Route returns the route currently shown.
func (m Model) Route() string { return m.route }

// ChatMounted reports whether the chat screen is live.
func (m Model) ChatMounted() bool { return m.chatMounted }

// Init navigates to the initial route and starts watching the session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		nav.Navigate(m.opts.InitialRoute),
		m.auth.Init(),
		m.listenSession(),
	)
}

func (m Model) listenSession() tea.Cmd {
	ch := m.opts.SessionChanges
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return sessionChangedMsg{}
	}
}

// Update routes messages. Keys go to the screen being shown; everything
// else goes to every live screen so background work keeps flowing while
// another screen is in front.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.auth.SetSize(msg.Width, msg.Height)
		m.legal.SetSize(msg.Width, msg.Height)
		if m.chatMounted {
			m.chat.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.shutdown()
			return m, tea.Quit
		}
		return m.updateActive(msg)

	case nav.NavigateMsg:
		return m.navigate(msg.Path)

	case nav.LogoutMsg:
		client := m.client
		return m, func() tea.Msg {
			return logoutDoneMsg{err: client.Logout(context.Background())}
		}

	case logoutDoneMsg:
		if msg.err != nil {
			log.Printf("SESSION: logout request failed, clearing local session anyway: %v", msg.err)
		}
		if err := m.session.Clear(); err != nil {
			log.Printf("SESSION: clear failed: %v", err)
		}
		m.unmountChat()
		return m.navigate(session.RouteHome)

	case sessionChangedMsg:
		if err := m.session.Reload(); err != nil {
			log.Printf("SESSION: reload failed: %v", err)
		}
		next, cmd := m.navigate(m.route)
		return next, tea.Batch(cmd, m.listenSession())
	}

	return m.updateAll(msg)
}

// navigate applies the guard and switches screens.
func (m Model) navigate(path string) (tea.Model, tea.Cmd) {
	target := session.Resolve(path, m.session.Token())
	if target != path {
		log.Printf("ROUTER: %s redirected to %s", path, target)
	}

	var cmd tea.Cmd
	switch target {
	case session.RouteChat:
		if !m.chatMounted {
			m.chat = chat.New(m.client, m.theme, m.opts.Chat)
			m.chat.SetSize(m.width, m.height)
			m.chatMounted = true
			cmd = m.chat.Init()
		}
	case session.RouteTerms, session.RoutePrivacy:
		page, _ := legal.PageForRoute(target)
		m.legal.Open(page, m.route)
	default:
		target = session.RouteHome
		m.unmountChat()
	}

	m.route = target
	return m, cmd
}

func (m *Model) unmountChat() {
	if !m.chatMounted {
		return
	}
	m.chat.Close()
	m.chatMounted = false
}

func (m *Model) shutdown() {
	m.unmountChat()
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.route {
	case session.RouteChat:
		if m.chatMounted {
			m.chat, cmd = m.chat.Update(msg)
		}
	case session.RouteTerms, session.RoutePrivacy:
		m.legal, cmd = m.legal.Update(msg)
	default:
		m.auth, cmd = m.auth.Update(msg)
	}
	return m, cmd
}

func (m Model) updateAll(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.auth, cmd = m.auth.Update(msg)
	cmds = append(cmds, cmd)
	if m.chatMounted {
		m.chat, cmd = m.chat.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View renders the screen for the current route.
func (m Model) View() string {
	switch m.route {
	case session.RouteChat:
		if m.chatMounted {
			return m.chat.View()
		}
	case session.RouteTerms, session.RoutePrivacy:
		return m.legal.View()
	case session.RouteHome:
		return m.auth.View()
	}
	return ""
}
