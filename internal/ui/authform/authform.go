// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package authform implements the sign-in / create-account screen.
package authform

import (
	"context"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cortex-tui/internal/auth"
	"github.com/jeranaias/cortex-tui/internal/session"
	"github.com/jeranaias/cortex-tui/internal/ui/nav"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

// Focusable elements, in tab order. fieldConsent is skipped in login mode.
type field int

const (
	fieldEmail field = iota
	fieldPassword
	fieldConsent
	fieldSubmit
	fieldCount
)

type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Submit     key.Binding
	Toggle     key.Binding
	SwitchMode key.Binding
	Terms      key.Binding
	Privacy    key.Binding
}

var keys = keyMap{
	Next:       key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
	Prev:       key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
	Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Toggle:     key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
	SwitchMode: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "switch sign in / sign up")),
	Terms:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "terms")),
	Privacy:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "privacy")),
}

// submitResultMsg carries the outcome of an asynchronous submit.
type submitResultMsg struct {
	mode   auth.Mode
	result auth.Result
	err    error
}

// Model is the auth screen.
type Model struct {
	backend auth.Backend

	mode     auth.Mode
	email    textinput.Model
	password textinput.Model
	accepted bool
	focus    field

	loading bool
	message string // error or notice shown under the form

	width  int
	height int
	theme  *styles.Theme
}

// New creates the auth screen in login mode with the email field focused.
func New(backend auth.Backend, theme *styles.Theme) Model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Prompt = ""
	email.Focus()

	password := textinput.New()
	password.Placeholder = "at least 6 characters"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128
	password.Prompt = ""

	return Model{
		backend:  backend,
		mode:     auth.ModeLogin,
		email:    email,
		password: password,
		theme:    theme,
	}
}

// Mode returns the current form mode.
func (m Model) Mode() auth.Mode { return m.mode }

// Message returns the error or notice currently shown.
func (m Model) Message() string { return m.message }

// Loading reports whether a submit is in flight.
func (m Model) Loading() bool { return m.loading }

// Form returns the current field values.
func (m Model) Form() auth.Form {
	return auth.Form{
		Mode:          m.mode,
		Email:         m.email.Value(),
		Password:      m.password.Value(),
		AcceptedTerms: m.accepted,
	}
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	w := 40
	if width-12 < w {
		w = width - 12
	}
	if w < 10 {
		w = 10
	}
	m.email.Width = w
	m.password.Width = w
}

// Reset clears every field, keeping the notice if any.
func (m *Model) Reset() {
	m.email.SetValue("")
	m.password.SetValue("")
	m.accepted = false
	m.loading = false
	m.setFocus(fieldEmail)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key input and submit results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		return m.handleResult(msg)
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.SwitchMode):
		m.switchMode()
		return m, nil
	case key.Matches(msg, keys.Terms):
		return m, nav.Navigate(session.RouteTerms)
	case key.Matches(msg, keys.Privacy):
		return m, nav.Navigate(session.RoutePrivacy)
	case key.Matches(msg, keys.Next):
		m.setFocus(m.nextField(1))
		return m, nil
	case key.Matches(msg, keys.Prev):
		m.setFocus(m.nextField(-1))
		return m, nil
	}

	if m.focus == fieldConsent && key.Matches(msg, keys.Toggle) {
		m.accepted = !m.accepted
		return m, nil
	}
	if key.Matches(msg, keys.Submit) {
		return m.submit()
	}
	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.email, cmd = m.email.Update(msg)
	cmds = append(cmds, cmd)
	m.password, cmd = m.password.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// nextField steps through the focus order, skipping the consent toggle in
// login mode.
func (m Model) nextField(dir int) field {
	f := m.focus
	for {
		f = (f + field(dir) + fieldCount) % fieldCount
		if f == fieldConsent && m.mode != auth.ModeRegister {
			continue
		}
		return f
	}
}

func (m *Model) setFocus(f field) {
	m.focus = f
	m.email.Blur()
	m.password.Blur()
	switch f {
	case fieldEmail:
		m.email.Focus()
	case fieldPassword:
		m.password.Focus()
	}
}

func (m *Model) switchMode() {
	if m.mode == auth.ModeLogin {
		m.mode = auth.ModeRegister
	} else {
		m.mode = auth.ModeLogin
	}
	m.message = ""
	m.Reset()
}

// submit validates locally and, when valid, starts the request. Invalid
// forms never reach the backend.
func (m Model) submit() (Model, tea.Cmd) {
	form := m.Form()
	if err := auth.Validate(form); err != nil {
		m.message = auth.Humanize(err)
		return m, nil
	}

	m.loading = true
	m.message = ""
	backend := m.backend
	return m, func() tea.Msg {
		res, err := auth.Submit(context.Background(), backend, form)
		return submitResultMsg{mode: form.Mode, result: res, err: err}
	}
}

func (m Model) handleResult(msg submitResultMsg) (Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		log.Printf("AUTH: %s failed: %v", msg.mode, msg.err)
		m.message = auth.Humanize(msg.err)
		return m, nil
	}

	if msg.result.SwitchToLogin {
		m.mode = auth.ModeLogin
		m.Reset()
	}
	m.message = msg.result.Notice
	if msg.result.Navigate != "" {
		m.password.SetValue("")
		return m, nav.Navigate(msg.result.Navigate)
	}
	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the form centred on screen.
func (m Model) View() string {
	title := "Welcome back"
	action := "Sign In"
	switchHint := "No account? ctrl+r to sign up"
	if m.mode == auth.ModeRegister {
		title = "Create your account"
		action = "Create Account"
		switchHint = "Have an account? ctrl+r to sign in"
	}

	rows := []string{
		m.theme.FormTitle.Render("CortexAI  " + title),
		m.label("Email", fieldEmail),
		m.email.View(),
		"",
		m.label("Password", fieldPassword),
		m.password.View(),
		"",
	}

	if m.mode == auth.ModeRegister {
		box := "[ ]"
		if m.accepted {
			box = "[x]"
		}
		consent := box + " I agree to the " + m.theme.Link.Render("Terms of Service") +
			" and " + m.theme.Link.Render("Privacy Policy")
		if m.focus == fieldConsent {
			consent = m.theme.FormLabelFocus.Render(">") + " " + consent
		} else {
			consent = "  " + consent
		}
		rows = append(rows, consent, m.theme.Help.Render("  ctrl+t terms  ctrl+p privacy"), "")
	}

	if m.loading {
		action = "Please wait..."
	}
	button := m.theme.Button.Render(action)
	if m.focus == fieldSubmit {
		button = m.theme.ButtonActive.Render(action)
	}
	rows = append(rows, button)

	if m.message != "" {
		style := m.theme.ErrorText
		if auth.IsNotice(m.message) {
			style = m.theme.NoticeText
		}
		rows = append(rows, "", style.Render(m.message))
	}
	rows = append(rows, "", m.theme.Help.Render(switchHint))

	form := m.theme.FormContainer.Render(strings.Join(rows, "\n"))
	if m.width <= 0 || m.height <= 0 {
		return form
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}

func (m Model) label(text string, f field) string {
	if m.focus == f {
		return m.theme.FormLabelFocus.Render(text)
	}
	return m.theme.FormLabel.Render(text)
}
