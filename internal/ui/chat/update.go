// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cortex-tui/internal/composer"
	"github.com/jeranaias/cortex-tui/internal/directory"
	"github.com/jeranaias/cortex-tui/internal/session"
	"github.com/jeranaias/cortex-tui/internal/transcript"
	"github.com/jeranaias/cortex-tui/internal/ui/components"
	"github.com/jeranaias/cortex-tui/internal/ui/nav"
)

// Status messages.
const (
	MsgLoadConversationsFailed = "Failed to load conversations"
	MsgLoadHistoryFailed       = "Failed to load conversation"
	MsgNothingToCopy           = "No answer to copy yet"
)

// Update handles messages for the chat screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case conversationsMsg:
		return m.handleConversations(msg)

	case historyMsg:
		return m.handleHistory(msg)

	case eventMsg:
		return m.handleEvent(msg)

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case pollMsg:
		return m.handlePoll(msg)

	case deleteResultMsg:
		return m.handleDeleteResult(msg)

	case copiedMsg:
		switch {
		case errors.Is(msg.err, errNothingToCopy):
			m.setStatus(MsgNothingToCopy, false)
		case msg.err != nil:
			m.setStatus("Failed to copy: "+msg.err.Error(), true)
		default:
			m.setStatus(fmt.Sprintf("Copied answer to clipboard (%d chars)", msg.chars), false)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.indicator, cmd = m.indicator.Update(msg)
		if m.sync.Thinking() {
			m.refreshTranscript(false)
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

// =============================================================================
// BACKEND RESULTS
// =============================================================================

func (m Model) handleConversations(msg conversationsMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("DIRECTORY: list failed: %v", msg.err)
		m.setStatus(MsgLoadConversationsFailed, true)
		m.sidebar.SetItems(m.dir.Items())
		return m, nil
	}
	m.dir.SetItems(msg.items)
	m.sidebar.SetItems(m.dir.Items())
	m.sidebar.SetActive(m.dir.Active())
	return m, nil
}

func (m Model) handleHistory(msg historyMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		if msg.generation == m.sync.Generation() {
			log.Printf("TRANSCRIPT: load %s failed: %v", msg.id, msg.err)
			m.setStatus(MsgLoadHistoryFailed, true)
		}
		return m, nil
	}
	if m.sync.LoadHistory(msg.generation, msg.id, msg.messages) {
		m.refreshTranscript(true)
	}
	return m, nil
}

func (m Model) handleEvent(msg eventMsg) (Model, tea.Cmd) {
	cmds := []tea.Cmd{m.listenEvents()}
	ev := msg.event
	if m.sync.Apply(ev) {
		if ev.Kind == transcript.EventConversationCreated && m.sync.ActiveID() == ev.ConversationID {
			m.dir.Created(ev.ConversationID)
			m.sidebar.SetItems(m.dir.Items())
			m.sidebar.SetActive(ev.ConversationID)
		}
		m.refreshTranscript(true)
	}
	cmds = append(cmds, m.indicator.Sync(m.sync.Busy()))
	return m, tea.Batch(cmds...)
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (Model, tea.Cmd) {
	m.submitting = false
	cmds := []tea.Cmd{m.listenEvents()}

	if msg.err != nil {
		m.sync.Apply(transcript.Event{Generation: msg.generation, Kind: transcript.EventSubmitFailed})
		m.refreshTranscript(false)
		// Backend failures only clear the indicators; the log has the cause.
		if isInputError(msg.err) {
			m.setStatus(inputErrorText(msg.err), true)
		} else {
			log.Printf("COMPOSER: %s failed: %v", msg.kind, msg.err)
		}
	}
	cmds = append(cmds, m.indicator.Sync(m.sync.Busy()))
	return m, tea.Batch(cmds...)
}

// isInputError reports whether err was raised before anything was sent.
func isInputError(err error) bool {
	var notPDF *composer.NotPDFError
	return errors.As(err, &notPDF) || errors.Is(err, composer.ErrNoFiles)
}

func inputErrorText(err error) string {
	var notPDF *composer.NotPDFError
	if errors.As(err, &notPDF) {
		return "Only PDF files can be uploaded: " + notPDF.Error()
	}
	if errors.Is(err, composer.ErrNoFiles) {
		return "No files selected"
	}
	return err.Error()
}

func (m Model) handlePoll(msg pollMsg) (Model, tea.Cmd) {
	cmds := []tea.Cmd{m.listenPoll()}
	wasAwaiting := m.sync.State() == transcript.AwaitingReply

	if m.sync.ApplyPoll(msg.result) {
		m.refreshTranscript(false)
	}

	// A finished reply in a conversation the list only knows by id: fetch
	// the list again for its title and documents.
	if wasAwaiting && m.sync.State() == transcript.Idle {
		if c, ok := m.dir.Find(m.sync.ActiveID()); ok && c.Title == "" {
			m.dir.Invalidate()
			cmds = append(cmds, m.loadConversations())
		}
	}
	cmds = append(cmds, m.indicator.Sync(m.sync.Busy()))
	return m, tea.Batch(cmds...)
}

func (m Model) handleDeleteResult(msg deleteResultMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("DIRECTORY: delete %s failed: %v", msg.id, msg.err)
		m.setStatus(directory.DeleteFailedMessage, true)
		return m, nil
	}

	wasActive := m.dir.Remove(msg.id)
	m.sidebar.SetItems(m.dir.Items())
	m.setStatus("Conversation deleted", false)
	if wasActive {
		m.newChat()
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.dialog.IsVisible() {
		return m.handleDialogKey(msg)
	}
	if m.filePrompt {
		return m.handleFilePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NewChat):
		m.newChat()
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.requestDelete()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.dir.Invalidate()
		m.sidebar.SetLoading()
		return m, m.loadConversations()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyLastAnswer()
	case key.Matches(msg, m.keys.Logout):
		return m, nav.Logout()
	case key.Matches(msg, m.keys.Terms):
		return m, nav.Navigate(session.RouteTerms)
	case key.Matches(msg, m.keys.Privacy):
		return m, nav.Navigate(session.RoutePrivacy)
	case key.Matches(msg, m.keys.AttachFiles):
		return m.openFilePrompt()
	case key.Matches(msg, m.keys.SwitchFocus):
		m.toggleFocus()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}

	if key.Matches(msg, m.keys.Submit) {
		return m.submitQuestion()
	}
	if m.Disabled() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebar.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.sidebar.MoveDown()
	case key.Matches(msg, m.keys.Select):
		if c, ok := m.sidebar.Cursor(); ok {
			cmd := m.selectConversation(c.ID)
			m.toggleFocus()
			return m, cmd
		}
	case key.Matches(msg, m.keys.Cancel):
		m.toggleFocus()
	}
	return m, nil
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "left", "right", "h", "l":
		m.dialog.Toggle()
	case "esc", "n":
		m.dialog.Hide()
		m.dir.CancelDelete()
	case "y":
		return m.confirmDelete()
	case "enter":
		if m.dialog.Selected() == components.ButtonConfirm {
			return m.confirmDelete()
		}
		m.dialog.Hide()
		m.dir.CancelDelete()
	}
	return m, nil
}

func (m Model) handleFilePromptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeFilePrompt()
		return m, nil
	case tea.KeyEnter:
		paths := splitPaths(m.fileInput.Value())
		m.closeFilePrompt()
		return m.submitFiles(paths)
	}
	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)
	return m, cmd
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.fileInput, cmd = m.fileInput.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) submitQuestion() (Model, tea.Cmd) {
	text := m.input.Value()
	if !composer.Ready(text, m.Disabled()) {
		return m, nil
	}
	m.input.Reset()
	m.submitting = true
	m.clearStatus()
	return m, m.submitQuestionCmd(text)
}

func (m Model) submitFiles(paths []string) (Model, tea.Cmd) {
	if m.Disabled() {
		return m, nil
	}
	if err := composer.CheckFiles(paths); err != nil {
		m.setStatus(inputErrorText(err), true)
		return m, nil
	}
	m.submitting = true
	m.clearStatus()
	return m, m.submitFilesCmd(paths)
}

func (m Model) openFilePrompt() (Model, tea.Cmd) {
	if m.Disabled() {
		return m, nil
	}
	m.filePrompt = true
	m.fileInput.SetValue("")
	m.input.Blur()
	return m, m.fileInput.Focus()
}

func (m *Model) closeFilePrompt() {
	m.filePrompt = false
	m.fileInput.Blur()
	if m.focus == focusComposer {
		m.input.Focus()
	}
}

// selectConversation stops any poll loop, switches the transcript and
// fetches the conversation's history.
func (m *Model) selectConversation(id string) tea.Cmd {
	gen := m.sync.Select(id)
	m.dir.Select(id)
	m.sidebar.SetActive(id)
	m.clearStatus()
	m.refreshTranscript(true)
	return m.fetchHistory(gen, id)
}

func (m *Model) newChat() {
	m.sync.NewChat()
	m.dir.New()
	m.sidebar.SetActive("")
	m.refreshTranscript(true)
	if m.focus == focusSidebar {
		m.toggleFocus()
	}
}

// requestDelete asks to delete the conversation under the sidebar cursor,
// or the active one when the composer has focus.
func (m *Model) requestDelete() {
	id := m.dir.Active()
	if m.focus == focusSidebar {
		if c, ok := m.sidebar.Cursor(); ok {
			id = c.ID
		}
	}
	if id == "" {
		return
	}
	c, _ := m.dir.Find(id)
	m.dir.RequestDelete(id)
	m.dialog.Show("Delete conversation?",
		"\""+c.DisplayTitle()+"\" and its messages will be removed.", "Delete")
}

func (m Model) confirmDelete() (Model, tea.Cmd) {
	m.dialog.Hide()
	id := m.dir.PendingDelete()
	m.dir.CancelDelete()
	if id == "" {
		return m, nil
	}
	return m, m.deleteConversation(id)
}

func (m *Model) toggleFocus() {
	if m.focus == focusComposer {
		m.focus = focusSidebar
		m.sidebar.Focus()
		m.input.Blur()
		return
	}
	m.focus = focusComposer
	m.sidebar.Blur()
	m.input.Focus()
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusError = isError
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusError = false
}
