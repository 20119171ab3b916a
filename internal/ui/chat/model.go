// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cortex-tui/internal/api"
	"github.com/jeranaias/cortex-tui/internal/composer"
	"github.com/jeranaias/cortex-tui/internal/directory"
	"github.com/jeranaias/cortex-tui/internal/model"
	"github.com/jeranaias/cortex-tui/internal/transcript"
	"github.com/jeranaias/cortex-tui/internal/ui/components"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

// Backend is the part of the API client the chat screen uses.
type Backend interface {
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	DeleteConversation(ctx context.Context, conversationID string) error
	Messages(ctx context.Context, conversationID string) ([]model.Message, error)
	QueryPDF(ctx context.Context, question, conversationID string) (string, error)
	UploadPDF(ctx context.Context, file api.Upload, conversationID string) (string, error)
}

// Options configures the chat screen.
type Options struct {
	// PollInterval is the reply poll period. Zero uses the poller default.
	PollInterval time.Duration
	// MaxWait caps how long a reply is awaited. Zero waits indefinitely.
	MaxWait time.Duration
	// SidebarWidth is the history column width in cells.
	SidebarWidth int
	// CopyToClipboard replaces the system clipboard. Used by tests.
	CopyToClipboard func(string) error
	// Opener replaces how selected files are opened. Used by tests.
	Opener composer.Opener
}

// focusArea is the part of the screen receiving keys.
type focusArea int

const (
	focusComposer focusArea = iota
	focusSidebar
)

// Model is the chat screen: history sidebar, transcript and composer.
type Model struct {
	backend  Backend
	composer *composer.Composer
	dir      *directory.Directory
	sync     *transcript.Synchronizer
	poller   *transcript.Poller

	// events carries composer signals and submit results from submit
	// goroutines back into Update, in the order they were produced.
	events chan tea.Msg
	done   chan struct{}

	// submitting is set from the moment a submit is dispatched until its
	// done message arrives, closing the gap before the first signal lands.
	submitting bool

	keys       KeyMap
	sidebar    *components.Sidebar
	dialog     *components.ConfirmDialog
	indicator  components.Indicator
	viewport   viewport.Model
	input      textarea.Model
	fileInput  textinput.Model
	filePrompt bool
	focus      focusArea

	status      string
	statusError bool

	copy         func(string) error
	sidebarWidth int
	width        int
	height       int
	theme        *styles.Theme
}

// New creates the chat screen. The poller it owns is stopped by Close.
func New(backend Backend, theme *styles.Theme, opts Options) Model {
	poller := transcript.NewPoller(backend, opts.PollInterval)
	comp := composer.New(backend)
	if opts.Opener != nil {
		comp.WithOpener(opts.Opener)
	}
	copyFn := opts.CopyToClipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	sidebarWidth := opts.SidebarWidth
	if sidebarWidth <= 0 {
		sidebarWidth = 32
	}

	keys := DefaultKeyMap()

	input := textarea.New()
	input.Placeholder = "Ask a question about your documents..."
	input.ShowLineNumbers = false
	input.Prompt = ""
	input.CharLimit = 4000
	input.SetHeight(3)
	input.KeyMap.InsertNewline = keys.Newline
	input.Focus()

	fileInput := textinput.New()
	fileInput.Placeholder = "~/Documents/report.pdf other.pdf"
	fileInput.Prompt = "PDF files: "

	return Model{
		backend:      backend,
		composer:     comp,
		dir:          directory.New(backend),
		sync:         transcript.New(poller, transcript.Options{MaxWait: opts.MaxWait}),
		poller:       poller,
		events:       make(chan tea.Msg, 64),
		done:         make(chan struct{}),
		keys:         keys,
		sidebar:      components.NewSidebar(theme),
		dialog:       components.NewConfirmDialog(theme),
		indicator:    components.NewIndicator(theme),
		viewport:     viewport.New(80, 20),
		input:        input,
		fileInput:    fileInput,
		copy:         copyFn,
		sidebarWidth: sidebarWidth,
		theme:        theme,
	}
}

// Init fetches the history list and starts the event and poll listeners.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadConversations(),
		m.listenEvents(),
		m.listenPoll(),
		textarea.Blink,
	)
}

// Close stops polling and releases the listeners. The model must not be
// used afterwards.
func (m Model) Close() {
	m.sync.Close()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Transcript returns the synchronizer backing the transcript.
func (m Model) Transcript() *transcript.Synchronizer { return m.sync }

// Directory returns the conversation directory.
func (m Model) Directory() *directory.Directory { return m.dir }

// Status returns the footer status message.
func (m Model) Status() string { return m.status }

// Disabled reports whether the composer refuses input.
func (m Model) Disabled() bool {
	return m.submitting || m.sync.Busy()
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) listenEvents() tea.Cmd {
	ch, done := m.events, m.done
	return func() tea.Msg {
		select {
		case msg := <-ch:
			return msg
		case <-done:
			return nil
		}
	}
}

func (m Model) listenPoll() tea.Cmd {
	ch, done := m.poller.Results(), m.done
	return func() tea.Msg {
		select {
		case res := <-ch:
			return pollMsg{result: res}
		case <-done:
			return nil
		}
	}
}

func (m Model) loadConversations() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		items, err := backend.ListConversations(context.Background())
		return conversationsMsg{items: items, err: err}
	}
}

func (m Model) fetchHistory(generation uint64, id string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		msgs, err := backend.Messages(context.Background(), id)
		return historyMsg{generation: generation, id: id, messages: msgs, err: err}
	}
}

func (m Model) deleteConversation(id string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		err := backend.DeleteConversation(context.Background(), id)
		return deleteResultMsg{id: id, err: err}
	}
}

// submitQuestionCmd runs the composer off the event loop. Signals and the
// final result go through the events channel.
func (m Model) submitQuestionCmd(text string) tea.Cmd {
	comp, events := m.composer, m.events
	gen, active := m.sync.Generation(), m.sync.ActiveID()
	sink := eventSink{generation: gen, ch: events}
	return func() tea.Msg {
		id, err := comp.SubmitQuestion(context.Background(), text, active, false, sink)
		events <- submitDoneMsg{generation: gen, kind: submitQuestion, id: id, err: err}
		return nil
	}
}

func (m Model) submitFilesCmd(paths []string) tea.Cmd {
	comp, events := m.composer, m.events
	gen, active := m.sync.Generation(), m.sync.ActiveID()
	sink := eventSink{generation: gen, ch: events}
	return func() tea.Msg {
		id, err := comp.SubmitFiles(context.Background(), paths, active, sink)
		events <- submitDoneMsg{generation: gen, kind: submitFiles, id: id, err: err}
		return nil
	}
}

func (m Model) copyLastAnswer() tea.Cmd {
	text, ok := model.LastAssistantText(m.sync.Messages())
	if !ok {
		return func() tea.Msg { return copiedMsg{err: errNothingToCopy} }
	}
	copyFn := m.copy
	return func() tea.Msg {
		return copiedMsg{chars: len([]rune(text)), err: copyFn(text)}
	}
}
