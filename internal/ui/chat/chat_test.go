// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cortex-tui/internal/api"
	"github.com/jeranaias/cortex-tui/internal/directory"
	"github.com/jeranaias/cortex-tui/internal/model"
	"github.com/jeranaias/cortex-tui/internal/transcript"
	"github.com/jeranaias/cortex-tui/internal/ui/nav"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type uploadCall struct {
	name   string
	convID string
}

type fakeBackend struct {
	mu sync.Mutex

	conversations []model.Conversation
	history       map[string][]model.Message
	queryID       string
	queryErr      error
	uploadID      string
	deleteErr     error

	queries []string
	uploads []uploadCall
	deletes []string
}

func (f *fakeBackend) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Conversation(nil), f.conversations...), nil
}

func (f *fakeBackend) DeleteConversation(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func (f *fakeBackend) Messages(ctx context.Context, id string) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Message(nil), f.history[id]...), nil
}

func (f *fakeBackend) QueryPDF(ctx context.Context, question, convID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, question)
	if f.queryErr != nil {
		return "", f.queryErr
	}
	if convID != "" {
		return convID, nil
	}
	return f.queryID, nil
}

func (f *fakeBackend) UploadPDF(ctx context.Context, file api.Upload, convID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, uploadCall{name: file.Name, convID: convID})
	if convID != "" {
		return convID, nil
	}
	return f.uploadID, nil
}

func (f *fakeBackend) setHistory(id string, msgs ...model.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.history == nil {
		f.history = map[string][]model.Message{}
	}
	f.history[id] = msgs
}

func memOpener(path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("%PDF-1.4")), nil
}

func text(role model.Role, s string) model.Message {
	return model.Message{Role: role, Body: model.Text{Text: s}}
}

// =============================================================================
// HELPERS
// =============================================================================

func newChat(t *testing.T, b *fakeBackend, copyFn func(string) error) Model {
	t.Helper()
	m := New(b, styles.NewTheme("dark"), Options{
		PollInterval:    10 * time.Millisecond,
		CopyToClipboard: copyFn,
		Opener:          memOpener,
	})
	m.SetSize(120, 40)
	t.Cleanup(m.Close)
	return m
}

func press(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// runSubmit executes a submit command and applies everything it sent.
func runSubmit(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd, "expected a submit command")
	assert.Nil(t, cmd(), "submit commands report through the events channel")
	for {
		select {
		case msg := <-m.events:
			m, _ = m.Update(msg)
		default:
			return m
		}
	}
}

// nextPoll waits for the next poll result and applies it.
func nextPoll(t *testing.T, m Model) Model {
	t.Helper()
	select {
	case res := <-m.poller.Results():
		m, _ = m.Update(pollMsg{result: res})
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no poll result")
		return m
	}
}

// =============================================================================
// TESTS
// =============================================================================

func TestChat_LoadsHistoryListOnMount(t *testing.T) {
	b := &fakeBackend{conversations: []model.Conversation{
		{ID: "a", Title: "Budget"},
		{ID: "b", Title: "Contracts"},
	}}
	m := newChat(t, b, nil)
	assert.Contains(t, m.View(), "Loading...")

	m, _ = m.Update(m.loadConversations()())

	assert.True(t, m.Directory().Loaded())
	assert.Equal(t, 2, m.Directory().Len())
	view := m.View()
	assert.Contains(t, view, "Budget")
	assert.Contains(t, view, "Contracts")
	assert.Contains(t, view, "Ready to analyze")
}

func TestChat_QuestionInNewChat(t *testing.T) {
	b := &fakeBackend{queryID: "c-new"}
	b.setHistory("c-new", text(model.RoleUser, "hello"), text(model.RoleAssistant, "hi there"))
	m := newChat(t, b, nil)

	m, _ = m.Update(runes("hello"))
	m, cmd := m.Update(press(tea.KeyEnter))
	assert.True(t, m.Disabled(), "composer is disabled as soon as a question is sent")

	m = runSubmit(t, m, cmd)
	s := m.Transcript()
	assert.Equal(t, "c-new", s.ActiveID())
	assert.Equal(t, "c-new", m.Directory().Active())
	assert.Equal(t, "c-new", m.Directory().Items()[0].ID)
	assert.True(t, s.Thinking())
	assert.Equal(t, transcript.AwaitingReply, s.State())
	assert.Contains(t, m.View(), "Thinking...")

	m = nextPoll(t, m)
	assert.Equal(t, transcript.Idle, s.State())
	assert.False(t, m.Disabled())
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "hi there", s.Messages()[1].Text())
	assert.Equal(t, []string{"hello"}, b.queries)
}

func TestChat_EmptyQuestionIsIgnored(t *testing.T) {
	b := &fakeBackend{}
	m := newChat(t, b, nil)

	m, _ = m.Update(runes("   "))
	m, cmd := m.Update(press(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.Transcript().Len())
	assert.Empty(t, b.queries)
}

func TestChat_FailedQuestionClearsIndicators(t *testing.T) {
	b := &fakeBackend{queryErr: &api.Error{Status: 500, Message: "boom"}}
	m := newChat(t, b, nil)

	m, _ = m.Update(runes("why?"))
	m, cmd := m.Update(press(tea.KeyEnter))
	m = runSubmit(t, m, cmd)

	assert.False(t, m.Disabled())
	assert.Equal(t, 1, m.Transcript().Len(), "the optimistic message stays")
	assert.Empty(t, m.Status(), "backend failures are logged, not shown")
}

func TestChat_SelectDropsStaleHistory(t *testing.T) {
	b := &fakeBackend{}
	b.setHistory("a", text(model.RoleUser, "from a"))
	b.setHistory("b", text(model.RoleUser, "from b"))
	m := newChat(t, b, nil)

	loadA := m.selectConversation("a")
	loadB := m.selectConversation("b")

	m, _ = m.Update(loadB())
	m, _ = m.Update(loadA()) // arrives late
	require.Equal(t, 1, m.Transcript().Len())
	assert.Equal(t, "from b", m.Transcript().Messages()[0].Text())
}

func TestChat_DeleteActiveConversationResets(t *testing.T) {
	b := &fakeBackend{conversations: []model.Conversation{{ID: "a", Title: "Budget"}, {ID: "b"}}}
	b.setHistory("a", text(model.RoleUser, "q"))
	m := newChat(t, b, nil)
	m, _ = m.Update(m.loadConversations()())
	load := m.selectConversation("a")
	m, _ = m.Update(load())

	m, _ = m.Update(press(tea.KeyCtrlD))
	require.True(t, m.dialog.IsVisible())
	assert.Contains(t, m.View(), "Budget")

	m, cmd := m.Update(runes("y"))
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())

	assert.Equal(t, []string{"a"}, b.deletes)
	assert.Equal(t, 1, m.Directory().Len())
	assert.Equal(t, "", m.Transcript().ActiveID())
	assert.Equal(t, 0, m.Transcript().Len())
}

func TestChat_DeleteCancelAndFailure(t *testing.T) {
	b := &fakeBackend{conversations: []model.Conversation{{ID: "a"}}, deleteErr: errors.New("nope")}
	m := newChat(t, b, nil)
	m, _ = m.Update(m.loadConversations()())
	load := m.selectConversation("a")
	m, _ = m.Update(load())

	m, _ = m.Update(press(tea.KeyCtrlD))
	m, cmd := m.Update(press(tea.KeyEsc))
	assert.Nil(t, cmd)
	assert.False(t, m.dialog.IsVisible())
	assert.Empty(t, m.Directory().PendingDelete())

	m, _ = m.Update(press(tea.KeyCtrlD))
	m, _ = m.Update(press(tea.KeyTab))
	m, cmd = m.Update(press(tea.KeyEnter))
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())

	assert.Equal(t, directory.DeleteFailedMessage, m.Status())
	assert.Equal(t, 1, m.Directory().Len(), "the list is untouched on failure")
	assert.Equal(t, "a", m.Transcript().ActiveID())
}

func TestChat_UploadBatchSharesConversation(t *testing.T) {
	b := &fakeBackend{uploadID: "c-up"}
	m := newChat(t, b, nil)

	m, _ = m.Update(press(tea.KeyCtrlO))
	require.True(t, m.filePrompt)
	m, _ = m.Update(runes("a.pdf 'my report.pdf'"))
	m, cmd := m.Update(press(tea.KeyEnter))
	m = runSubmit(t, m, cmd)

	require.Len(t, b.uploads, 2)
	assert.Equal(t, uploadCall{name: "a.pdf", convID: ""}, b.uploads[0])
	assert.Equal(t, uploadCall{name: "my report.pdf", convID: "c-up"}, b.uploads[1])

	s := m.Transcript()
	assert.Equal(t, "c-up", s.ActiveID())
	require.Equal(t, 2, s.Len())
	assert.Equal(t, model.KindPDF, s.Messages()[0].Body.Kind())
	assert.False(t, s.Uploading())
	assert.True(t, s.Thinking())
}

func TestChat_UploadRejectsNonPDF(t *testing.T) {
	b := &fakeBackend{}
	m := newChat(t, b, nil)

	m, _ = m.Update(press(tea.KeyCtrlO))
	m, _ = m.Update(runes("notes.txt"))
	m, cmd := m.Update(press(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.Empty(t, b.uploads)
	assert.Contains(t, m.Status(), "Only PDF files")
}

func TestChat_CopyLastAnswer(t *testing.T) {
	b := &fakeBackend{}
	b.setHistory("a", text(model.RoleUser, "q"), text(model.RoleAssistant, "the answer"))
	var copied string
	m := newChat(t, b, func(s string) error { copied = s; return nil })

	m, cmd := m.Update(press(tea.KeyCtrlY))
	m, _ = m.Update(cmd())
	assert.Equal(t, MsgNothingToCopy, m.Status())

	load := m.selectConversation("a")
	m, _ = m.Update(load())
	m, cmd = m.Update(press(tea.KeyCtrlY))
	m, _ = m.Update(cmd())
	assert.Equal(t, "the answer", copied)
	assert.Contains(t, m.Status(), "Copied")
}

func TestChat_LogoutRequestsNavigation(t *testing.T) {
	m := newChat(t, &fakeBackend{}, nil)
	_, cmd := m.Update(press(tea.KeyCtrlL))
	require.NotNil(t, cmd)
	assert.Equal(t, nav.LogoutMsg{}, cmd())
}

func TestSplitPaths(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a.pdf b.pdf", []string{"a.pdf", "b.pdf"}},
		{"  a.pdf   ", []string{"a.pdf"}},
		{`"my file.pdf" b.pdf`, []string{"my file.pdf", "b.pdf"}},
		{`'x y.pdf'`, []string{"x y.pdf"}},
		{`/tmp/with\ space.pdf`, []string{"/tmp/with space.pdf"}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitPaths(tt.in), tt.in)
	}
}
