// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cortex-tui/internal/api"
	"github.com/jeranaias/cortex-tui/internal/model"
)

// recordingSink logs every signal as a string.
type recordingSink struct {
	events []string
	msgs   []model.Message
}

func (r *recordingSink) UserMessage(msg model.Message) {
	r.events = append(r.events, "user:"+msg.Body.Plain())
	r.msgs = append(r.msgs, msg)
}
func (r *recordingSink) UploadStarted() { r.events = append(r.events, "upload-start") }
func (r *recordingSink) ProcessingEnded() { r.events = append(r.events, "processing-end") }
func (r *recordingSink) ConversationCreated(id string) {
	r.events = append(r.events, "created:"+id)
}

type upload struct {
	name   string
	convID string
}

type fakeBackend struct {
	queries   []string
	uploads   []upload
	queryID   string
	queryErr  error
	createID  string
	failAfter int
}

func (f *fakeBackend) QueryPDF(ctx context.Context, q, convID string) (string, error) {
	f.queries = append(f.queries, q+"|"+convID)
	if f.queryErr != nil {
		return "", f.queryErr
	}
	if convID != "" {
		return convID, nil
	}
	return f.queryID, nil
}

func (f *fakeBackend) UploadPDF(ctx context.Context, file api.Upload, convID string) (string, error) {
	if f.failAfter > 0 && len(f.uploads) >= f.failAfter {
		return "", &api.Error{Status: 500, Message: "Cloud upload failed"}
	}
	data, _ := io.ReadAll(file.Body)
	if string(data) != "%PDF "+file.Name {
		return "", errors.New("unexpected body")
	}
	f.uploads = append(f.uploads, upload{name: file.Name, convID: convID})
	if convID != "" {
		return convID, nil
	}
	return f.createID, nil
}

func memOpener(path string) (io.ReadCloser, error) {
	name := path[strings.LastIndex(path, "/")+1:]
	return io.NopCloser(strings.NewReader("%PDF " + name)), nil
}

// =============================================================================
// QUESTIONS
// =============================================================================

func TestSubmitQuestion_RejectsEmptyAndDisabled(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		disabled bool
		wantErr  error
	}{
		{"empty", "", false, ErrEmptyQuestion},
		{"whitespace", "  \n\t ", false, ErrEmptyQuestion},
		{"disabled", "real question", true, ErrDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			sink := &recordingSink{}
			_, err := New(backend).SubmitQuestion(context.Background(), tt.text, "", tt.disabled, sink)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, sink.events, "no local message")
			assert.Empty(t, backend.queries, "no request")
		})
	}
}

func TestSubmitQuestion_NewConversation(t *testing.T) {
	backend := &fakeBackend{queryID: "c-new"}
	sink := &recordingSink{}

	id, err := New(backend).SubmitQuestion(context.Background(), "What is this?", "", false, sink)
	require.NoError(t, err)
	assert.Equal(t, "c-new", id)

	assert.Equal(t, []string{
		"user:What is this?",
		"upload-start",
		"processing-end",
		"created:c-new",
	}, sink.events)
	assert.Equal(t, []string{"What is this?|"}, backend.queries)
	assert.Equal(t, model.RoleUser, sink.msgs[0].Role)
	assert.True(t, sink.msgs[0].Local)
}

func TestSubmitQuestion_ExistingConversationDoesNotRecreate(t *testing.T) {
	backend := &fakeBackend{}
	sink := &recordingSink{}

	_, err := New(backend).SubmitQuestion(context.Background(), "more?", "c1", false, sink)
	require.NoError(t, err)
	assert.NotContains(t, sink.events, "created:c1")
	assert.Equal(t, []string{"more?|c1"}, backend.queries)
}

func TestSubmitQuestion_FailureKeepsOptimisticMessage(t *testing.T) {
	backend := &fakeBackend{queryErr: &api.Error{Status: 500, Message: "boom"}}
	sink := &recordingSink{}

	_, err := New(backend).SubmitQuestion(context.Background(), "q", "", false, sink)
	assert.Error(t, err)
	assert.Equal(t, []string{"user:q", "upload-start", "processing-end"}, sink.events)
}

// =============================================================================
// UPLOADS
// =============================================================================

func TestSubmitFiles_OneConversationForBatch(t *testing.T) {
	backend := &fakeBackend{createID: "c-new"}
	sink := &recordingSink{}
	c := New(backend).WithOpener(memOpener)

	id, err := c.SubmitFiles(context.Background(), []string{"/tmp/a.pdf", "/tmp/b.pdf", "/tmp/c.PDF"}, "", sink)
	require.NoError(t, err)
	assert.Equal(t, "c-new", id)

	assert.Equal(t, []upload{
		{name: "a.pdf", convID: ""},
		{name: "b.pdf", convID: "c-new"},
		{name: "c.PDF", convID: "c-new"},
	}, backend.uploads)

	created := 0
	for _, e := range sink.events {
		if strings.HasPrefix(e, "created:") {
			created++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, "upload-start", sink.events[0])
	assert.Equal(t, "processing-end", sink.events[len(sink.events)-1])
}

func TestSubmitFiles_ExistingConversation(t *testing.T) {
	backend := &fakeBackend{createID: "should-not-be-used"}
	sink := &recordingSink{}

	_, err := New(backend).WithOpener(memOpener).SubmitFiles(context.Background(), []string{"a.pdf", "b.pdf"}, "c1", sink)
	require.NoError(t, err)
	for _, u := range backend.uploads {
		assert.Equal(t, "c1", u.convID)
	}
	assert.NotContains(t, strings.Join(sink.events, ","), "created:")
}

func TestSubmitFiles_FailureStillEndsProcessing(t *testing.T) {
	backend := &fakeBackend{createID: "c-new", failAfter: 1}
	sink := &recordingSink{}

	id, err := New(backend).WithOpener(memOpener).SubmitFiles(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf"}, "", sink)
	require.Error(t, err)
	assert.Equal(t, "c-new", id)
	assert.Len(t, backend.uploads, 1)
	assert.Equal(t, "processing-end", sink.events[len(sink.events)-1])
}

func TestSubmitFiles_OpenFailure(t *testing.T) {
	backend := &fakeBackend{}
	sink := &recordingSink{}
	c := New(backend).WithOpener(func(string) (io.ReadCloser, error) { return nil, errors.New("permission denied") })

	_, err := c.SubmitFiles(context.Background(), []string{"a.pdf"}, "", sink)
	assert.Error(t, err)
	assert.Equal(t, []string{"upload-start", "processing-end"}, sink.events)
}

func TestSubmitFiles_RejectsNonPDFBeforeUploading(t *testing.T) {
	backend := &fakeBackend{}
	sink := &recordingSink{}

	_, err := New(backend).WithOpener(memOpener).SubmitFiles(context.Background(), []string{"a.pdf", "notes.txt"}, "", sink)
	var notPDF *NotPDFError
	require.ErrorAs(t, err, &notPDF)
	assert.Equal(t, "notes.txt is not a PDF", err.Error())
	assert.Empty(t, backend.uploads)
	assert.Empty(t, sink.events)

	_, err = New(backend).SubmitFiles(context.Background(), nil, "", sink)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestReady(t *testing.T) {
	assert.True(t, Ready("hi", false))
	assert.False(t, Ready(" ", false))
	assert.False(t, Ready("hi", true))
}
