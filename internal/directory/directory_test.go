// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/cortex-tui/internal/model"
)

type fakeBackend struct {
	items     []model.Conversation
	listCalls int
	deleted   []string
	deleteErr error
}

func (f *fakeBackend) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	f.listCalls++
	return f.items, nil
}

func (f *fakeBackend) DeleteConversation(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func threeConversations() []model.Conversation {
	return []model.Conversation{{ID: "c1", Title: "one"}, {ID: "c2", Title: "two"}, {ID: "c3"}}
}

func TestLoad_FetchesOnce(t *testing.T) {
	backend := &fakeBackend{items: threeConversations()}
	d := New(backend)
	ctx := context.Background()

	require.NoError(t, d.Load(ctx))
	require.NoError(t, d.Load(ctx))
	assert.Equal(t, 1, backend.listCalls)
	assert.Equal(t, 3, d.Len())
	assert.True(t, d.Loaded())

	d.Invalidate()
	require.NoError(t, d.Load(ctx))
	assert.Equal(t, 2, backend.listCalls)
}

func TestConfirmDelete_ActiveResets(t *testing.T) {
	backend := &fakeBackend{items: threeConversations()}
	d := New(backend)
	require.NoError(t, d.Load(context.Background()))
	d.Select("c2")

	d.RequestDelete("c2")
	assert.Equal(t, "c2", d.PendingDelete())
	assert.Empty(t, backend.deleted, "nothing is deleted before confirmation")

	id, wasActive, err := d.ConfirmDelete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "c2", id)
	assert.True(t, wasActive)
	assert.Equal(t, "", d.Active())
	assert.Equal(t, []string{"c2"}, backend.deleted)

	_, found := d.Find("c2")
	assert.False(t, found)
	assert.Equal(t, 2, d.Len())
}

func TestConfirmDelete_InactiveKeepsSelection(t *testing.T) {
	backend := &fakeBackend{items: threeConversations()}
	d := New(backend)
	require.NoError(t, d.Load(context.Background()))
	d.Select("c1")

	d.RequestDelete("c3")
	_, wasActive, err := d.ConfirmDelete(context.Background())
	require.NoError(t, err)
	assert.False(t, wasActive)
	assert.Equal(t, "c1", d.Active())
}

func TestConfirmDelete_FailureLeavesList(t *testing.T) {
	backend := &fakeBackend{items: threeConversations(), deleteErr: errors.New("boom")}
	d := New(backend)
	require.NoError(t, d.Load(context.Background()))
	d.Select("c1")

	d.RequestDelete("c1")
	_, _, err := d.ConfirmDelete(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, "c1", d.Active())
	assert.Empty(t, d.PendingDelete())
}

func TestCancelDelete(t *testing.T) {
	backend := &fakeBackend{items: threeConversations()}
	d := New(backend)
	d.RequestDelete("c1")
	d.CancelDelete()

	_, _, err := d.ConfirmDelete(context.Background())
	assert.ErrorIs(t, err, ErrNoPendingDelete)
	assert.Empty(t, backend.deleted)
}

func TestCreated_AddsToTopAndSelects(t *testing.T) {
	backend := &fakeBackend{items: threeConversations()}
	d := New(backend)
	require.NoError(t, d.Load(context.Background()))

	d.New()
	assert.Equal(t, "", d.Active())

	d.Created("c-new")
	assert.Equal(t, "c-new", d.Active())
	assert.Equal(t, "c-new", d.Items()[0].ID)
	assert.Equal(t, model.UntitledConversation, d.Items()[0].DisplayTitle())

	d.Created("c-new")
	assert.Equal(t, 4, d.Len())
}

func TestRemove_DoesNotAliasLoadedSlice(t *testing.T) {
	items := threeConversations()
	d := New(&fakeBackend{})
	d.SetItems(items)

	d.Remove("c1")
	assert.Equal(t, "c1", items[0].ID, "caller's slice untouched")
	assert.Equal(t, []string{"c2", "c3"}, []string{d.Items()[0].ID, d.Items()[1].ID})
}
