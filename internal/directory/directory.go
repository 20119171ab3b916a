// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package directory holds the user's conversation list as shown in the
// sidebar: loaded once, with selection, local creation and confirmed delete.
package directory

import (
	"context"
	"errors"
	"log"

	"github.com/jeranaias/cortex-tui/internal/model"
)

// Backend is the subset of the API client the directory needs.
type Backend interface {
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
}

// ErrNoPendingDelete is returned by ConfirmDelete when nothing was requested.
var ErrNoPendingDelete = errors.New("no delete pending")

// DeleteFailedMessage is shown when the backend refuses a delete.
const DeleteFailedMessage = "Failed to delete conversation"

// Directory is the client's cached view of the conversation list.
// It is not safe for concurrent use.
type Directory struct {
	backend Backend

	items   []model.Conversation
	loaded  bool
	active  string
	pending string
}

// New creates an empty, unloaded Directory.
func New(backend Backend) *Directory {
	return &Directory{backend: backend}
}

// Load fetches the list once. Later calls are no-ops until Invalidate.
func (d *Directory) Load(ctx context.Context) error {
	if d.loaded {
		return nil
	}
	items, err := d.backend.ListConversations(ctx)
	if err != nil {
		return err
	}
	d.SetItems(items)
	return nil
}

// SetItems installs a fetched list and marks the directory loaded.
func (d *Directory) SetItems(items []model.Conversation) {
	d.items = items
	d.loaded = true
}

// Invalidate makes the next Load fetch again.
func (d *Directory) Invalidate() {
	d.loaded = false
}

// Loaded reports whether the list has been fetched.
func (d *Directory) Loaded() bool { return d.loaded }

// Items returns the conversations in display order.
func (d *Directory) Items() []model.Conversation { return d.items }

// Len returns the number of conversations.
func (d *Directory) Len() int { return len(d.items) }

// Active returns the selected conversation id, or "" for a new chat.
func (d *Directory) Active() string { return d.active }

// Find returns the conversation with id.
func (d *Directory) Find(id string) (model.Conversation, bool) {
	for _, c := range d.items {
		if c.ID == id {
			return c, true
		}
	}
	return model.Conversation{}, false
}

// Select marks id active. Loading its transcript is the caller's job.
func (d *Directory) Select(id string) {
	d.active = id
}

// New clears the active selection. Nothing is created on the server until
// the first question or upload.
func (d *Directory) New() {
	d.active = ""
}

// Created records a conversation the backend just created for a new chat.
// It is placed at the top and becomes active; the next Load fills in its
// title and documents.
func (d *Directory) Created(id string) {
	if id == "" {
		return
	}
	d.active = id
	if _, ok := d.Find(id); ok {
		return
	}
	d.items = append([]model.Conversation{{ID: id}}, d.items...)
}

// RequestDelete asks for confirmation before deleting id.
func (d *Directory) RequestDelete(id string) {
	d.pending = id
}

// PendingDelete returns the id awaiting confirmation, or "".
func (d *Directory) PendingDelete() string { return d.pending }

// CancelDelete abandons a pending delete.
func (d *Directory) CancelDelete() {
	d.pending = ""
}

// ConfirmDelete deletes the pending conversation on the server and, on
// success, removes it locally. wasActive reports whether it was the active
// conversation, in which case the caller resets to a new chat. On failure
// the list is unchanged.
func (d *Directory) ConfirmDelete(ctx context.Context) (id string, wasActive bool, err error) {
	id = d.pending
	if id == "" {
		return "", false, ErrNoPendingDelete
	}
	d.pending = ""

	if err := d.backend.DeleteConversation(ctx, id); err != nil {
		log.Printf("DIRECTORY: delete %s failed: %v", id, err)
		return id, false, err
	}

	return id, d.Remove(id), nil
}

// Remove drops id from the local list. It reports whether id was active,
// clearing the selection if so.
func (d *Directory) Remove(id string) bool {
	for i, c := range d.items {
		if c.ID == id {
			d.items = append(d.items[:i:i], d.items[i+1:]...)
			break
		}
	}
	if d.active == id {
		d.active = ""
		return true
	}
	return false
}
