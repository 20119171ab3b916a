// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/jeranaias/cortex-tui/internal/model"
)

// ListConversations returns the caller's conversations, newest first.
func (c *Client) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	var wire []conversationWire
	if err := c.doJSON(ctx, http.MethodGet, "/conversations", nil, &wire); err != nil {
		return nil, err
	}

	out := make([]model.Conversation, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toModel())
	}
	return out, nil
}

// Messages returns the full transcript of a conversation in server order.
func (c *Client) Messages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var wire []messageWire
	if err := c.doJSON(ctx, http.MethodGet, "/messages/"+pathID(conversationID), nil, &wire); err != nil {
		return nil, err
	}

	out := make([]model.Message, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toModel())
	}
	return out, nil
}

// DeleteConversation removes a conversation and everything attached to it.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/conversations/"+pathID(conversationID), nil, nil)
}
