// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: a server-owned thread with its attached documents
//   - Message: one transcript entry with a Role and a Body
//   - Body: closed variant, either Text or PDFAttachment
//
// Message bodies are rendered with a type switch:
//
//	switch b := msg.Body.(type) {
//	case model.Text:
//	    renderMarkup(b.Text)
//	case model.PDFAttachment:
//	    renderCard(b.Filename)
//	}
package model
