// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"time"
)

// UntitledConversation is shown for conversations the backend has not titled yet.
const UntitledConversation = "Untitled Chat"

// Document is a PDF attached to a conversation.
type Document struct {
	ID       string
	Filename string
	// UploadedAt is only populated by the document listing.
	UploadedAt time.Time
}

// Conversation is a server-owned chat thread. The client only caches it.
type Conversation struct {
	ID        string
	Title     string
	Documents []Document
}

// DisplayTitle returns the title, falling back to UntitledConversation.
func (c Conversation) DisplayTitle() string {
	if c.Title == "" {
		return UntitledConversation
	}
	return c.Title
}

// DocumentBadges returns up to limit filenames and, when more are attached,
// a trailing "+N more" entry.
func (c Conversation) DocumentBadges(limit int) []string {
	if limit < 0 {
		limit = 0
	}
	n := len(c.Documents)
	shown := n
	if shown > limit {
		shown = limit
	}
	badges := make([]string, 0, shown+1)
	for _, d := range c.Documents[:shown] {
		badges = append(badges, d.Filename)
	}
	if n > shown {
		badges = append(badges, fmt.Sprintf("+%d more", n-shown))
	}
	return badges
}
