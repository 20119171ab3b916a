// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"strings"
	"time"

	"github.com/jeranaias/cortex-tui/internal/model"
)

// Wire types mirror the backend JSON. They never leave this package.

type documentWire struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	CreatedAt string `json:"created_at"`
}

type conversationWire struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// The backend calls them pdfs; documents is accepted as well.
	PDFs      []documentWire `json:"pdfs"`
	Documents []documentWire `json:"documents"`
}

type messageWire struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

type credentialsWire struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type queryWire struct {
	Question string `json:"question"`
	// nil encodes as null, which the backend reads as "start a new conversation".
	ConversationID *string `json:"conversation_id"`
}

type queryResponseWire struct {
	Status         string `json:"status"`
	ConversationID string `json:"conversation_id"`
}

type uploadResponseWire struct {
	ConversationID string `json:"conversation_id"`
	Conversation   *struct {
		ID   string         `json:"id"`
		PDFs []documentWire `json:"pdfs"`
	} `json:"conversation"`
}

func (u uploadResponseWire) id() string {
	if u.ConversationID != "" {
		return u.ConversationID
	}
	if u.Conversation != nil {
		return u.Conversation.ID
	}
	return ""
}

// uploadedPrefix is how the backend records an upload in the transcript.
const uploadedPrefix = "Uploaded: "

func (d documentWire) toModel() model.Document {
	return model.Document{
		ID:         d.ID,
		Filename:   d.Filename,
		UploadedAt: parseTime(d.CreatedAt),
	}
}

func (c conversationWire) toModel() model.Conversation {
	docs := c.PDFs
	if len(docs) == 0 {
		docs = c.Documents
	}
	out := model.Conversation{ID: c.ID, Title: c.Title}
	for _, d := range docs {
		out.Documents = append(out.Documents, d.toModel())
	}
	return out
}

func (m messageWire) toModel() model.Message {
	msg := model.Message{
		ID:        m.ID,
		Role:      model.Role(m.Role),
		CreatedAt: parseTime(m.CreatedAt),
	}
	if strings.EqualFold(m.Type, string(model.KindPDF)) {
		msg.Body = model.PDFAttachment{Filename: strings.TrimPrefix(m.Content, uploadedPrefix)}
	} else {
		msg.Body = model.Text{Text: m.Content}
	}
	return msg
}

// timeLayouts lists the timestamp formats the backend emits. Python's
// isoformat omits the zone for naive datetimes.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseTime parses a backend timestamp, returning the zero time if it is
// missing or malformed. Naive timestamps are taken as UTC.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
