// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Cortex"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE BODY
// =============================================================================

// Kind identifies the variant carried by a Body.
type Kind string

const (
	KindText Kind = "text"
	KindPDF  Kind = "pdf"
)

// Body is the content of a message. It is a closed set: Text or PDFAttachment.
// Consumers switch on the concrete type.
type Body interface {
	Kind() Kind
	// Plain returns the body as plain text for previews and the CLI.
	Plain() string

	isBody()
}

// Text is free-form message text. Assistant replies may carry light markup.
type Text struct {
	Text string
}

func (Text) Kind() Kind { return KindText }
func (t Text) Plain() string { return t.Text }
func (Text) isBody() {}

// PDFAttachment records that a document was uploaded into the conversation.
type PDFAttachment struct {
	Filename string
}

func (PDFAttachment) Kind() Kind { return KindPDF }
func (p PDFAttachment) Plain() string { return "[PDF] " + p.Filename }
func (PDFAttachment) isBody() {}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one entry of a transcript.
type Message struct {
	// ID is the server id when known. Optimistic messages get a local id.
	ID        string
	Role      Role
	Body      Body
	CreatedAt time.Time
	// Local marks a message appended optimistically before the server knew of it.
	Local bool
}

// NewUserText returns an optimistic user message.
func NewUserText(id, text string) Message {
	return Message{
		ID:        id,
		Role:      RoleUser,
		Body:      Text{Text: text},
		CreatedAt: time.Now(),
		Local:     true,
	}
}

// NewUserPDF returns an optimistic attachment message.
func NewUserPDF(id, filename string) Message {
	return Message{
		ID:        id,
		Role:      RoleUser,
		Body:      PDFAttachment{Filename: filename},
		CreatedAt: time.Now(),
		Local:     true,
	}
}

// IsAssistant reports whether the message was produced by the backend.
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// Text returns the textual content of the message, or "" for attachments.
func (m Message) Text() string {
	if t, ok := m.Body.(Text); ok {
		return t.Text
	}
	return ""
}

// HasContent reports whether the message carries non-empty content.
func (m Message) HasContent() bool {
	switch b := m.Body.(type) {
	case Text:
		return b.Text != ""
	case PDFAttachment:
		return b.Filename != ""
	default:
		return false
	}
}

// IsCompleteReply reports whether the message is an assistant reply with content.
func (m Message) IsCompleteReply() bool {
	return m.IsAssistant() && m.HasContent()
}

// LastAssistantText returns the text of the most recent assistant reply.
func LastAssistantText(msgs []Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].IsAssistant() {
			if t := msgs[i].Text(); t != "" {
				return t, true
			}
		}
	}
	return "", false
}
