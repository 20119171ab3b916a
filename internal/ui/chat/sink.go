// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cortex-tui/internal/model"
	"github.com/jeranaias/cortex-tui/internal/transcript"
)

// eventSink forwards composer signals from a submit goroutine to the event
// loop. Each signal carries the generation current when the submit started,
// so the synchronizer can drop signals for a conversation the user has left.
type eventSink struct {
	generation uint64
	ch         chan<- tea.Msg
}

func (s eventSink) send(kind transcript.EventKind, msg model.Message, id string) {
	s.ch <- eventMsg{event: transcript.Event{
		Generation:     s.generation,
		Kind:           kind,
		Message:        msg,
		ConversationID: id,
	}}
}

func (s eventSink) UserMessage(msg model.Message) {
	s.send(transcript.EventUserMessage, msg, "")
}

func (s eventSink) UploadStarted() {
	s.send(transcript.EventUploadStarted, model.Message{}, "")
}

func (s eventSink) ProcessingEnded() {
	s.send(transcript.EventProcessingEnded, model.Message{}, "")
}

func (s eventSink) ConversationCreated(id string) {
	s.send(transcript.EventConversationCreated, model.Message{}, id)
}
