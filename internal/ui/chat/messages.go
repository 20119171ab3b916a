// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/jeranaias/cortex-tui/internal/model"
	"github.com/jeranaias/cortex-tui/internal/transcript"
)

// =============================================================================
// BACKEND RESULTS
// =============================================================================

// conversationsMsg delivers the fetched history list.
type conversationsMsg struct {
	items []model.Conversation
	err   error
}

// historyMsg delivers a conversation's messages, tagged with the generation
// of the selection that asked for them.
type historyMsg struct {
	generation uint64
	id         string
	messages   []model.Message
	err        error
}

// deleteResultMsg reports the outcome of a confirmed delete.
type deleteResultMsg struct {
	id  string
	err error
}

// =============================================================================
// COMPOSER AND POLLING
// =============================================================================

// eventMsg is a composer lifecycle signal forwarded from a submit goroutine.
type eventMsg struct {
	event transcript.Event
}

// submitKind says what a submission sent.
type submitKind int

const (
	submitQuestion submitKind = iota
	submitFiles
)

func (k submitKind) String() string {
	if k == submitFiles {
		return "upload"
	}
	return "question"
}

// submitDoneMsg is the last message a submit goroutine sends. It travels on
// the same channel as the lifecycle events so it is never seen before them.
type submitDoneMsg struct {
	generation uint64
	kind       submitKind
	id         string
	err        error
}

// pollMsg delivers one poll tick.
type pollMsg struct {
	result transcript.PollResult
}

// copiedMsg reports the outcome of a clipboard copy.
type copiedMsg struct {
	chars int
	err   error
}

// errNothingToCopy is reported when no finished answer exists yet.
var errNothingToCopy = errors.New("no answer to copy")
