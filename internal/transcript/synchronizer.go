// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"errors"
	"log"
	"time"

	"github.com/jeranaias/cortex-tui/internal/api"
	"github.com/jeranaias/cortex-tui/internal/model"
)

// State is the synchronizer's polling state.
type State int

const (
	// Idle means no reply is outstanding and no poll loop runs.
	Idle State = iota
	// AwaitingReply means a poll loop is armed for the active conversation.
	AwaitingReply
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingReply:
		return "awaiting-reply"
	default:
		return "unknown"
	}
}

// Loop is the poll loop the synchronizer drives. *Poller implements it.
type Loop interface {
	Start(conversationID string, generation uint64)
	Stop()
	Running() bool
}

// Options tunes a Synchronizer.
type Options struct {
	// MaxWait bounds how long a reply is awaited before giving up and going
	// Idle. Zero waits until the conversation changes.
	MaxWait time.Duration
}

// =============================================================================
// SYNCHRONIZER
// =============================================================================

// Synchronizer holds the active conversation's transcript and reconciles it
// with the backend while a reply is outstanding.
//
// It is not safe for concurrent use; the TUI drives it from its Update loop
// and the CLI from a single goroutine. Results produced by other goroutines
// reach it as values (PollResult, Event) and are checked against the current
// generation before being applied.
type Synchronizer struct {
	loop    Loop
	maxWait time.Duration
	now     func() time.Time

	activeID   string
	messages   []model.Message
	uploading  bool
	thinking   bool
	state      State
	generation uint64
	waitSince  time.Time
}

// New creates a Synchronizer with no active conversation.
func New(loop Loop, opts Options) *Synchronizer {
	return &Synchronizer{
		loop:       loop,
		maxWait:    opts.MaxWait,
		now:        time.Now,
		generation: 1,
	}
}

// ActiveID returns the active conversation id, or "" for a new chat.
func (s *Synchronizer) ActiveID() string { return s.activeID }

// Messages returns a copy of the local transcript.
func (s *Synchronizer) Messages() []model.Message {
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the local transcript.
func (s *Synchronizer) Len() int { return len(s.messages) }

// Uploading reports whether the "Indexing..." indicator should show.
func (s *Synchronizer) Uploading() bool { return s.uploading }

// Thinking reports whether the "Thinking..." indicator should show.
func (s *Synchronizer) Thinking() bool { return s.thinking }

// Busy reports whether the composer should be disabled.
func (s *Synchronizer) Busy() bool { return s.uploading || s.thinking }

// State returns the polling state.
func (s *Synchronizer) State() State { return s.state }

// Generation identifies the current conversation session. It changes on
// every Select and NewChat.
func (s *Synchronizer) Generation() uint64 { return s.generation }

// Select makes id the active conversation. Any poll loop is stopped before
// anything else changes. The caller loads the history and hands it to
// LoadHistory with the returned generation.
func (s *Synchronizer) Select(id string) uint64 {
	s.stopPolling()
	s.generation++
	s.activeID = id
	s.messages = nil
	s.uploading = false
	s.thinking = false
	return s.generation
}

// NewChat clears the active conversation. The backend creates one on the
// first question or upload.
func (s *Synchronizer) NewChat() uint64 {
	return s.Select("")
}

// LoadHistory applies a fetched history for a selection. Results for an
// older generation or another conversation are dropped.
func (s *Synchronizer) LoadHistory(generation uint64, id string, msgs []model.Message) bool {
	if generation != s.generation || id != s.activeID {
		log.Printf("TRANSCRIPT: dropping stale history for %s", id)
		return false
	}
	return s.Merge(msgs)
}

// Merge replaces the local transcript with fetched when fetched is at least
// as long. A shorter list is a transient read and is ignored.
func (s *Synchronizer) Merge(fetched []model.Message) bool {
	if len(fetched) < len(s.messages) {
		return false
	}
	s.messages = make([]model.Message, len(fetched))
	copy(s.messages, fetched)
	return true
}

// =============================================================================
// COMPOSER LIFECYCLE
// =============================================================================

// UserMessage appends an optimistic local message.
func (s *Synchronizer) UserMessage(msg model.Message) {
	s.messages = append(s.messages, msg)
}

// UploadStarted raises the uploading indicator.
func (s *Synchronizer) UploadStarted() {
	s.uploading = true
}

// ProcessingEnded swaps the uploading indicator for the thinking indicator
// and arms polling if the conversation is known. A submission while already
// awaiting a reply restarts the poll loop.
func (s *Synchronizer) ProcessingEnded() {
	s.uploading = false
	s.thinking = true
	s.startPolling()
}

// ConversationCreated adopts an id the backend created for a new chat.
// It is ignored when a conversation is already active.
func (s *Synchronizer) ConversationCreated(id string) {
	if s.activeID != "" || id == "" {
		return
	}
	s.activeID = id
	if s.thinking {
		s.startPolling()
	}
}

// SubmitFailed ends a wait that can never complete because the request
// behind it failed. Optimistic messages stay in the transcript.
func (s *Synchronizer) SubmitFailed() {
	if !s.uploading && !s.thinking {
		return
	}
	log.Printf("TRANSCRIPT: submission failed, clearing indicators")
	s.finish()
}

// Abandon stops waiting for an outstanding reply, as when the user
// interrupts the wait. A reply that lands later is picked up by the next
// Select or submission.
func (s *Synchronizer) Abandon() {
	if !s.uploading && !s.thinking {
		return
	}
	log.Printf("TRANSCRIPT: wait for %s abandoned", s.activeID)
	s.finish()
}

// EventKind enumerates the composer lifecycle signals.
type EventKind int

const (
	EventUserMessage EventKind = iota
	EventUploadStarted
	EventProcessingEnded
	EventConversationCreated
	EventSubmitFailed
)

// Event is a composer signal produced off the owning goroutine.
type Event struct {
	Generation     uint64
	Kind           EventKind
	Message        model.Message
	ConversationID string
}

// Apply dispatches an Event. Events from an earlier generation belong to a
// conversation the user has left and are dropped.
func (s *Synchronizer) Apply(ev Event) bool {
	if ev.Generation != s.generation {
		log.Printf("TRANSCRIPT: dropping stale event %d (generation %d, now %d)", ev.Kind, ev.Generation, s.generation)
		return false
	}
	switch ev.Kind {
	case EventUserMessage:
		s.UserMessage(ev.Message)
	case EventUploadStarted:
		s.UploadStarted()
	case EventProcessingEnded:
		s.ProcessingEnded()
	case EventConversationCreated:
		s.ConversationCreated(ev.ConversationID)
	case EventSubmitFailed:
		s.SubmitFailed()
	default:
		return false
	}
	return true
}

// =============================================================================
// POLLING
// =============================================================================

// IsTerminal reports whether a fetched history ends with a completed reply.
func IsTerminal(msgs []model.Message) bool {
	if len(msgs) == 0 {
		return false
	}
	return msgs[len(msgs)-1].IsCompleteReply()
}

// ApplyPoll applies one poll result. It reports whether the transcript or
// indicators changed.
func (s *Synchronizer) ApplyPoll(res PollResult) bool {
	if s.state != AwaitingReply || res.Generation != s.generation || res.ConversationID != s.activeID {
		return false
	}
	if !res.StartedAt.IsZero() && res.StartedAt.Before(s.waitSince) {
		log.Printf("POLL: dropping result for %s fetched before the current wait", res.ConversationID)
		return false
	}

	if res.Err != nil {
		var apiErr *api.Error
		if errors.As(res.Err, &apiErr) && !apiErr.Temporary() {
			log.Printf("POLL: giving up on %s: %v", res.ConversationID, res.Err)
			s.finish()
			return true
		}
		log.Printf("POLL: fetch failed for %s, retrying next tick: %v", res.ConversationID, res.Err)
		return s.checkDeadline()
	}

	changed := s.Merge(res.Messages)
	if IsTerminal(res.Messages) {
		s.finish()
		return true
	}
	return s.checkDeadline() || changed
}

// Close stops any poll loop.
func (s *Synchronizer) Close() {
	s.stopPolling()
}

func (s *Synchronizer) startPolling() {
	if !s.thinking || s.activeID == "" || s.loop == nil {
		return
	}
	s.state = AwaitingReply
	s.waitSince = s.now()
	s.loop.Start(s.activeID, s.generation)
}

func (s *Synchronizer) stopPolling() {
	if s.loop != nil {
		s.loop.Stop()
	}
	s.state = Idle
}

// finish ends the wait: polling stops and both indicators clear.
func (s *Synchronizer) finish() {
	s.stopPolling()
	s.thinking = false
	s.uploading = false
}

func (s *Synchronizer) checkDeadline() bool {
	if s.maxWait <= 0 || s.now().Sub(s.waitSince) < s.maxWait {
		return false
	}
	log.Printf("POLL: no reply for %s after %v, stopping", s.activeID, s.maxWait)
	s.finish()
	return true
}
