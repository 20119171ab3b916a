// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"context"
	"sync"
	"time"

	"github.com/jeranaias/cortex-tui/internal/model"
)

// Fetcher loads the full message history of a conversation.
type Fetcher interface {
	Messages(ctx context.Context, conversationID string) ([]model.Message, error)
}

// PollResult is one tick's worth of history, tagged with the identity of the
// loop that produced it so stale results can be discarded.
type PollResult struct {
	ConversationID string
	Generation     uint64
	Messages       []model.Message
	Err            error
	// StartedAt is when the fetch began. Zero means unknown.
	StartedAt time.Time
}

// =============================================================================
// POLLER
// =============================================================================

// Poller re-fetches a conversation's history on a fixed interval. At most one
// loop runs at a time; Start replaces any running loop and Stop returns only
// after the loop goroutine has exited.
type Poller struct {
	fetch    Fetcher
	interval time.Duration
	results  chan PollResult

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	convID  string
	running bool
}

// NewPoller creates a Poller. Results are delivered on Results().
func NewPoller(fetch Fetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		fetch:    fetch,
		interval: interval,
		results:  make(chan PollResult, 1),
	}
}

// Results is the channel poll results are delivered on. It is never closed.
func (p *Poller) Results() <-chan PollResult {
	return p.results
}

// Interval returns the tick interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start begins polling conversationID. The first fetch happens one interval
// after Start. Any loop already running is stopped first.
func (p *Poller) Start(conversationID string, generation uint64) {
	p.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.convID = conversationID
	p.running = true
	p.mu.Unlock()

	// A result the previous loop left behind is never wanted.
	select {
	case <-p.results:
	default:
	}

	go p.loop(ctx, done, conversationID, generation)
}

// Stop cancels the running loop, if any, and waits for it to exit.
// An in-flight fetch is cancelled through its context.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.convID = ""
	p.running = false
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// ConversationID returns the conversation being polled, or "".
func (p *Poller) ConversationID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.convID
}

func (p *Poller) loop(ctx context.Context, done chan struct{}, conversationID string, generation uint64) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		started := time.Now()
		msgs, err := p.fetch.Messages(ctx, conversationID)
		if ctx.Err() != nil {
			return
		}

		res := PollResult{
			ConversationID: conversationID,
			Generation:     generation,
			Messages:       msgs,
			Err:            err,
			StartedAt:      started,
		}
		select {
		case p.results <- res:
		case <-ctx.Done():
			return
		}
	}
}
