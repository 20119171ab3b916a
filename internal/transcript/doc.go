// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript keeps the active conversation's messages in step with
// the backend while an assistant reply is outstanding.
//
// The Synchronizer is a two-state machine (Idle, AwaitingReply). Entering
// AwaitingReply starts a Poller bound to the active conversation id and the
// current generation; every tick fetches the whole history, which replaces
// the local list only if it is at least as long. The loop ends when the last
// message is a non-empty assistant reply, the conversation changes, or the
// backend answers with a status that retrying cannot fix (4xx other than 429).
package transcript
