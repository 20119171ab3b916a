// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat screen of the cortex TUI.
//
// The screen owns the conversation directory, the transcript synchronizer
// and its poller. All state changes happen in Update; work that blocks runs
// in commands and reports back through messages:
//
//   - History list and conversation loads return conversationsMsg and
//     historyMsg. History results carry the selection generation and are
//     dropped if the user has moved on.
//   - Submissions run the composer in a command. Its lifecycle signals and
//     the final submitDoneMsg travel on one channel, so Update sees them in
//     the order they were produced.
//   - Poll ticks arrive from the poller's result channel as pollMsg.
//
// Key bindings are defined in keys.go. Enter sends, alt+enter inserts a
// newline, ctrl+o uploads PDFs and tab moves between the history list and
// the composer.
package chat
