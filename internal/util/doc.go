// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across cortex.
//
//   - AtomicWriteFile: crash-safe file writing with fsync, used for the
//     session store and the config file
//   - TruncateWidth, PadRight, StringWidth: display-width aware string
//     helpers backed by go-runewidth, used by the sidebar and CLI tables
package util
