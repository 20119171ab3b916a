// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package nav holds the navigation messages screens send to the root model.
// Every NavigateMsg passes through the session guard before a screen changes.
package nav

import tea "github.com/charmbracelet/bubbletea"

// NavigateMsg asks the router to show the screen for Path.
type NavigateMsg struct {
	Path string
}

// Navigate returns a command that emits a NavigateMsg.
func Navigate(path string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Path: path}
	}
}

// LogoutMsg asks the router to end the session and return to the auth screen.
type LogoutMsg struct{}

// Logout returns a command that emits a LogoutMsg.
func Logout() tea.Cmd {
	return func() tea.Msg {
		return LogoutMsg{}
	}
}
