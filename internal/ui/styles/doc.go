// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the cortex TUI.

All colours are Lip Gloss AdaptiveColor values. The theme mode from the
config file decides which half of each pair is used:

	dark   - force the dark palette
	light  - force the light palette
	auto   - ask the terminal (termenv.HasDarkBackground)

# Usage

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(width, height)
	out := theme.UserBubble.Render("hello")

GlamourStyle returns the glamour standard style that matches the chosen
background, for the legal pages and rendered answers.
*/
package styles
