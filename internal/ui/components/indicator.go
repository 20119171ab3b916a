// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

// =============================================================================
// ACTIVITY INDICATOR
// =============================================================================

// Indicator labels.
const (
	LabelIndexing = "Indexing..."
	LabelThinking = "Thinking..."
)

// IndicatorLabel returns the header label for the current activity. Uploading
// wins over thinking; idle returns "".
func IndicatorLabel(uploading, thinking bool) string {
	switch {
	case uploading:
		return LabelIndexing
	case thinking:
		return LabelThinking
	default:
		return ""
	}
}

// Indicator is the spinner shown while the backend is indexing or answering.
type Indicator struct {
	spinner  spinner.Model
	isActive bool
	theme    *styles.Theme
}

// NewIndicator creates an idle indicator with an ASCII spinner.
func NewIndicator(theme *styles.Theme) Indicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return Indicator{spinner: s, theme: theme}
}

// Sync starts or stops the spinner to match busy. It returns the tick
// command when the spinner has just started.
func (i *Indicator) Sync(busy bool) tea.Cmd {
	if busy == i.isActive {
		return nil
	}
	i.isActive = busy
	if busy {
		return i.spinner.Tick
	}
	return nil
}

// IsActive returns whether the spinner is currently running.
func (i Indicator) IsActive() bool {
	return i.isActive
}

// Update advances the spinner. Ticks are dropped while idle, which ends the
// tick chain.
func (i Indicator) Update(msg tea.Msg) (Indicator, tea.Cmd) {
	if !i.isActive {
		return i, nil
	}
	var cmd tea.Cmd
	i.spinner, cmd = i.spinner.Update(msg)
	return i, cmd
}

// Frame returns the current spinner frame.
func (i Indicator) Frame() string {
	return i.spinner.View()
}

// View renders "<frame> Indexing..." or "<frame> Thinking...", or "" when idle.
func (i Indicator) View(uploading, thinking bool) string {
	label := IndicatorLabel(uploading, thinking)
	if label == "" {
		return ""
	}
	return i.theme.Indicator.Render(i.spinner.View() + " " + label)
}
