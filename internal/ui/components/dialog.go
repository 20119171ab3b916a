// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

// =============================================================================
// CONFIRM DIALOG
// =============================================================================

// Button options
const (
	ButtonCancel  = 0
	ButtonConfirm = 1
)

// ConfirmDialog is a modal yes/no prompt. Cancel is selected by default.
type ConfirmDialog struct {
	title        string
	body         string
	confirmLabel string

	visible  bool
	selected int
	theme    *styles.Theme
}

// NewConfirmDialog creates a hidden dialog.
func NewConfirmDialog(theme *styles.Theme) *ConfirmDialog {
	return &ConfirmDialog{theme: theme, confirmLabel: "Delete"}
}

// Show displays the dialog with Cancel selected.
func (d *ConfirmDialog) Show(title, body, confirmLabel string) {
	d.title = title
	d.body = body
	if confirmLabel != "" {
		d.confirmLabel = confirmLabel
	}
	d.visible = true
	d.selected = ButtonCancel
}

// Hide hides the dialog.
func (d *ConfirmDialog) Hide() {
	d.visible = false
}

// IsVisible returns whether the dialog is visible.
func (d *ConfirmDialog) IsVisible() bool {
	return d.visible
}

// Toggle switches the selected button.
func (d *ConfirmDialog) Toggle() {
	if d.selected == ButtonCancel {
		d.selected = ButtonConfirm
	} else {
		d.selected = ButtonCancel
	}
}

// Selected returns the selected button.
func (d *ConfirmDialog) Selected() int {
	return d.selected
}

// View renders the dialog centred in width x height.
func (d *ConfirmDialog) View(width, height int) string {
	if !d.visible {
		return ""
	}

	cancel := d.theme.Button.Render("Cancel")
	confirm := d.theme.Button.Render(d.confirmLabel)
	if d.selected == ButtonCancel {
		cancel = d.theme.ButtonActive.Render("Cancel")
	} else {
		confirm = d.theme.ButtonDanger.Render(d.confirmLabel)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		d.theme.DialogTitle.Render(d.title),
		d.body,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cancel, "  ", confirm),
		"",
		d.theme.Help.Render("tab switch  enter choose  esc cancel"),
	)
	box := d.theme.Dialog.Render(content)
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
