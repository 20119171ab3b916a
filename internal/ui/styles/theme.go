// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme (ui.theme in the config file).
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme contains every style used by the cortex screens.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Dimensions
	Width  int
	Height int

	// =========================================================================
	// APP CHROME
	// =========================================================================

	App            lipgloss.Style
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	StatusBar      lipgloss.Style
	Help           lipgloss.Style

	// =========================================================================
	// SIDEBAR
	// =========================================================================

	Sidebar           lipgloss.Style
	SidebarTitle      lipgloss.Style
	NewChatButton     lipgloss.Style
	SidebarItem       lipgloss.Style
	SidebarItemActive lipgloss.Style
	SidebarCursor     lipgloss.Style
	SidebarBadge      lipgloss.Style
	SidebarMuted      lipgloss.Style

	// =========================================================================
	// TRANSCRIPT
	// =========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style
	Bold            lipgloss.Style
	Code            lipgloss.Style
	Bullet          lipgloss.Style
	PDFCard         lipgloss.Style
	PDFCardLabel    lipgloss.Style
	ThinkingBubble  lipgloss.Style
	Indicator       lipgloss.Style
	EmptyTitle      lipgloss.Style
	EmptySubtitle   lipgloss.Style

	// =========================================================================
	// COMPOSER
	// =========================================================================

	InputContainer         lipgloss.Style
	InputContainerDisabled lipgloss.Style
	InputPrompt            lipgloss.Style

	// =========================================================================
	// DIALOGS AND FORMS
	// =========================================================================

	Dialog         lipgloss.Style
	DialogTitle    lipgloss.Style
	Button         lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonDanger   lipgloss.Style
	FormContainer  lipgloss.Style
	FormTitle      lipgloss.Style
	FormLabel      lipgloss.Style
	FormLabelFocus lipgloss.Style
	ErrorText      lipgloss.Style
	NoticeText     lipgloss.Style
	Link           lipgloss.Style
	Muted          lipgloss.Style
}

// NewTheme creates a theme for the given mode. "dark" and "light" force the
// adaptive colours; anything else asks the terminal.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// GlamourStyle names the glamour standard style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()

	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)
	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.Help = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)
	t.NewChatButton = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 1)
	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.SidebarItemActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)
	t.SidebarCursor = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)
	t.SidebarBadge = lipgloss.NewStyle().
		Foreground(Cyan)
	t.SidebarMuted = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Transcript
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)
	t.RoleLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.Bold = lipgloss.NewStyle().
		Bold(true)
	t.Code = lipgloss.NewStyle().
		Foreground(CodeFg).
		Background(CodeBg)
	t.Bullet = lipgloss.NewStyle().
		Foreground(Indigo)
	t.PDFCard = lipgloss.NewStyle().
		Foreground(CardFg).
		Background(CardBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(CardBorder).
		Padding(0, 1)
	t.PDFCardLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)
	t.ThinkingBubble = lipgloss.NewStyle().
		Foreground(TextMuted).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)
	t.Indicator = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)
	t.EmptyTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)
	t.EmptySubtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Composer
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 1)
	t.InputContainerDisabled = t.InputContainer.
		BorderForeground(Overlay)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	// Dialogs and forms
	t.Dialog = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(1, 2)
	t.DialogTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)
	t.Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(Surface).
		Padding(0, 2)
	t.ButtonActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 2)
	t.ButtonDanger = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Rose).
		Padding(0, 2)
	t.FormContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 3)
	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		MarginBottom(1)
	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.FormLabelFocus = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)
	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose)
	t.NoticeText = lipgloss.NewStyle().
		Foreground(Emerald)
	t.Link = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)
	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, sidebar hidden
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
