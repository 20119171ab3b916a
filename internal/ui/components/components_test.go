// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/cortex-tui/internal/model"
	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

var testTheme = styles.NewTheme("dark")

// =============================================================================
// MARKUP TESTS
// =============================================================================

func TestParseMarkup_BlockKinds(t *testing.T) {
	// A marker needs a following space, so bold lines and signed numbers
	// stay paragraphs.
	text := "Summary\n\n1. First point\n12. Twelfth\n* star\n- dash\n• dot\n3.not a list\n**Key findings**\n-5 degrees"
	blocks := ParseMarkup(text)

	want := []struct {
		kind   BlockKind
		marker string
	}{
		{BlockParagraph, ""},
		{BlockBlank, ""},
		{BlockNumbered, "1."},
		{BlockNumbered, "12."},
		{BlockBullet, "•"},
		{BlockBullet, "•"},
		{BlockBullet, "•"},
		{BlockParagraph, ""},
		{BlockParagraph, ""},
		{BlockParagraph, ""},
	}
	if len(blocks) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(blocks), len(want))
	}
	for i, w := range want {
		if blocks[i].Kind != w.kind || blocks[i].Marker != w.marker {
			t.Errorf("block %d = {%d %q}, want {%d %q}", i, blocks[i].Kind, blocks[i].Marker, w.kind, w.marker)
		}
	}
	if got := blocks[2].Spans[0].Text; got != "First point" {
		t.Errorf("numbered item text = %q", got)
	}
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		in   string
		want []Span
	}{
		{"plain", []Span{{Text: "plain"}}},
		{"a **b** c", []Span{{Text: "a "}, {Text: "b", Bold: true}, {Text: " c"}}},
		{"run `go test`", []Span{{Text: "run "}, {Text: "go test", Code: true}}},
		{"**open", []Span{{Text: "**open"}}},
		{"tick ` alone", []Span{{Text: "tick ` alone"}}},
		{"****", []Span{{Text: "****"}}},
	}

	for _, tc := range tests {
		got := ParseInline(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("ParseInline(%q) = %+v, want %+v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ParseInline(%q)[%d] = %+v, want %+v", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func TestRenderMarkup_KeepsText(t *testing.T) {
	out := RenderMarkup("\n\nIntro\n\n- item **one**\n2. use `x`\n\n", 60, testTheme)

	for _, want := range []string{"Intro", "• item one", "2. use x"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered markup missing %q:\n%s", want, out)
		}
	}
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Errorf("leading/trailing blank lines should be trimmed: %q", out)
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessageBubble_Variants(t *testing.T) {
	pdf := model.NewUserPDF("1", "annual-report.pdf")
	out := NewMessageBubble(pdf, 80, testTheme).View()
	if !strings.Contains(out, "annual-report.pdf") || !strings.Contains(out, "PDF") {
		t.Errorf("PDF card should show the filename:\n%s", out)
	}

	user := model.NewUserText("2", "What is the revenue?")
	out = NewMessageBubble(user, 80, testTheme).View()
	if !strings.Contains(out, "What is the revenue?") || !strings.Contains(out, "You") {
		t.Errorf("user bubble missing content or label:\n%s", out)
	}

	reply := model.Message{Role: model.RoleAssistant, Body: model.Text{Text: "**42** million"}}
	out = NewMessageBubble(reply, 80, testTheme).View()
	if !strings.Contains(out, "42 million") || !strings.Contains(out, "Cortex") {
		t.Errorf("assistant bubble missing content or label:\n%s", out)
	}
	if strings.Contains(out, "**") {
		t.Errorf("bold markers should not be rendered:\n%s", out)
	}
}

func TestTranscriptView(t *testing.T) {
	empty := TranscriptView{Width: 60, Height: 10}.Render(testTheme)
	if !strings.Contains(empty, EmptyStateTitle) {
		t.Errorf("empty transcript should show %q", EmptyStateTitle)
	}

	pending := TranscriptView{Thinking: true, Frame: "|", Width: 60}.Render(testTheme)
	if !strings.Contains(pending, "Thinking...") {
		t.Error("thinking bubble should be shown while a reply is pending")
	}
	if strings.Contains(pending, EmptyStateTitle) {
		t.Error("empty state should not show while thinking")
	}
}

// =============================================================================
// INDICATOR TESTS
// =============================================================================

func TestIndicatorLabel(t *testing.T) {
	tests := []struct {
		uploading, thinking bool
		want                string
	}{
		{false, false, ""},
		{true, false, LabelIndexing},
		{false, true, LabelThinking},
		{true, true, LabelIndexing},
	}
	for _, tc := range tests {
		if got := IndicatorLabel(tc.uploading, tc.thinking); got != tc.want {
			t.Errorf("IndicatorLabel(%v, %v) = %q, want %q", tc.uploading, tc.thinking, got, tc.want)
		}
	}
}

func TestIndicator_Sync(t *testing.T) {
	ind := NewIndicator(testTheme)
	if ind.View(false, false) != "" {
		t.Error("idle indicator should render nothing")
	}
	if cmd := ind.Sync(true); cmd == nil {
		t.Error("starting the indicator should return a tick command")
	}
	if cmd := ind.Sync(true); cmd != nil {
		t.Error("syncing an already running indicator should not tick again")
	}
	if !strings.Contains(ind.View(false, true), LabelThinking) {
		t.Error("busy indicator should show its label")
	}
	ind.Sync(false)
	if ind.IsActive() {
		t.Error("indicator should stop when no longer busy")
	}
}

// =============================================================================
// SIDEBAR TESTS
// =============================================================================

func TestSidebar_States(t *testing.T) {
	s := NewSidebar(testTheme)
	s.SetSize(40, 0)

	if !strings.Contains(s.View(), SidebarLoading) {
		t.Error("sidebar should show loading before items arrive")
	}

	s.SetItems(nil)
	if !strings.Contains(s.View(), SidebarEmpty) {
		t.Error("sidebar should show the empty message for an empty history")
	}

	s.SetItems([]model.Conversation{
		{ID: "a", Title: "Quarterly", Documents: []model.Document{
			{ID: "1", Filename: "q1.pdf"}, {ID: "2", Filename: "q2.pdf"}, {ID: "3", Filename: "q3.pdf"},
		}},
		{ID: "b"},
	})
	out := s.View()
	for _, want := range []string{"Quarterly", "q1.pdf", "q2.pdf", "+1 more", model.UntitledConversation} {
		if !strings.Contains(out, want) {
			t.Errorf("sidebar missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "q3.pdf") {
		t.Error("only the first two documents should be listed")
	}
}

func TestSidebar_Cursor(t *testing.T) {
	s := NewSidebar(testTheme)
	if _, ok := s.Cursor(); ok {
		t.Error("empty sidebar should have no cursor row")
	}

	s.SetItems([]model.Conversation{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	s.MoveUp()
	if c, _ := s.Cursor(); c.ID != "a" {
		t.Errorf("cursor should clamp at the top, got %q", c.ID)
	}
	s.MoveDown()
	s.MoveDown()
	s.MoveDown()
	if c, _ := s.Cursor(); c.ID != "c" {
		t.Errorf("cursor should clamp at the bottom, got %q", c.ID)
	}

	s.SetActive("b")
	if c, _ := s.Cursor(); c.ID != "b" {
		t.Errorf("SetActive should move the cursor, got %q", c.ID)
	}

	s.SetItems([]model.Conversation{{ID: "a"}})
	if c, _ := s.Cursor(); c.ID != "a" {
		t.Errorf("cursor should clamp after the list shrinks, got %q", c.ID)
	}
}

// =============================================================================
// DIALOG TESTS
// =============================================================================

func TestConfirmDialog(t *testing.T) {
	d := NewConfirmDialog(testTheme)
	if d.IsVisible() || d.View(80, 24) != "" {
		t.Error("new dialog should be hidden")
	}

	d.Show("Delete conversation?", "This cannot be undone.", "")
	if d.Selected() != ButtonCancel {
		t.Error("Cancel should be selected by default")
	}
	out := d.View(0, 0)
	for _, want := range []string{"Delete conversation?", "Cancel", "Delete"} {
		if !strings.Contains(out, want) {
			t.Errorf("dialog missing %q", want)
		}
	}

	d.Toggle()
	if d.Selected() != ButtonConfirm {
		t.Error("Toggle should select the confirm button")
	}
	d.Show("again", "", "Remove")
	if d.Selected() != ButtonCancel {
		t.Error("Show should reset the selection")
	}
	d.Hide()
	if d.IsVisible() {
		t.Error("Hide should hide the dialog")
	}
}

func TestHeader_TruncatesTitle(t *testing.T) {
	h := Header{Title: strings.Repeat("long title ", 20), Indicator: "| Thinking...", Width: 50}
	out := h.View(testTheme)
	if !strings.Contains(out, "Thinking...") {
		t.Errorf("header should keep the indicator visible:\n%s", out)
	}
	if strings.Contains(out, "\n") {
		t.Errorf("header should be one line:\n%s", out)
	}
}
