// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/cortex-tui/internal/ui/styles"
)

// =============================================================================
// LIGHT MARKUP
// =============================================================================

// Assistant answers use a small subset of markdown: numbered items, bullets,
// **bold** and `code`. Everything else is shown as written.

// BlockKind identifies how one source line is laid out.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockBlank
	BlockNumbered
	BlockBullet
)

// Span is a run of inline text.
type Span struct {
	Text string
	Bold bool
	Code bool
}

// Block is one parsed source line.
type Block struct {
	Kind   BlockKind
	Marker string // "3." for numbered items, "•" for bullets
	Spans  []Span
}

// ParseMarkup splits text into line blocks with inline spans.
func ParseMarkup(text string) []Block {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blocks = append(blocks, Block{Kind: BlockBlank})
			continue
		}
		if marker, rest, ok := numberedItem(trimmed); ok {
			blocks = append(blocks, Block{Kind: BlockNumbered, Marker: marker, Spans: ParseInline(rest)})
			continue
		}
		if rest, ok := bulletItem(trimmed); ok {
			blocks = append(blocks, Block{Kind: BlockBullet, Marker: "•", Spans: ParseInline(rest)})
			continue
		}
		blocks = append(blocks, Block{Kind: BlockParagraph, Spans: ParseInline(line)})
	}
	return blocks
}

// numberedItem matches "12. text".
func numberedItem(line string) (marker, rest string, ok bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(line) || line[i] != '.' || line[i+1] != ' ' {
		return "", "", false
	}
	return line[:i+1], strings.TrimSpace(line[i+2:]), true
}

// bulletItem matches "* text", "- text" and "• text".
func bulletItem(line string) (string, bool) {
	for _, prefix := range []string{"* ", "- ", "• "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return "", false
}

// ParseInline splits a line into plain, **bold** and `code` spans.
// Unterminated markers are kept as literal text.
func ParseInline(line string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Text: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(line); {
		switch {
		case strings.HasPrefix(line[i:], "**"):
			end := strings.Index(line[i+2:], "**")
			if end > 0 {
				flush()
				spans = append(spans, Span{Text: line[i+2 : i+2+end], Bold: true})
				i += end + 4
				continue
			}
		case line[i] == '`':
			end := strings.IndexByte(line[i+1:], '`')
			if end > 0 {
				flush()
				spans = append(spans, Span{Text: line[i+1 : i+1+end], Code: true})
				i += end + 2
				continue
			}
		}
		plain.WriteByte(line[i])
		i++
	}
	flush()
	return spans
}

// RenderMarkup renders assistant text to at most width columns.
func RenderMarkup(text string, width int, theme *styles.Theme) string {
	if width < 10 {
		width = 10
	}

	blocks := ParseMarkup(text)
	// Collapse leading/trailing blank lines.
	for len(blocks) > 0 && blocks[0].Kind == BlockBlank {
		blocks = blocks[1:]
	}
	for len(blocks) > 0 && blocks[len(blocks)-1].Kind == BlockBlank {
		blocks = blocks[:len(blocks)-1]
	}

	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case BlockBlank:
			out = append(out, "")
		case BlockNumbered, BlockBullet:
			marker := theme.Bullet.Render(b.Marker) + " "
			indent := lipgloss.Width(marker)
			body := lipgloss.NewStyle().Width(width - indent).Render(renderSpans(b.Spans, theme))
			out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, marker, body))
		default:
			out = append(out, lipgloss.NewStyle().Width(width).Render(renderSpans(b.Spans, theme)))
		}
	}
	return strings.Join(out, "\n")
}

func renderSpans(spans []Span, theme *styles.Theme) string {
	var sb strings.Builder
	for _, s := range spans {
		switch {
		case s.Code:
			sb.WriteString(theme.Code.Render(s.Text))
		case s.Bold:
			sb.WriteString(theme.Bold.Render(s.Text))
		default:
			sb.WriteString(s.Text)
		}
	}
	return strings.TrimRightFunc(sb.String(), unicode.IsSpace)
}
