// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown parses the restricted markdown dialect used by AI replies
// into a renderable block structure.
//
// The parser is deliberately line-oriented and stateless: it re-derives the
// whole structure from the full accumulated text on every stream fragment,
// so partially-arrived input always yields a stable, render-safe result. An
// unterminated bold delimiter stays literal until its closing delimiter
// arrives; nothing in here ever fails on truncated input.
package markdown

import "strings"

// =============================================================================
// SPAN TYPES
// =============================================================================

// SpanKind discriminates inline span variants.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanBold
)

// Span is one inline run of text, either plain or emphasized.
type Span struct {
	Kind SpanKind
	Text string
}

// =============================================================================
// BLOCK TYPES
// =============================================================================

// BlockKind discriminates block variants.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockList
	BlockParagraph
)

// Block is one rendered unit: a heading, a grouped list, or a paragraph.
type Block struct {
	Kind BlockKind

	// Level is the heading level (2 or 3); meaningful for BlockHeading.
	Level int

	// Spans is the inline content for headings and paragraphs.
	Spans []Span

	// Items holds the inline content of each list item, in order;
	// meaningful for BlockList.
	Items [][]Span
}

// =============================================================================
// PARSER
// =============================================================================

// Parse converts text into an ordered block list.
//
// Rules, applied per line:
//   - "## "  prefix: heading level 2
//   - "### " prefix: heading level 3
//   - "* " or "- " prefix: list item; consecutive items group into one list
//   - blank line: skipped, but flushes a pending list
//   - anything else: paragraph (also flushes a pending list)
//
// Empty input yields an empty slice. Parse keeps no state between calls:
// running it twice on the same text yields an identical structure.
func Parse(text string) []Block {
	if text == "" {
		return nil
	}

	var blocks []Block
	var pendingItems [][]Span

	flushList := func() {
		if len(pendingItems) > 0 {
			blocks = append(blocks, Block{Kind: BlockList, Items: pendingItems})
			pendingItems = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "## "):
			flushList()
			blocks = append(blocks, Block{
				Kind:  BlockHeading,
				Level: 2,
				Spans: ParseInline(line[3:]),
			})
		case strings.HasPrefix(line, "### "):
			flushList()
			blocks = append(blocks, Block{
				Kind:  BlockHeading,
				Level: 3,
				Spans: ParseInline(line[4:]),
			})
		case strings.HasPrefix(line, "* "), strings.HasPrefix(line, "- "):
			pendingItems = append(pendingItems, ParseInline(line[2:]))
		case strings.TrimSpace(line) != "":
			flushList()
			blocks = append(blocks, Block{
				Kind:  BlockParagraph,
				Spans: ParseInline(line),
			})
		default:
			// Blank line: not rendered, but ends any pending list.
			flushList()
		}
	}

	flushList()
	return blocks
}

// ParseInline splits a line into plain and bold spans.
//
// Bold delimiters are non-nesting and matched non-greedily left to right:
// the first "**" opens a span closed by the next "**". An opener with no
// closer (the usual state while the closing delimiter is still streaming in)
// is left as literal characters.
func ParseInline(line string) []Span {
	var spans []Span
	rest := line

	for rest != "" {
		open := strings.Index(rest, "**")
		if open < 0 {
			spans = append(spans, Span{Kind: SpanText, Text: rest})
			break
		}

		closing := strings.Index(rest[open+2:], "**")
		if closing < 0 {
			// Unterminated delimiter stays literal.
			spans = append(spans, Span{Kind: SpanText, Text: rest})
			break
		}

		if open > 0 {
			spans = append(spans, Span{Kind: SpanText, Text: rest[:open]})
		}
		spans = append(spans, Span{Kind: SpanBold, Text: rest[open+2 : open+2+closing]})
		rest = rest[open+2+closing+2:]
	}

	return spans
}

// PlainText flattens spans back to their literal text, delimiters excluded.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
