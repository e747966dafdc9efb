// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"reflect"
	"testing"
)

// =============================================================================
// BLOCK PARSING TESTS
// =============================================================================

func TestParse_SummaryScenario(t *testing.T) {
	// One heading, one list with two items, one paragraph with a bold span.
	text := "## Summary\n* point one\n* point two\n**done**"

	blocks := Parse(text)

	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}

	h := blocks[0]
	if h.Kind != BlockHeading || h.Level != 2 {
		t.Errorf("block 0 = %+v, want level-2 heading", h)
	}
	if got := PlainText(h.Spans); got != "Summary" {
		t.Errorf("heading text = %q, want %q", got, "Summary")
	}

	l := blocks[1]
	if l.Kind != BlockList || len(l.Items) != 2 {
		t.Fatalf("block 1 = %+v, want list with 2 items", l)
	}
	if got := PlainText(l.Items[0]); got != "point one" {
		t.Errorf("item 0 = %q, want %q", got, "point one")
	}
	if got := PlainText(l.Items[1]); got != "point two" {
		t.Errorf("item 1 = %q, want %q", got, "point two")
	}

	p := blocks[2]
	if p.Kind != BlockParagraph {
		t.Fatalf("block 2 = %+v, want paragraph", p)
	}
	if len(p.Spans) != 1 || p.Spans[0].Kind != SpanBold || p.Spans[0].Text != "done" {
		t.Errorf("paragraph spans = %+v, want single bold %q", p.Spans, "done")
	}
}

func TestParse_EmptyText(t *testing.T) {
	if blocks := Parse(""); len(blocks) != 0 {
		t.Errorf("Parse(\"\") = %v, want empty", blocks)
	}
}

func TestParse_BlankLinesSkippedButFlushList(t *testing.T) {
	text := "* one\n\n* two"

	blocks := Parse(text)

	// The blank line splits the items into two separate lists and renders
	// no empty paragraph.
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	for i, b := range blocks {
		if b.Kind != BlockList || len(b.Items) != 1 {
			t.Errorf("block %d = %+v, want single-item list", i, b)
		}
	}
}

func TestParse_NonListLineFlushesPendingList(t *testing.T) {
	text := "* a\n* b\nafterword"

	blocks := Parse(text)

	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Kind != BlockList || len(blocks[0].Items) != 2 {
		t.Errorf("block 0 = %+v, want 2-item list", blocks[0])
	}
	if blocks[1].Kind != BlockParagraph {
		t.Errorf("block 1 = %+v, want paragraph", blocks[1])
	}
}

func TestParse_TrailingListIsFlushed(t *testing.T) {
	blocks := Parse("- last item")

	if len(blocks) != 1 || blocks[0].Kind != BlockList {
		t.Fatalf("blocks = %+v, want one list", blocks)
	}
}

func TestParse_HeadingLevels(t *testing.T) {
	tests := []struct {
		line  string
		level int
		text  string
	}{
		{"## Case Analysis", 2, "Case Analysis"},
		{"### Summary of Facts", 3, "Summary of Facts"},
	}

	for _, tc := range tests {
		blocks := Parse(tc.line)
		if len(blocks) != 1 {
			t.Fatalf("Parse(%q): got %d blocks, want 1", tc.line, len(blocks))
		}
		b := blocks[0]
		if b.Kind != BlockHeading || b.Level != tc.level {
			t.Errorf("Parse(%q) = %+v, want level-%d heading", tc.line, b, tc.level)
		}
		if got := PlainText(b.Spans); got != tc.text {
			t.Errorf("heading text = %q, want %q", got, tc.text)
		}
	}
}

func TestParse_HashesWithoutSpaceAreParagraph(t *testing.T) {
	blocks := Parse("##NoSpace")

	if len(blocks) != 1 || blocks[0].Kind != BlockParagraph {
		t.Errorf("blocks = %+v, want one paragraph", blocks)
	}
}

func TestParse_Idempotent(t *testing.T) {
	text := "## H\n* a\n* b\n\nplain **bold** tail\n### Sub"

	first := Parse(text)
	second := Parse(text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-parse differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// =============================================================================
// INLINE PARSING TESTS
// =============================================================================

func TestParseInline(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Span
	}{
		{
			name: "plain text",
			line: "no emphasis here",
			want: []Span{{SpanText, "no emphasis here"}},
		},
		{
			name: "single bold span",
			line: "a **key term** b",
			want: []Span{{SpanText, "a "}, {SpanBold, "key term"}, {SpanText, " b"}},
		},
		{
			name: "bold only",
			line: "**done**",
			want: []Span{{SpanBold, "done"}},
		},
		{
			name: "two bold spans matched left to right",
			line: "**a** mid **b**",
			want: []Span{{SpanBold, "a"}, {SpanText, " mid "}, {SpanBold, "b"}},
		},
		{
			name: "unterminated delimiter stays literal",
			line: "waiting **for the rest",
			want: []Span{{SpanText, "waiting **for the rest"}},
		},
		{
			name: "trailing opener after closed span stays literal",
			line: "**a**b**",
			want: []Span{{SpanBold, "a"}, {SpanText, "b**"}},
		},
		{
			name: "non-greedy matching",
			line: "**a** and **b** done",
			want: []Span{{SpanBold, "a"}, {SpanText, " and "}, {SpanBold, "b"}, {SpanText, " done"}},
		},
		{
			name: "empty line",
			line: "",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseInline(tc.line)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseInline(%q) = %+v, want %+v", tc.line, got, tc.want)
			}
		})
	}
}

func TestParseInline_StreamingConvergence(t *testing.T) {
	// As the closing delimiter arrives, the literal run becomes a bold span.
	partial := ParseInline("conclusion: **guilty")
	if len(partial) != 1 || partial[0].Kind != SpanText {
		t.Fatalf("partial = %+v, want single literal span", partial)
	}

	complete := ParseInline("conclusion: **guilty**")
	want := []Span{{SpanText, "conclusion: "}, {SpanBold, "guilty"}}
	if !reflect.DeepEqual(complete, want) {
		t.Errorf("complete = %+v, want %+v", complete, want)
	}
}
