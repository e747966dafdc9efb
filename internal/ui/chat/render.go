// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file renders conversation messages: user bubbles with attachment
// badges, AI replies parsed through the restricted markdown dialect, and the
// inline map panel when a reply embeds a map payload.

package chat

import (
	"strings"

	"github.com/jeranaias/atomity/internal/geo"
	"github.com/jeranaias/atomity/internal/markdown"
	"github.com/jeranaias/atomity/internal/model"
)

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// renderMessages renders the whole conversation for the viewport.
func (m *Model) renderMessages() string {
	msgs := m.conversation.All()
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n\n")
}

// renderMessage renders one message with its sender label and timestamp.
func (m *Model) renderMessage(msg *model.Message) string {
	var label string
	switch msg.Role {
	case model.RoleUser:
		label = m.theme.UserLabel.Render(msg.Role.DisplayName())
	default:
		label = m.theme.AILabel.Render(msg.Role.DisplayName())
	}
	if m.showTimestamps {
		label += m.theme.Timestamp.Render("  " + msg.Timestamp.Format("15:04:05"))
	}

	var body string
	switch {
	case msg.Role == model.RoleUser:
		body = m.renderUserBody(msg)
	case msg.IsThinking():
		body = m.thinking.View()
	default:
		body = m.renderAIBody(msg.Text())
	}

	bubble := m.theme.AIBubble
	if msg.Role == model.RoleUser {
		bubble = m.theme.UserBubble
	}

	return label + "\n" + bubble.Width(m.contentWidth()).Render(body)
}

// renderUserBody renders the typed text plus an attachment badge when the
// turn carried a file.
func (m *Model) renderUserBody(msg *model.Message) string {
	body := msg.Text()
	if msg.Attachment != nil {
		badge := m.theme.AttachmentBadge.Render(
			"[" + string(msg.Attachment.Kind) + "] " + msg.Attachment.Name)
		body = badge + "\n" + body
	}
	return body
}

// renderAIBody splits a reply around its embedded map payload and renders
// each prose segment through the markdown parser. A malformed or truncated
// payload has already degraded to plain text inside geo.Extract, so this
// never shows a broken map.
func (m *Model) renderAIBody(text string) string {
	before, data, after := geo.Extract(text)

	var parts []string
	if s := m.renderBlocks(markdown.Parse(before)); s != "" {
		parts = append(parts, s)
	}
	if data != nil {
		parts = append(parts, m.mapView.Render(data))
	}
	if s := m.renderBlocks(markdown.Parse(after)); s != "" {
		parts = append(parts, s)
	}

	return strings.Join(parts, "\n")
}

// renderBlocks renders parsed markdown blocks line by line.
func (m *Model) renderBlocks(blocks []markdown.Block) string {
	var lines []string
	for _, block := range blocks {
		switch block.Kind {
		case markdown.BlockHeading:
			style := m.theme.Heading2
			if block.Level == 3 {
				style = m.theme.Heading3
			}
			lines = append(lines, style.Render(markdown.PlainText(block.Spans)))
		case markdown.BlockList:
			for _, item := range block.Items {
				lines = append(lines, m.theme.ListBullet.Render("* ")+m.renderSpans(item))
			}
		default:
			lines = append(lines, m.renderSpans(block.Spans))
		}
	}
	return strings.Join(lines, "\n")
}

// renderSpans renders inline spans, emphasizing bold runs.
func (m *Model) renderSpans(spans []markdown.Span) string {
	var b strings.Builder
	for _, span := range spans {
		if span.Kind == markdown.SpanBold {
			b.WriteString(m.theme.BoldText.Render(span.Text))
		} else {
			b.WriteString(m.theme.Paragraph.Render(span.Text))
		}
	}
	return b.String()
}

// contentWidth is the usable width for message bubbles.
func (m *Model) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}
