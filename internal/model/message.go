// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines messages, roles, and attachments.

package model

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAI:
		return "ATOMITY"
	default:
		return string(r)
	}
}

// =============================================================================
// ATTACHMENT TYPE
// =============================================================================

// AttachmentKind classifies what kind of file was attached to a message.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentPDF   AttachmentKind = "pdf"
	AttachmentText  AttachmentKind = "text"
)

// Attachment describes a file attached to a user message.
//
// For images, PreviewPath points at a locally owned preview resource (a temp
// file holding the image bytes). The resource must be released exactly once,
// after the owning turn's stream completes or errors; ReleasePreview is
// guarded by sync.Once so a double release is a no-op.
type Attachment struct {
	Name        string
	Kind        AttachmentKind
	PreviewPath string

	releaseOnce sync.Once
	release     func()
}

// SetRelease registers the function that frees the preview resource.
// Ownership of the resource transfers to the attachment at this point.
func (a *Attachment) SetRelease(fn func()) {
	a.release = fn
}

// ReleasePreview frees the preview resource. Safe to call more than once;
// only the first call has an effect.
func (a *Attachment) ReleasePreview() {
	a.releaseOnce.Do(func() {
		if a.release != nil {
			a.release()
		}
	})
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in the conversation.
//
// Identity is immutable. For AI messages the text is appended to repeatedly
// while the reply streams in; for user messages it is set once at creation.
// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming.
type Message struct {
	ID         string
	Role       Role
	Timestamp  time.Time
	Attachment *Attachment

	// Streaming state. The builder accumulates fragments and is merged
	// into Content when the stream finishes.
	IsStreaming bool

	Content       string
	streamContent strings.Builder
}

// NewUserMessage creates a user message with its text set once.
func NewUserMessage(text string, att *Attachment) *Message {
	return &Message{
		ID:         generateID(),
		Role:       RoleUser,
		Timestamp:  time.Now(),
		Content:    text,
		Attachment: att,
	}
}

// NewAIMessage creates an empty AI message in streaming state.
func NewAIMessage() *Message {
	return &Message{
		ID:          generateID(),
		Role:        RoleAI,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// NewGreetingMessage creates the fixed AI greeting shown on startup.
func NewGreetingMessage() *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleAI,
		Timestamp: time.Now(),
		Content: "Greetings, Officer. I am ATOMITY. Present your query, " +
			"case file, or image for analysis. My operations are optimized for India.",
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// AppendText appends a streamed fragment to the message.
// Fragments only ever grow the text; nothing is removed or reordered.
func (m *Message) AppendText(fragment string) {
	if m.IsStreaming {
		m.streamContent.WriteString(fragment)
	}
}

// SetText replaces the message text and ends any in-flight streaming state.
// Used when a transport error replaces the reply with an error string.
func (m *Message) SetText(text string) {
	m.Content = text
	m.streamContent.Reset()
	m.IsStreaming = false
}

// FinalizeStream merges the streamed fragments into Content.
func (m *Message) FinalizeStream() {
	if !m.IsStreaming {
		return
	}
	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false
}

// Text returns the current text, streamed or final.
func (m *Message) Text() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Content
}

// IsThinking reports whether the message is streaming but has not yet
// received its first fragment. The UI renders a distinct loading indicator
// for this state instead of parsed content.
func (m *Message) IsThinking() bool {
	return m.IsStreaming && m.streamContent.Len() == 0
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && m.streamContent.Len() == 0
}

// Preview returns a truncated preview of the message text.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	text := m.Text()
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
