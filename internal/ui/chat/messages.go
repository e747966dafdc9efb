// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types used by the chat interface.
// The streaming messages form the turn protocol: exactly one StreamStartMsg,
// any number of ordered StreamTokenMsg, then exactly one StreamCompleteMsg
// or StreamErrorMsg.

package chat

import "time"

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that a reply stream has begun.
type StreamStartMsg struct {
	MessageID string
	StartTime time.Time
}

// StreamTokenMsg delivers one reply fragment from the stream.
type StreamTokenMsg struct {
	MessageID string
	Token     string
	IsFirst   bool
}

// StreamCompleteMsg signals that the reply stream finished cleanly.
type StreamCompleteMsg struct {
	MessageID string
}

// StreamErrorMsg signals that the reply stream failed.
type StreamErrorMsg struct {
	MessageID string
	Error     error
}

// StreamTickMsg is sent at 30fps during streaming to batch render tokens.
// Rendering per token flickers and burns CPU; rendering per tick does not.
type StreamTickMsg struct {
	Time time.Time
}

// =============================================================================
// HELPER CONSTRUCTORS
// =============================================================================

// NewStreamStartMsg creates a StreamStartMsg stamped with the current time.
func NewStreamStartMsg(messageID string) StreamStartMsg {
	return StreamStartMsg{MessageID: messageID, StartTime: time.Now()}
}
