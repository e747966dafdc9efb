// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered, append-only list of messages for one chat.
//
// Messages are never deleted or reordered. The one permitted mutation is
// in-place text growth of the most recent AI message while its stream is
// active, plus replacing that text with an error string when the stream
// fails.
type Conversation struct {
	CreatedAt time.Time
	UpdatedAt time.Time

	messages []*Message
}

// NewConversation creates a conversation seeded with the ATOMITY greeting.
func NewConversation() *Conversation {
	c := &Conversation{
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	c.Append(NewGreetingMessage())
	return c
}

// NewEmptyConversation creates a conversation with no messages.
func NewEmptyConversation() *Conversation {
	return &Conversation{
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(msg *Message) {
	c.messages = append(c.messages, msg)
	c.UpdatedAt = time.Now()
}

// AppendUser creates and appends a user message.
func (c *Conversation) AppendUser(text string, att *Attachment) *Message {
	msg := NewUserMessage(text, att)
	c.Append(msg)
	return msg
}

// AppendAI creates and appends a streaming AI message.
func (c *Conversation) AppendAI() *Message {
	msg := NewAIMessage()
	c.Append(msg)
	return msg
}

// UpdateText replaces the text of the message with the given ID.
// A no-op when the ID is not found; never panics.
func (c *Conversation) UpdateText(id, newText string) {
	if msg := c.byID(id); msg != nil {
		msg.SetText(newText)
		c.UpdatedAt = time.Now()
	}
}

// AppendToText appends a streamed fragment to the message with the given ID.
// A no-op when the ID is not found or the message is not streaming.
func (c *Conversation) AppendToText(id, fragment string) {
	if msg := c.byID(id); msg != nil {
		msg.AppendText(fragment)
		c.UpdatedAt = time.Now()
	}
}

// FinalizeMessage completes streaming for the message with the given ID.
func (c *Conversation) FinalizeMessage(id string) {
	if msg := c.byID(id); msg != nil {
		msg.FinalizeStream()
		c.UpdatedAt = time.Now()
	}
}

// All returns the ordered message sequence.
func (c *Conversation) All() []*Message {
	return c.messages
}

// Last returns the most recent message, or nil if empty.
func (c *Conversation) Last() *Message {
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// byID finds a message by its ID, or nil.
func (c *Conversation) byID(id string) *Message {
	for _, msg := range c.messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}
