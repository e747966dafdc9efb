// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the conversation state for Atomity.
//
// A Conversation is an ordered, append-only list of Messages. User messages
// carry their text (and optionally an Attachment) from creation; AI messages
// start empty in streaming state and grow in place as reply fragments arrive,
// so the visible text is always a prefix of the next render. Attachments own
// their preview resource and release it exactly once when the turn finishes.
package model
