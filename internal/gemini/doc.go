// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini is the streaming session manager for Atomity.
//
// A Client speaks the Generative Language API's SSE streaming protocol; a
// Session wraps one long-lived conversation on top of it, carrying the fixed
// ATOMITY system instruction, a low fixed temperature, and the running turn
// history. Reply fragments are delivered through an ordered callback with
// exactly-once completion or failure, and failures are surfaced to the
// caller rather than retried.
package gemini
