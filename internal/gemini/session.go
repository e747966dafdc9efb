// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// SystemInstruction is the fixed operational protocol carried by every
// session. It defines the ATOMITY persona, the restricted markdown dialect
// of replies, and the [MAP_DATA] embedding contract.
const SystemInstruction = `You are ATOMITY, an ultra-intelligent AI entity designed for advanced reasoning and analysis to assist government-level officials within **India**. Your purpose is to solve complex mysteries, decrypt information, and provide logical, evidence-based deductions. Your responses must be precise, factual, and delivered with clinical accuracy.

Your operational protocol is as follows:

1.  **Acknowledge and Deconstruct**: When you receive a new case or query, first acknowledge it. Then, briefly deconstruct the core problem. Your primary operational theater is India, so frame your analysis within Indian legal and geographical contexts.

2.  **File Analysis**:
    *   **Images**: When an image is provided, analyze it for faces, objects, landmarks, or any other details relevant to the investigation. Treat it as evidence.
    *   **Documents (PDF/Text)**: When document content is provided, perform a thorough analysis. Extract key entities (names, dates, locations), summarize the contents, and identify critical data points or inconsistencies.

3.  **Clarify and Question**: Before providing any analysis, you MUST ask clarifying questions to gather necessary details. Present these as a numbered list. State clearly that you require these answers to proceed with a comprehensive analysis.

4.  **Analyze and Structure**: Once the user provides the requested information, synthesize all data (including from files) and deliver a structured analysis. **Clearly distinguish between established facts from the provided data and your own logical inferences.** Avoid any speculation. Use the following markdown format:
    *   Use ` + "`##`" + ` for main section titles (e.g., ` + "`## Case Analysis`" + `).
    *   Use ` + "`###`" + ` for sub-section titles (e.g., ` + "`### Summary of Facts`" + `, ` + "`### Image Analysis`" + `, ` + "`### Inferred Conclusions`" + `).
    *   Use ` + "`*`" + ` or ` + "`-`" + ` for bullet points.
    *   Use ` + "`**text**`" + ` for emphasis on key terms or conclusions.

5.  **Geospatial Analysis & Mapping**:
    *   If a case involves physical locations (addresses, coordinates, landmarks), you must perform geospatial analysis. Assume locations are in India unless specified otherwise.
    *   To display a map, you MUST embed a special data block in your response. The format is ` + "`[MAP_DATA]{\"locations\": [...], \"paths\": [...], \"view\": {...}}`" + `. This block must be a single line with no line breaks.
    *   Integrate the map as part of your textual analysis. Explain what the map is showing.

Maintain a formal, secure, and detached tone. Your primary function is to guide the investigation through logical inquiry before delivering your highly precise analysis. Avoid unverified claims.`

// =============================================================================
// SESSION
// =============================================================================

// Session is the long-lived conversational handle for one application
// instance. It carries the fixed system instruction, the temperature, and
// the running history of contents. Created once at startup and passed by
// reference so test doubles are trivial to inject.
//
// Concurrency contract: at most one Stream call in flight at a time. The UI
// enforces this with its busy flag; the session does not queue or lock.
type Session struct {
	client      *Client
	model       string
	temperature float64
	instruction string
	history     []Content
	logger      *zap.Logger
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithModel overrides the model name.
func WithModel(model string) SessionOption {
	return func(s *Session) {
		if model != "" {
			s.model = model
		}
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(temp float64) SessionOption {
	return func(s *Session) { s.temperature = temp }
}

// WithSystemInstruction overrides the system instruction.
func WithSystemInstruction(instruction string) SessionOption {
	return func(s *Session) {
		if instruction != "" {
			s.instruction = instruction
		}
	}
}

// WithSessionLogger attaches a logger.
func WithSessionLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// NewSession creates a session with the fixed ATOMITY defaults.
func NewSession(client *Client, opts ...SessionOption) *Session {
	s := &Session{
		client:      client,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		instruction: SystemInstruction,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the model name the session talks to.
func (s *Session) Model() string {
	return s.model
}

// HistoryLen returns the number of history contents (two per completed turn).
func (s *Session) HistoryLen() int {
	return len(s.history)
}

// Reset clears the conversation history. The system instruction and
// temperature are fixed for the session's lifetime.
func (s *Session) Reset() {
	s.history = nil
}

// Stream sends one turn and delivers the reply incrementally.
//
// The request parts are ordered binary-first, text-last: placing the user's
// instruction after any attached evidence improves grounding. onChunk is
// invoked synchronously per fragment in arrival order; Stream returns nil
// exactly once when the reply is exhausted, or the error exactly once on
// failure. Errors are never retried here.
//
// On success the user turn and the full reply join the session history so
// the next turn sees the whole conversation. A failed turn leaves the
// history untouched.
func (s *Session) Stream(ctx context.Context, prompt string, file *FileInput, onChunk ChunkCallback) error {
	var parts []Part
	if file != nil {
		parts = append(parts, Part{InlineData: &InlineData{
			MIMEType: file.MIMEType,
			Data:     file.Data,
		}})
	}
	parts = append(parts, Part{Text: prompt})

	userContent := Content{Role: "user", Parts: parts}

	req := generateRequest{
		SystemInstruction: &Content{Parts: []Part{{Text: s.instruction}}},
		Contents:          append(append([]Content{}, s.history...), userContent),
		GenerationConfig:  &GenerationConfig{Temperature: s.temperature},
	}

	var reply strings.Builder
	err := s.client.streamGenerate(ctx, s.model, req, func(fragment string) {
		reply.WriteString(fragment)
		onChunk(fragment)
	})
	if err != nil {
		s.logger.Warn("stream failed", zap.Error(err))
		return err
	}

	s.history = append(s.history, userContent, Content{
		Role:  "model",
		Parts: []Part{{Text: reply.String()}},
	})
	s.logger.Debug("turn complete",
		zap.Int("history", len(s.history)),
		zap.Int("reply_bytes", reply.Len()))
	return nil
}
