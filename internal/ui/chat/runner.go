// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/atomity/internal/gemini"
)

// =============================================================================
// STREAM RUNNER
// =============================================================================

// Streamer is the session surface the runner needs. *gemini.Session
// satisfies it; tests inject fakes.
type Streamer interface {
	Stream(ctx context.Context, prompt string, file *gemini.FileInput, onChunk gemini.ChunkCallback) error
	Reset()
}

// sender delivers messages into the Bubble Tea event loop from outside it.
// *tea.Program satisfies it.
type sender interface {
	Send(tea.Msg)
}

// StreamRunner bridges the blocking session stream and the Bubble Tea loop.
//
// Start launches one goroutine per turn that translates the stream callback
// into ordered StreamTokenMsg sends, bracketed by StreamStartMsg and exactly
// one of StreamCompleteMsg or StreamErrorMsg. program.Send preserves send
// order, which is what keeps fragments monotonic on screen.
type StreamRunner struct {
	mu      sync.Mutex
	session Streamer
	program sender
	cancel  context.CancelFunc
	logger  *zap.Logger
}

// NewStreamRunner creates a runner for the session.
func NewStreamRunner(session Streamer, logger *zap.Logger) *StreamRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamRunner{session: session, logger: logger}
}

// SetProgram wires the running Bubble Tea program. Must be called before the
// first Start; the program only exists after tea.NewProgram.
func (r *StreamRunner) SetProgram(p sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.program = p
}

// Start begins streaming one turn in a background goroutine. Any in-flight
// turn is cancelled first; the UI's busy flag makes that a safety net rather
// than a normal path.
func (r *StreamRunner) Start(messageID, prompt string, file *gemini.FileInput) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	p := r.program
	r.mu.Unlock()

	if p == nil {
		r.logger.Error("stream started before program was wired")
		return
	}

	go func() {
		defer cancel()

		p.Send(NewStreamStartMsg(messageID))

		first := true
		err := r.session.Stream(ctx, prompt, file, func(fragment string) {
			p.Send(StreamTokenMsg{
				MessageID: messageID,
				Token:     fragment,
				IsFirst:   first,
			})
			first = false
		})

		if err != nil {
			r.logger.Warn("stream failed", zap.String("message_id", messageID), zap.Error(err))
			p.Send(StreamErrorMsg{MessageID: messageID, Error: err})
			return
		}

		p.Send(StreamCompleteMsg{MessageID: messageID})
	}()
}

// Cancel aborts the in-flight turn, if any. The goroutine surfaces the
// cancellation through the normal StreamErrorMsg path.
func (r *StreamRunner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Reset clears the session history for a fresh conversation.
func (r *StreamRunner) Reset() {
	r.session.Reset()
}
