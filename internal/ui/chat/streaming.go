// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// StreamingBuffer batches reply fragments for efficient rendering.
//
// Fragments accumulate in the buffer and are flushed either when the batch
// size threshold is reached or when enough time has passed since the last
// flush. The stream goroutine writes while the Bubble Tea loop flushes, so
// all operations take the mutex.
type StreamingBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	tokenCount int
	lastFlush  time.Time

	batchSize  int
	minFlushMs time.Duration
}

// NewStreamingBuffer creates a buffer tuned for 30fps rendering.
func NewStreamingBuffer() *StreamingBuffer {
	const (
		defaultBatchSize = 15
		defaultMaxFPS    = 30
	)

	return &StreamingBuffer{
		batchSize:  defaultBatchSize,
		minFlushMs: time.Second / defaultMaxFPS,
		lastFlush:  time.Now(),
	}
}

// Write adds a fragment to the buffer. Called from the stream goroutine.
func (sb *StreamingBuffer) Write(token string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.buffer.WriteString(token)
	sb.tokenCount++
}

// Flush returns accumulated content when a threshold has been reached.
// Returns ("", false) when there is nothing to render yet.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	if sb.tokenCount < sb.batchSize && time.Since(sb.lastFlush) < sb.minFlushMs {
		return "", false
	}

	return sb.drainLocked(), true
}

// ForceFlush returns all buffered content regardless of thresholds.
// Called when a stream completes so no trailing fragments are lost.
func (sb *StreamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	return sb.drainLocked(), true
}

// Reset discards buffered content. Used when a new stream starts or the
// current one is cancelled.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
}

// Pending returns the number of unflushed fragments.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.tokenCount
}

func (sb *StreamingBuffer) drainLocked() string {
	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
	return content
}

// =============================================================================
// STREAMING TICK COMMAND
// =============================================================================

// streamTickCmd schedules the next 30fps render tick.
func streamTickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
