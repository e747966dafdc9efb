// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// =============================================================================
// STREAM TYPES
// =============================================================================

// streamChunk is one decoded SSE payload from :streamGenerateContent.
type streamChunk struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// text concatenates the text parts of the first candidate.
func (c *streamChunk) text() string {
	if len(c.Candidates) == 0 {
		return ""
	}
	var b bytes.Buffer
	for _, p := range c.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// ChunkCallback receives each reply fragment in arrival order.
type ChunkCallback func(fragment string)

// =============================================================================
// SSE READER
// =============================================================================

// sseReader parses server-sent events from a response body.
type sseReader struct {
	reader *bufio.Reader
}

func newSSEReader(r io.Reader) *sseReader {
	return &sseReader{reader: bufio.NewReader(r)}
}

// readEvent reads the data of the next SSE event.
// Returns io.EOF when the stream ends.
func (s *sseReader) readEvent() ([]byte, error) {
	var dataLines [][]byte

	for {
		line, err := s.reader.ReadBytes('\n')
		line = bytes.TrimRight(line, "\r\n")

		if len(line) == 0 {
			// Blank line signals end of event.
			if len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
		} else if bytes.HasPrefix(line, []byte("data:")) {
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}
		// Other fields (event:, id:, retry:, comments) are ignored.

		if err != nil {
			// A final event may be terminated by EOF instead of a
			// blank line.
			if err == io.EOF && len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
			return nil, err
		}
	}
}

// =============================================================================
// STREAMING REQUEST
// =============================================================================

// streamGenerate POSTs a request and delivers reply fragments through the
// callback, in the exact order received. It returns nil exactly once on
// natural exhaustion or an error exactly once on failure; never both.
func (c *Client) streamGenerate(ctx context.Context, model string, reqBody generateRequest, onChunk ChunkCallback) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/models/" + model + ":streamGenerateContent?alt=sse"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	c.logger.Debug("stream request",
		zap.String("model", model),
		zap.Int("contents", len(reqBody.Contents)))

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return c.handleErrorResponse(resp.StatusCode, body)
	}

	return c.processStream(ctx, resp.Body, onChunk)
}

// processStream reads SSE events until exhaustion, forwarding each non-empty
// text fragment to the callback synchronously in arrival order.
func (c *Client) processStream(ctx context.Context, body io.Reader, onChunk ChunkCallback) error {
	reader := newSSEReader(body)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		data, err := reader.readEvent()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var chunk streamChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			// Skip malformed events.
			continue
		}

		if chunk.Error != nil {
			return &APIError{
				Status:  chunk.Error.Code,
				Code:    chunk.Error.Status,
				Message: chunk.Error.Message,
			}
		}

		if fragment := chunk.text(); fragment != "" {
			onChunk(fragment)
		}
	}
}
