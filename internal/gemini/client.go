// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file implements the low-level client for Google's Generative
// Language API. The client depends on nothing beyond "send parts, receive
// ordered text fragments, detect completion, detect failure": requests carry
// an ordered part list (binary evidence first, user text last) and replies
// arrive as a server-sent-event stream of text fragments.

package gemini

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the base URL for the Generative Language API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-2.5-flash"

	// DefaultTemperature keeps output deterministic and low-creativity.
	DefaultTemperature = 0.3

	// DefaultTimeout bounds non-streaming requests.
	DefaultTimeout = 60 * time.Second
)

// sharedStreamingClient is used for streaming requests. No client timeout:
// stream lifetime is controlled via context.
// PERFORMANCE: connection pooling reduces TCP handshake overhead.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotConfigured indicates the API key is not set. This is fatal for
	// the session and is never retried.
	ErrNotConfigured = errors.New("GEMINI_API_KEY not configured")

	// ErrAuthFailed indicates the API key was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")
)

// APIError represents a structured error returned by the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gemini error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini error (HTTP %d): %s", e.Status, e.Message)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// InlineData is a binary part, base64 encoded.
type InlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Part is one element of a request or reply content. Exactly one field set.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// Content is an ordered part list with an optional role.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig carries the sampling settings for a request.
type GenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

// generateRequest is the request body for :streamGenerateContent.
type generateRequest struct {
	SystemInstruction *Content          `json:"system_instruction,omitempty"`
	Contents          []Content         `json:"contents"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// FileInput is a transient binary payload for one request: raw file bytes
// base64 encoded plus their MIME type. It exists only for the duration of a
// single Stream call.
type FileInput struct {
	MIMEType string
	Data     string
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a low-level Generative Language API client.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests to point the client
// at a local server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client. An empty apiKey is allowed at construction;
// the first stream attempt surfaces ErrNotConfigured.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpc:   sharedStreamingClient,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// setHeaders applies the common request headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
}

// handleErrorResponse converts a non-200 response into a typed error.
func (c *Client) handleErrorResponse(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailed
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusNotFound:
		return ErrModelNotFound
	}

	var wrapper struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Error.Message != "" {
		return &APIError{
			Status:  status,
			Code:    wrapper.Error.Status,
			Message: wrapper.Error.Message,
		}
	}

	return &APIError{Status: status, Message: http.StatusText(status)}
}
