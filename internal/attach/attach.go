// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach converts user-selected files into prompt material.
//
// Images become an inline base64 payload sent alongside the text part;
// documents (PDF and plain text) are extracted to text and folded into the
// prompt itself. Either way the output of Process is complete before any
// network call happens, so a failed file read can never leave a request
// half-sent.
package attach

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/atomity/internal/gemini"
	"github.com/jeranaias/atomity/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// Default instructions substituted when the user typed no query.
const (
	DefaultImagePrompt   = "Analyze this image."
	DefaultDocumentQuery = "Summarize this document and identify key entities."
)

// documentTemplate wraps extracted document text together with the query.
const documentTemplate = "Based on the following document content, please respond to my query.\n\n" +
	"DOCUMENT CONTENT:\n---\n%s\n---\n\nQUERY: %s"

// mimeByExtension mirrors the file picker's accept filter: image
// (JPEG/PNG/WebP), PDF, and plain text. Anything else is rejected here.
var mimeByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".md":   "text/plain",
	".log":  "text/plain",
}

// =============================================================================
// TYPES
// =============================================================================

// Prepared is the outcome of preprocessing one file plus optional typed text:
// a single outbound prompt string, an optional binary payload (images only),
// and the display attachment for the user message.
type Prepared struct {
	PromptText string
	File       *gemini.FileInput
	Attachment *model.Attachment
}

// PageTextExtractor extracts per-page text from a document, in page order.
// The production implementation reads PDFs; tests inject fakes.
type PageTextExtractor interface {
	ExtractPages(path string) ([]string, error)
}

// Preprocessor turns picked files into Prepared prompt material.
type Preprocessor struct {
	extractor  PageTextExtractor
	previewDir string
	logger     *zap.Logger
}

// PreprocessorOption customizes a Preprocessor.
type PreprocessorOption func(*Preprocessor)

// WithExtractor overrides the PDF text extractor.
func WithExtractor(e PageTextExtractor) PreprocessorOption {
	return func(p *Preprocessor) { p.extractor = e }
}

// WithPreviewDir sets where image preview files are allocated.
func WithPreviewDir(dir string) PreprocessorOption {
	return func(p *Preprocessor) { p.previewDir = dir }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) PreprocessorOption {
	return func(p *Preprocessor) { p.logger = logger }
}

// NewPreprocessor creates a preprocessor with the PDF-backed extractor.
func NewPreprocessor(opts ...PreprocessorOption) *Preprocessor {
	p := &Preprocessor{
		extractor:  &PDFExtractor{},
		previewDir: os.TempDir(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// =============================================================================
// PREPROCESSING
// =============================================================================

// Classify maps a file name to its attachment kind and MIME type.
// Returns an error for anything outside the accepted set.
func Classify(name string) (model.AttachmentKind, string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	mime, ok := mimeByExtension[ext]
	if !ok {
		return "", "", fmt.Errorf("unsupported file type %q (accepted: jpg, jpeg, png, webp, pdf, txt, md, log)", ext)
	}

	switch {
	case strings.HasPrefix(mime, "image/"):
		return model.AttachmentImage, mime, nil
	case mime == "application/pdf":
		return model.AttachmentPDF, mime, nil
	default:
		return model.AttachmentText, mime, nil
	}
}

// Process converts a file plus the user's typed text into Prepared prompt
// material. Any read or extraction failure returns an error with nothing
// allocated, so the caller never invokes the session with partial input.
func (p *Preprocessor) Process(path, typedText string) (*Prepared, error) {
	kind, mime, err := Classify(path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case model.AttachmentImage:
		return p.processImage(path, mime, typedText)
	case model.AttachmentPDF:
		pages, err := p.extractor.ExtractPages(path)
		if err != nil {
			return nil, fmt.Errorf("failed to extract PDF text: %w", err)
		}
		return p.processDocument(path, kind, strings.Join(pages, "\n"), typedText), nil
	default:
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return p.processDocument(path, kind, string(content), typedText), nil
	}
}

// processImage encodes the image as an inline payload and allocates the
// preview resource. Raw image bytes never go into the prompt text.
func (p *Preprocessor) processImage(path, mime, typedText string) (*Prepared, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	att := &model.Attachment{
		Name: filepath.Base(path),
		Kind: model.AttachmentImage,
	}
	if preview, err := p.allocatePreview(path, raw); err == nil {
		att.PreviewPath = preview
		att.SetRelease(func() { os.Remove(preview) })
	} else {
		p.logger.Warn("preview allocation failed", zap.Error(err))
	}

	prompt := typedText
	if prompt == "" {
		prompt = DefaultImagePrompt
	}

	return &Prepared{
		PromptText: prompt,
		File: &gemini.FileInput{
			MIMEType: mime,
			Data:     base64.StdEncoding.EncodeToString(raw),
		},
		Attachment: att,
	}, nil
}

// processDocument wraps extracted text with the query template.
// No binary payload is produced for documents.
func (p *Preprocessor) processDocument(path string, kind model.AttachmentKind, content, typedText string) *Prepared {
	query := typedText
	if query == "" {
		query = DefaultDocumentQuery
	}

	return &Prepared{
		PromptText: fmt.Sprintf(documentTemplate, content, query),
		Attachment: &model.Attachment{
			Name: filepath.Base(path),
			Kind: kind,
		},
	}
}

// allocatePreview copies image bytes into a temp file owned by the
// attachment. The owning message's turn releases it exactly once when its
// stream completes or errors.
func (p *Preprocessor) allocatePreview(path string, raw []byte) (string, error) {
	f, err := os.CreateTemp(p.previewDir, "atomity-preview-*"+filepath.Ext(path))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(raw); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
