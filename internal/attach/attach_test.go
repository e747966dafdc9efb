// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/atomity/internal/model"
)

// fakeExtractor returns canned page texts, or an error.
type fakeExtractor struct {
	pages []string
	err   error
}

func (f *fakeExtractor) ExtractPages(path string) ([]string, error) {
	return f.pages, f.err
}

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// =============================================================================
// CLASSIFICATION TESTS
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		wantKind model.AttachmentKind
		wantMIME string
	}{
		{"evidence.jpg", model.AttachmentImage, "image/jpeg"},
		{"scan.PNG", model.AttachmentImage, "image/png"},
		{"photo.webp", model.AttachmentImage, "image/webp"},
		{"case.pdf", model.AttachmentPDF, "application/pdf"},
		{"notes.txt", model.AttachmentText, "text/plain"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			kind, mime, err := Classify(tc.name)
			if err != nil {
				t.Fatalf("Classify(%q) error = %v", tc.name, err)
			}
			if kind != tc.wantKind || mime != tc.wantMIME {
				t.Errorf("Classify(%q) = (%v, %v), want (%v, %v)",
					tc.name, kind, mime, tc.wantKind, tc.wantMIME)
			}
		})
	}
}

func TestClassify_UnsupportedType(t *testing.T) {
	if _, _, err := Classify("archive.zip"); err == nil {
		t.Error("Classify should reject unsupported extensions")
	}
}

// =============================================================================
// IMAGE TESTS
// =============================================================================

func TestProcess_ImageEncodesBase64(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}
	path := writeTempFile(t, "evidence.png", raw)

	p := NewPreprocessor(WithPreviewDir(t.TempDir()))
	prepared, err := p.Process(path, "Who is in this photo?")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if prepared.PromptText != "Who is in this photo?" {
		t.Errorf("prompt = %q, want the typed text", prepared.PromptText)
	}
	if prepared.File == nil {
		t.Fatal("image input must produce a binary payload")
	}
	if prepared.File.MIMEType != "image/png" {
		t.Errorf("mime = %q, want image/png", prepared.File.MIMEType)
	}
	decoded, err := base64.StdEncoding.DecodeString(prepared.File.Data)
	if err != nil || string(decoded) != string(raw) {
		t.Errorf("payload does not round-trip the file bytes")
	}
	// Raw bytes never leak into the prompt text.
	if strings.Contains(prepared.PromptText, string(raw)) {
		t.Error("raw image bytes must not be inlined into the prompt")
	}
}

func TestProcess_ImageDefaultPrompt(t *testing.T) {
	path := writeTempFile(t, "evidence.jpg", []byte{0xFF, 0xD8})

	p := NewPreprocessor(WithPreviewDir(t.TempDir()))
	prepared, err := p.Process(path, "")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if prepared.PromptText != DefaultImagePrompt {
		t.Errorf("prompt = %q, want %q", prepared.PromptText, DefaultImagePrompt)
	}
}

func TestProcess_ImagePreviewReleasedOnce(t *testing.T) {
	path := writeTempFile(t, "evidence.png", []byte{1, 2, 3})

	p := NewPreprocessor(WithPreviewDir(t.TempDir()))
	prepared, err := p.Process(path, "")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	att := prepared.Attachment
	if att.PreviewPath == "" {
		t.Fatal("image attachment must allocate a preview resource")
	}
	if _, err := os.Stat(att.PreviewPath); err != nil {
		t.Fatalf("preview file missing before release: %v", err)
	}

	att.ReleasePreview()
	if _, err := os.Stat(att.PreviewPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("preview file should be removed on release")
	}
	// Second release is a no-op, not an error.
	att.ReleasePreview()
}

// =============================================================================
// DOCUMENT TESTS
// =============================================================================

func TestProcess_PDFPagesJoinedByNewline(t *testing.T) {
	// Two pages, no typed query: the prompt carries both page texts joined
	// by a newline inside the wrapping template, with the default
	// summarization instruction substituted for the empty query.
	path := writeTempFile(t, "case.pdf", []byte("%PDF-stub"))

	p := NewPreprocessor(WithExtractor(&fakeExtractor{pages: []string{"Alpha", "Beta"}}))
	prepared, err := p.Process(path, "")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if prepared.File != nil {
		t.Error("PDF input must not produce a binary payload")
	}
	if !strings.Contains(prepared.PromptText, "Alpha\nBeta") {
		t.Errorf("prompt missing newline-joined pages:\n%s", prepared.PromptText)
	}
	if !strings.HasPrefix(prepared.PromptText, "Based on the following document content") {
		t.Errorf("prompt missing wrapping template:\n%s", prepared.PromptText)
	}
	if !strings.Contains(prepared.PromptText, "QUERY: "+DefaultDocumentQuery) {
		t.Errorf("prompt missing default query:\n%s", prepared.PromptText)
	}
	if prepared.Attachment.Kind != model.AttachmentPDF {
		t.Errorf("attachment kind = %v, want pdf", prepared.Attachment.Kind)
	}
}

func TestProcess_PDFTypedQueryWins(t *testing.T) {
	path := writeTempFile(t, "case.pdf", []byte("%PDF-stub"))

	p := NewPreprocessor(WithExtractor(&fakeExtractor{pages: []string{"content"}}))
	prepared, err := p.Process(path, "List all names.")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if !strings.Contains(prepared.PromptText, "QUERY: List all names.") {
		t.Errorf("prompt missing typed query:\n%s", prepared.PromptText)
	}
}

func TestProcess_PlainTextWrappedLikePDF(t *testing.T) {
	path := writeTempFile(t, "notes.txt", []byte("field report"))

	p := NewPreprocessor()
	prepared, err := p.Process(path, "")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if prepared.File != nil {
		t.Error("text input must not produce a binary payload")
	}
	if !strings.Contains(prepared.PromptText, "---\nfield report\n---") {
		t.Errorf("prompt missing file content:\n%s", prepared.PromptText)
	}
	if prepared.Attachment.Kind != model.AttachmentText {
		t.Errorf("attachment kind = %v, want text", prepared.Attachment.Kind)
	}
}

// =============================================================================
// FAILURE TESTS
// =============================================================================

func TestProcess_ExtractionFailurePropagates(t *testing.T) {
	path := writeTempFile(t, "case.pdf", []byte("%PDF-stub"))

	p := NewPreprocessor(WithExtractor(&fakeExtractor{err: errors.New("corrupt xref")}))
	prepared, err := p.Process(path, "query")

	if err == nil {
		t.Fatal("corrupt document must fail preprocessing")
	}
	if prepared != nil {
		t.Error("no partial result may escape a failed preprocess")
	}
}

func TestProcess_MissingFileFails(t *testing.T) {
	p := NewPreprocessor()
	if _, err := p.Process(filepath.Join(t.TempDir(), "gone.txt"), ""); err == nil {
		t.Error("missing file must fail preprocessing")
	}
}
