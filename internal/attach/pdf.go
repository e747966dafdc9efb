// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts page text with the ledongthuc/pdf reader.
type PDFExtractor struct{}

// ExtractPages returns each page's text in document order. Text fragments
// within a page are joined with single spaces; the caller joins pages.
func (PDFExtractor) ExtractPages(path string) ([]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		content := page.Content()
		fragments := make([]string, 0, len(content.Text))
		for _, t := range content.Text {
			fragments = append(fragments, t.S)
		}
		pages = append(pages, strings.Join(fragments, " "))
	}

	return pages, nil
}
