// Package parser extracts per-page plain text from uploaded PDF bytes.
package parser

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"pdf-qa/internal/helper"
	"pdf-qa/internal/models"
)

// ExtractPages returns one whitespace-normalized text string per page, in
// page order. A page that yields no text is kept as an empty string so page
// numbering stays aligned with the source document. An unparseable file is an
// invalid-input error, not an upstream one: the bytes came from the user.
func ExtractPages(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse PDF: %v", models.ErrInvalidInput, err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single bad page shouldn't sink the document.
			pages = append(pages, "")
			continue
		}
		pages = append(pages, helper.NormalizeWhitespace(pageText))
	}
	return pages, nil
}

// HasText reports whether any page carries extractable text.
func HasText(pages []string) bool {
	for _, p := range pages {
		if p != "" {
			return true
		}
	}
	return false
}
