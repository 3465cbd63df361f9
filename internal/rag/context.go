package rag

import (
	"fmt"
	"strings"

	"pdf-qa/internal/helper"
	"pdf-qa/internal/models"
)

// Assemble renders retrieved chunks into the context block sent to the
// completion model. Chunk order is preserved as returned by the similarity
// query; each chunk is whitespace-normalized, capped at contextMaxLen runes
// and prefixed with its page marker. Per-chunk truncation plus a small fixed
// K bounds worst-case prompt size regardless of document length. Returns ""
// for an empty input, which the caller must special-case.
func Assemble(chunks []models.RetrievedChunk, contextMaxLen int) string {
	if len(chunks) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(chunks))
	for _, c := range chunks {
		content := helper.Truncate(helper.NormalizeWhitespace(c.Content), contextMaxLen)
		blocks = append(blocks, fmt.Sprintf("[Page %d]: %s", c.PageNumber, content))
	}
	return strings.Join(blocks, "\n\n")
}
