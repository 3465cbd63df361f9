package rag

import (
	"pdf-qa/internal/helper"
	"pdf-qa/internal/models"
)

// BuildCitations maps retrieved chunks to display citations, one per chunk,
// order preserved. The excerpt is the first excerptLen runes of the content
// with an ellipsis marker.
func BuildCitations(chunks []models.RetrievedChunk, excerptLen int) []models.Citation {
	citations := make([]models.Citation, 0, len(chunks))
	for _, c := range chunks {
		citations = append(citations, models.Citation{
			Page:       c.PageNumber,
			Text:       helper.Truncate(c.Content, excerptLen) + "...",
			Similarity: c.Similarity,
		})
	}
	return citations
}
