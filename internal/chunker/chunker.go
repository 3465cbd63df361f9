// Package chunker splits extracted document text into overlapping
// fixed-size chunks. Windows are measured in runes so multi-byte text is
// never split mid-character.
package chunker

import (
	"fmt"
	"strings"

	"pdf-qa/internal/models"
)

// SplitText slides a window of targetSize runes across text. Consecutive
// windows share an overlap-sized region; the final partial window is emitted
// if non-empty. Empty or whitespace-only input yields no chunks. Output is a
// pure function of the input and parameters.
func SplitText(text string, targetSize, overlap int) ([]string, error) {
	if targetSize <= 0 {
		return nil, fmt.Errorf("%w: target size must be positive, got %d", models.ErrInvalidInput, targetSize)
	}
	if overlap < 0 || overlap >= targetSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", models.ErrInvalidInput, targetSize, overlap)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	if len(runes) <= targetSize {
		return []string{text}, nil
	}

	step := targetSize - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + targetSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}

// ChunkPages runs SplitText over each page and assigns metadata: page numbers
// are 1-based positions in pages, and the chunk index is a running counter
// across the whole document so it preserves global reading order. Pages with
// no extractable text produce no chunks but still advance the page number.
func ChunkPages(pages []string, targetSize, overlap int) ([]models.Chunk, error) {
	var chunks []models.Chunk
	index := 0
	for pageNum, pageText := range pages {
		pieces, err := SplitText(pageText, targetSize, overlap)
		if err != nil {
			return nil, err
		}
		for _, content := range pieces {
			chunks = append(chunks, models.Chunk{
				Content:    content,
				PageNumber: pageNum + 1,
				ChunkIndex: index,
			})
			index++
		}
	}
	return chunks, nil
}
