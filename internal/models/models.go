package models

// Document is the stored metadata for one uploaded PDF.
type Document struct {
	ID          int64  `json:"id"`
	Filename    string `json:"filename"`
	TotalPages  int    `json:"total_pages"`
	TotalChunks int    `json:"total_chunks"`
}

// Chunk is one bounded slice of a document's extracted text, ready to embed.
// ChunkIndex is a running counter across all pages of the document, so it
// defines the reading order; PageNumber is 1-based.
type Chunk struct {
	Content    string
	PageNumber int
	ChunkIndex int
	Embedding  []float32
}

// RetrievedChunk is a chunk returned by a similarity search. Similarity is
// cosine similarity in [0,1] (higher = more relevant); it only exists for the
// lifetime of an ask request.
type RetrievedChunk struct {
	Content    string
	PageNumber int
	ChunkIndex int
	Similarity float64
}

// Citation points an answer back to a source page. Display-only, never stored.
type Citation struct {
	Page       int     `json:"page"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
}

// Answer is the result of the ask pipeline.
type Answer struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// UploadResult is returned to the client after a successful upload.
type UploadResult struct {
	Document Document `json:"document"`
	Chunks   int      `json:"chunks"`
}

// AskRequest is the ask endpoint payload. DocumentID is optional; zero means
// search across all documents.
type AskRequest struct {
	Question   string `json:"question"`
	DocumentID int64  `json:"documentId,omitempty"`
}
