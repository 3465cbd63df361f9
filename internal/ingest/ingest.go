// Package ingest runs the upload path: chunk extracted pages, embed the
// chunks, and persist everything as a short-lived saga so a failure cannot
// leave a document row without its chunks.
package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"pdf-qa/internal/chunker"
	"pdf-qa/internal/config"
	"pdf-qa/internal/embedding"
	"pdf-qa/internal/models"
)

// Store is the slice of the chunk store the upload path needs.
type Store interface {
	CreateDocument(ctx context.Context, filename string, totalPages int) (models.Document, error)
	InsertChunks(ctx context.Context, documentID int64, chunks []models.Chunk) error
	SetTotalChunks(ctx context.Context, id int64, total int) error
	DeleteDocument(ctx context.Context, id int64) error
}

type Ingestor struct {
	store    Store
	embedder embedding.Embedder
	cfg      *config.RAGConfig
}

func NewIngestor(store Store, embedder embedding.Embedder, cfg *config.RAGConfig) *Ingestor {
	return &Ingestor{store: store, embedder: embedder, cfg: cfg}
}

// Ingest chunks the given page texts, embeds every chunk and persists the
// document. The document row is created first and deleted again if any later
// step fails, so no half-ingested document is ever queryable.
func (in *Ingestor) Ingest(ctx context.Context, filename string, pages []string) (*models.UploadResult, error) {
	chunks, err := chunker.ChunkPages(pages, in.cfg.ChunkSize, in.cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document has no extractable text", models.ErrInvalidInput)
	}
	if len(chunks) > in.cfg.MaxChunks {
		log.Warn().
			Str("filename", filename).
			Int("chunks", len(chunks)).
			Int("max", in.cfg.MaxChunks).
			Msg("Chunk cap exceeded, dropping excess")
		chunks = chunks[:in.cfg.MaxChunks]
	}

	var doc models.Document
	saga := NewSaga(
		Step{
			Name: "create document",
			Next: StateDocumentCreated,
			Run: func(ctx context.Context) error {
				created, err := in.store.CreateDocument(ctx, filename, len(pages))
				if err != nil {
					return err
				}
				doc = created
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return in.store.DeleteDocument(ctx, doc.ID)
			},
		},
		Step{
			Name: "embed and persist chunks",
			Next: StateChunksPersisted,
			Run: func(ctx context.Context) error {
				if err := embedding.EmbedChunks(ctx, in.embedder, chunks, in.cfg.EmbedBatchSize); err != nil {
					return err
				}
				return in.store.InsertChunks(ctx, doc.ID, chunks)
			},
			// Deleting the document removes its chunks as well.
		},
		Step{
			Name: "update chunk count",
			Run: func(ctx context.Context) error {
				return in.store.SetTotalChunks(ctx, doc.ID, len(chunks))
			},
		},
	)
	if err := saga.Execute(ctx); err != nil {
		return nil, err
	}

	doc.TotalChunks = len(chunks)
	log.Info().
		Str("filename", filename).
		Int64("document_id", doc.ID).
		Int("pages", len(pages)).
		Int("chunks", len(chunks)).
		Msg("Document ingested")
	return &models.UploadResult{Document: doc, Chunks: len(chunks)}, nil
}
