// Package rag implements the retrieval-augmented ask pipeline: embed the
// question, find the most similar stored chunks, assemble a bounded context
// block, and forward it to the completion model.
package rag

import (
	"context"
	"fmt"
	"strings"

	"pdf-qa/internal/config"
	"pdf-qa/internal/helper"
	"pdf-qa/internal/models"
)

// Store is the slice of the chunk store the ask path needs.
type Store interface {
	GetDocument(ctx context.Context, id int64) (models.Document, error)
	SearchChunks(ctx context.Context, queryEmbedding []float32, limit int, documentID int64) ([]models.RetrievedChunk, error)
}

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Completer sends one chat completion request.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type RAG struct {
	store     Store
	embedder  Embedder
	completer Completer
	cfg       *config.RAGConfig
}

func NewRAG(store Store, embedder Embedder, completer Completer, cfg *config.RAGConfig) *RAG {
	return &RAG{store: store, embedder: embedder, completer: completer, cfg: cfg}
}

// Ask answers a question from stored chunks. A documentID of zero searches
// every document. An empty retrieval is not an error: the caller gets the
// fixed fallback answer and the completion model is never contacted.
func (r *RAG) Ask(ctx context.Context, question string, documentID int64) (*models.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", models.ErrInvalidInput)
	}
	// Long questions are truncated, not rejected, to bound provider cost.
	question = helper.Truncate(question, r.cfg.QuestionMaxLen)

	chunks, err := r.Retrieve(ctx, question, documentID)
	if err != nil {
		return nil, err
	}

	contextBlock := Assemble(chunks, r.cfg.ContextMaxLen)
	if contextBlock == "" {
		return &models.Answer{
			Answer:    models.NoContextAnswer,
			Citations: []models.Citation{},
		}, nil
	}

	prompt := fmt.Sprintf(models.UserPromptTemplate, contextBlock, question)
	answer, err := r.completer.Complete(ctx, models.SystemPrompt, prompt)
	if err != nil {
		return nil, models.Upstream("completion", err)
	}

	return &models.Answer{
		Answer:    answer,
		Citations: BuildCitations(chunks, r.cfg.ExcerptLen),
	}, nil
}

// Retrieve validates the question's document scope, embeds the question and
// runs one top-K similarity query. The document lookup happens before any
// embedding work so an unknown documentID fails without provider cost.
func (r *RAG) Retrieve(ctx context.Context, question string, documentID int64) ([]models.RetrievedChunk, error) {
	if documentID != 0 {
		if _, err := r.store.GetDocument(ctx, documentID); err != nil {
			return nil, err
		}
	}
	queryEmbedding, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, models.Upstream("embedding: embed question", err)
	}
	return r.store.SearchChunks(ctx, queryEmbedding, r.cfg.TopK, documentID)
}
