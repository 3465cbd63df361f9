package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"pdf-qa/internal/models"
)

func TestDocumentLifecycle(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore()
	require.NoError(t, err)

	doc, err := s.CreateDocument(ctx, "report.pdf", 3)
	require.NoError(t, err)
	require.NotZero(t, doc.ID)

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, "report.pdf", got.Filename)
	require.Equal(t, 3, got.TotalPages)

	require.NoError(t, s.SetTotalChunks(ctx, doc.ID, 7))
	got, err = s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, 7, got.TotalChunks)

	require.NoError(t, s.DeleteDocument(ctx, doc.ID))
	_, err = s.GetDocument(ctx, doc.ID)
	require.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSetTotalChunks_NotFound(t *testing.T) {
	s, err := NewStore()
	require.NoError(t, err)
	err = s.SetTotalChunks(context.Background(), 42, 3)
	require.True(t, errors.Is(err, models.ErrNotFound))
}

func TestGetDocument_NotFound(t *testing.T) {
	s, err := NewStore()
	require.NoError(t, err)
	_, err = s.GetDocument(context.Background(), 42)
	require.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSearchChunks(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore()
	require.NoError(t, err)

	doc, err := s.CreateDocument(ctx, "a.pdf", 1)
	require.NoError(t, err)

	chunks := []models.Chunk{
		{Content: "alpha", PageNumber: 1, ChunkIndex: 0, Embedding: []float32{1, 0, 0}},
		{Content: "beta", PageNumber: 1, ChunkIndex: 1, Embedding: []float32{0, 1, 0}},
		{Content: "gamma", PageNumber: 2, ChunkIndex: 2, Embedding: []float32{0, 0, 1}},
	}
	require.NoError(t, s.InsertChunks(ctx, doc.ID, chunks))

	results, err := s.SearchChunks(ctx, []float32{1, 0, 0}, 2, doc.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "alpha", results[0].Content)
	require.Equal(t, 1, results[0].PageNumber)
	require.Equal(t, 0, results[0].ChunkIndex)
	require.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestSearchChunks_EmptyCollection(t *testing.T) {
	s, err := NewStore()
	require.NoError(t, err)
	results, err := s.SearchChunks(context.Background(), []float32{1, 0, 0}, 5, 0)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearchChunks_DocumentScope(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore()
	require.NoError(t, err)

	a, _ := s.CreateDocument(ctx, "a.pdf", 1)
	b, _ := s.CreateDocument(ctx, "b.pdf", 1)
	require.NoError(t, s.InsertChunks(ctx, a.ID, []models.Chunk{
		{Content: "from a", PageNumber: 1, ChunkIndex: 0, Embedding: []float32{1, 0, 0}},
	}))
	require.NoError(t, s.InsertChunks(ctx, b.ID, []models.Chunk{
		{Content: "from b", PageNumber: 1, ChunkIndex: 0, Embedding: []float32{1, 0, 0}},
	}))

	results, err := s.SearchChunks(ctx, []float32{1, 0, 0}, 5, b.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "from b", results[0].Content)
}
