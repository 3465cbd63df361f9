package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"pdf-qa/internal/config"
	"pdf-qa/internal/ingest"
	"pdf-qa/internal/memstore"
	"pdf-qa/internal/models"
)

// hashEmbedder maps text to a deterministic unit vector so the in-memory
// store's similarity search behaves sensibly without a provider.
type hashEmbedder struct{}

func (hashEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 8)
	for i, r := range text {
		vec[i%8] += float32(r % 13)
	}
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		vec[0] = 1
		return vec, nil
	}
	inv := 1 / sqrt32(norm)
	for i := range vec {
		vec[i] *= inv
	}
	return vec, nil
}

func sqrt32(x float32) float32 {
	// Newton's method is plenty for test vectors.
	z := x
	for i := 0; i < 20; i++ {
		z -= (z*z - x) / (2 * z)
	}
	return z
}

func pipelineConfig() *config.RAGConfig {
	return &config.RAGConfig{
		ChunkSize:       800,
		ChunkOverlap:    100,
		TopK:            5,
		QuestionMaxLen:  1000,
		ContextMaxLen:   1200,
		ExcerptLen:      150,
		MaxChunks:       1000,
		EmbedBatchSize:  64,
		InsertBatchSize: 500,
	}
}

func TestPipeline_UploadThenAsk(t *testing.T) {
	ctx := context.Background()
	store, err := memstore.NewStore()
	require.NoError(t, err)
	emb := hashEmbedder{}
	cfg := pipelineConfig()

	ingestor := ingest.NewIngestor(store, emb, cfg)
	result, err := ingestor.Ingest(ctx, "hello.pdf", []string{"Hello world"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Chunks)
	require.Equal(t, 1, result.Document.TotalPages)
	require.Equal(t, 1, result.Document.TotalChunks)

	comp := &fakeCompleter{answer: "It says hello."}
	pipeline := NewRAG(store, emb, comp, cfg)

	answer, err := pipeline.Ask(ctx, "What does the document say?", result.Document.ID)
	require.NoError(t, err)
	require.Equal(t, "It says hello.", answer.Answer)
	require.Len(t, answer.Citations, 1)
	require.Equal(t, 1, answer.Citations[0].Page)
	require.Equal(t, "Hello world...", answer.Citations[0].Text)
	require.Contains(t, comp.user, "[Page 1]: Hello world")
}

func TestPipeline_AskUnknownDocument(t *testing.T) {
	store, err := memstore.NewStore()
	require.NoError(t, err)
	pipeline := NewRAG(store, hashEmbedder{}, &fakeCompleter{}, pipelineConfig())

	_, err = pipeline.Ask(context.Background(), "anything?", 12345)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestPipeline_AskEmptyStoreFallsBack(t *testing.T) {
	store, err := memstore.NewStore()
	require.NoError(t, err)
	comp := &fakeCompleter{answer: "never"}
	pipeline := NewRAG(store, hashEmbedder{}, comp, pipelineConfig())

	answer, err := pipeline.Ask(context.Background(), "anything?", 0)
	require.NoError(t, err)
	require.Equal(t, models.NoContextAnswer, answer.Answer)
	require.Empty(t, answer.Citations)
	require.Zero(t, comp.calls)
}

func TestPipeline_MultiPageRetrievalOrder(t *testing.T) {
	ctx := context.Background()
	store, err := memstore.NewStore()
	require.NoError(t, err)
	emb := hashEmbedder{}
	cfg := pipelineConfig()

	pages := []string{
		"Alpha section about apples and orchards.",
		"Beta section about bridges and rivers.",
		strings.Repeat("Filler text. ", 10),
	}
	ingestor := ingest.NewIngestor(store, emb, cfg)
	result, err := ingestor.Ingest(ctx, "multi.pdf", pages)
	require.NoError(t, err)
	require.Equal(t, 3, result.Document.TotalPages)

	comp := &fakeCompleter{answer: "ok"}
	pipeline := NewRAG(store, emb, comp, cfg)
	answer, err := pipeline.Ask(ctx, "Tell me about apples", result.Document.ID)
	require.NoError(t, err)
	require.Len(t, answer.Citations, 3)
	for i := 1; i < len(answer.Citations); i++ {
		require.GreaterOrEqual(t, answer.Citations[i-1].Similarity, answer.Citations[i].Similarity,
			"citations must keep the relevance order of the similarity query")
	}
}
