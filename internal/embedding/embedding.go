package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/sync/errgroup"

	"pdf-qa/internal/config"
	"pdf-qa/internal/models"
)

// Embedder is the gateway contract: text in, fixed-dimension vector out.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder builds an embedder for the configured provider.
func NewEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	switch cfg.Provider {
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, err
		}
		return embeddings.NewEmbedder(llm)
	case "openai", "":
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
			openai.WithEmbeddingModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, err
		}
		return embeddings.NewEmbedder(llm)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

// EmbedChunks fills in the Embedding field of every chunk. Calls are issued
// batchSize at a time and each batch is awaited before the next starts, so
// in-flight work is bounded by the batch width rather than the chunk count.
// The chunks slice is mutated in place; on error it must be discarded.
func EmbedChunks(ctx context.Context, embedder Embedder, chunks []models.Chunk, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 64
	}
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				vec, err := embedder.EmbedQuery(gctx, chunks[i].Content)
				if err != nil {
					return err
				}
				chunks[i].Embedding = vec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return models.Upstream("embedding: embed chunks", err)
		}
	}
	return nil
}
