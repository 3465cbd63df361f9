// Package memstore is an in-memory chunk store backed by chromem-go. It
// implements the same contract as the Postgres store and is selected when no
// database DSN is configured, which keeps local runs and tests free of
// external services.
package memstore

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"

	"pdf-qa/internal/models"
)

const collectionName = "chunks"

type Store struct {
	mu          sync.Mutex
	db          *chromem.DB
	collection  *chromem.Collection
	documents   map[int64]*models.Document
	chunkCounts map[int64]int
	nextID      int64
}

func NewStore() (*Store, error) {
	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %v", err)
	}
	return &Store{
		db:          db,
		collection:  collection,
		documents:   map[int64]*models.Document{},
		chunkCounts: map[int64]int{},
		nextID:      1,
	}, nil
}

func (s *Store) CreateDocument(ctx context.Context, filename string, totalPages int) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := &models.Document{ID: s.nextID, Filename: filename, TotalPages: totalPages}
	s.nextID++
	s.documents[doc.ID] = doc
	return *doc, nil
}

func (s *Store) GetDocument(ctx context.Context, id int64) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return models.Document{}, models.ErrNotFound
	}
	return *doc, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.chunkCounts, id)
	where := map[string]string{"document_id": strconv.FormatInt(id, 10)}
	if err := s.collection.Delete(ctx, where, nil); err != nil {
		return models.Upstream("memstore: delete chunks", err)
	}
	return nil
}

func (s *Store) InsertChunks(ctx context.Context, documentID int64, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("%d-%d", documentID, c.ChunkIndex),
			Content: c.Content,
			Metadata: map[string]string{
				"document_id": strconv.FormatInt(documentID, 10),
				"page_number": strconv.Itoa(c.PageNumber),
				"chunk_index": strconv.Itoa(c.ChunkIndex),
			},
			Embedding: c.Embedding,
		})
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return models.Upstream("memstore: add documents", err)
	}
	s.mu.Lock()
	s.chunkCounts[documentID] += len(chunks)
	s.mu.Unlock()
	return nil
}

func (s *Store) SetTotalChunks(ctx context.Context, id int64, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return models.ErrNotFound
	}
	doc.TotalChunks = total
	return nil
}

// SearchChunks queries the collection by embedding. chromem reports cosine
// similarity natively, so scores line up with the Postgres store.
func (s *Store) SearchChunks(ctx context.Context, queryEmbedding []float32, limit int, documentID int64) ([]models.RetrievedChunk, error) {
	// chromem rejects result counts above the collection size.
	if n := s.collection.Count(); limit > n {
		limit = n
	}
	if documentID != 0 {
		s.mu.Lock()
		if n := s.chunkCounts[documentID]; limit > n {
			limit = n
		}
		s.mu.Unlock()
	}
	if limit == 0 {
		return nil, nil
	}
	opts := chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       limit,
	}
	if documentID != 0 {
		opts.Where = map[string]string{"document_id": strconv.FormatInt(documentID, 10)}
	}
	results, err := s.collection.QueryWithOptions(ctx, opts)
	if err != nil {
		return nil, models.Upstream("memstore: similarity search", err)
	}
	retrieved := make([]models.RetrievedChunk, 0, len(results))
	for _, r := range results {
		page, _ := strconv.Atoi(r.Metadata["page_number"])
		index, _ := strconv.Atoi(r.Metadata["chunk_index"])
		retrieved = append(retrieved, models.RetrievedChunk{
			Content:    r.Content,
			PageNumber: page,
			ChunkIndex: index,
			Similarity: float64(r.Similarity),
		})
	}
	sort.SliceStable(retrieved, func(i, j int) bool {
		return retrieved[i].Similarity > retrieved[j].Similarity
	})
	return retrieved, nil
}
