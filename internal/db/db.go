// Package db is the Postgres/pgvector chunk store.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"pdf-qa/internal/config"
	"pdf-qa/internal/models"
)

type DocumentRow struct {
	bun.BaseModel `bun:"table:documents,alias:d"`
	ID            int64  `bun:"id,pk,autoincrement"`
	Filename      string `bun:"filename,notnull"`
	TotalPages    int    `bun:"total_pages,notnull"`
	TotalChunks   int    `bun:"total_chunks,notnull,default:0"`
}

type ChunkRow struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            int64     `bun:"id,pk,autoincrement"`
	DocumentID    int64     `bun:"document_id,notnull"`
	Content       string    `bun:"content,notnull"`
	PageNumber    int       `bun:"page_number,notnull"`
	ChunkIndex    int       `bun:"chunk_index,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(1536)"`
	Similarity    float64   `bun:"similarity,scanonly"`
}

func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DSN)}
	if cfg.Password != "" {
		opts = append(opts, pgdriver.WithPassword(cfg.Password))
	}
	return sql.OpenDB(pgdriver.NewConnector(opts...)), nil
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// Store implements the document/chunk contract on Postgres. Similarity
// scores are cosine similarity (1 - cosine distance), in [0,1] for the
// normalized vectors the embedding providers return.
type Store struct {
	db          *bun.DB
	insertBatch int
}

func NewStore(db *bun.DB, insertBatch int) *Store {
	if insertBatch <= 0 {
		insertBatch = 500
	}
	return &Store{db: db, insertBatch: insertBatch}
}

// Init creates the pgvector extension and both tables if missing. Deleting a
// document cascades to its chunks.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("creating vector extension: %w", err)
	}
	if _, err := s.db.NewCreateTable().Model((*DocumentRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return err
	}
	_, err := s.db.NewCreateTable().Model((*ChunkRow)(nil)).IfNotExists().
		ForeignKey(`("document_id") REFERENCES "documents" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	return err
}

func (s *Store) CreateDocument(ctx context.Context, filename string, totalPages int) (models.Document, error) {
	row := &DocumentRow{Filename: filename, TotalPages: totalPages}
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return models.Document{}, models.Upstream("store: create document", err)
	}
	return models.Document{ID: row.ID, Filename: row.Filename, TotalPages: row.TotalPages}, nil
}

func (s *Store) GetDocument(ctx context.Context, id int64) (models.Document, error) {
	var row DocumentRow
	err := s.db.NewSelect().Model(&row).Where("d.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Document{}, models.ErrNotFound
		}
		return models.Document{}, models.Upstream("store: get document", err)
	}
	return models.Document{
		ID:          row.ID,
		Filename:    row.Filename,
		TotalPages:  row.TotalPages,
		TotalChunks: row.TotalChunks,
	}, nil
}

func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().Model((*DocumentRow)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return models.Upstream("store: delete document", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// InsertChunks persists chunks in batches to bound single-request payloads.
func (s *Store) InsertChunks(ctx context.Context, documentID int64, chunks []models.Chunk) error {
	for start := 0; start < len(chunks); start += s.insertBatch {
		end := start + s.insertBatch
		if end > len(chunks) {
			end = len(chunks)
		}
		rows := make([]ChunkRow, 0, end-start)
		for _, c := range chunks[start:end] {
			rows = append(rows, ChunkRow{
				DocumentID: documentID,
				Content:    c.Content,
				PageNumber: c.PageNumber,
				ChunkIndex: c.ChunkIndex,
				Embedding:  c.Embedding,
			})
		}
		if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return models.Upstream("store: insert chunks", err)
		}
	}
	return nil
}

func (s *Store) SetTotalChunks(ctx context.Context, id int64, total int) error {
	res, err := s.db.NewUpdate().Model((*DocumentRow)(nil)).
		Set("total_chunks = ?", total).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return models.Upstream("store: update chunk count", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SearchChunks returns the top-limit chunks by cosine distance to the query
// embedding, most similar first. A non-zero documentID scopes the search.
func (s *Store) SearchChunks(ctx context.Context, queryEmbedding []float32, limit int, documentID int64) ([]models.RetrievedChunk, error) {
	var rows []ChunkRow
	q := s.db.NewSelect().
		Model(&rows).
		Column("content", "page_number", "chunk_index").
		ColumnExpr("1 - (embedding <=> ?) AS similarity", queryEmbedding).
		OrderExpr("embedding <=> ?", queryEmbedding).
		Limit(limit)
	if documentID != 0 {
		q = q.Where("document_id = ?", documentID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, models.Upstream("store: similarity search", err)
	}
	retrieved := make([]models.RetrievedChunk, 0, len(rows))
	for _, r := range rows {
		retrieved = append(retrieved, models.RetrievedChunk{
			Content:    r.Content,
			PageNumber: r.PageNumber,
			ChunkIndex: r.ChunkIndex,
			Similarity: r.Similarity,
		})
	}
	return retrieved, nil
}
