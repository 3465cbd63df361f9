// Package server exposes the upload and ask operations over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"pdf-qa/internal/config"
	"pdf-qa/internal/models"
	"pdf-qa/internal/parser"
)

// Asker answers a question against the stored chunks.
type Asker interface {
	Ask(ctx context.Context, question string, documentID int64) (*models.Answer, error)
}

// Ingester runs the upload saga over extracted page texts.
type Ingester interface {
	Ingest(ctx context.Context, filename string, pages []string) (*models.UploadResult, error)
}

// DocumentStore is the read/delete slice of the store the handlers use.
type DocumentStore interface {
	GetDocument(ctx context.Context, id int64) (models.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
}

type Server struct {
	asker    Asker
	ingester Ingester
	store    DocumentStore
	cfg      *config.Config
	logger   zerolog.Logger
	server   *http.Server

	// extract turns uploaded PDF bytes into per-page text. Swappable so
	// handler tests don't need real PDFs.
	extract func(data []byte) ([]string, error)
}

func NewServer(asker Asker, ingester Ingester, store DocumentStore, cfg *config.Config, logger zerolog.Logger) *Server {
	return &Server{
		asker:    asker,
		ingester: ingester,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		extract:  parser.ExtractPages,
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(s.requestLogger)

	r.Post("/api/upload", s.handleUpload)
	r.Post("/api/ask", s.handleAsk)
	r.Get("/api/documents/{id}", s.handleGetDocument)
	r.Delete("/api/documents/{id}", s.handleDeleteDocument)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.routes(),
	}
	s.logger.Info().Str("addr", addr).Msg("Starting server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
