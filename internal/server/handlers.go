package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pdf-qa/internal/models"
	"pdf-qa/internal/parser"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.RAG.MaxUploadBytes)
	// Slack for the multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "File too large", err.Error())
			return
		}
		s.respondError(w, http.StatusBadRequest, "No file provided", err.Error())
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		s.respondError(w, http.StatusBadRequest, "Unsupported file type. Please upload a PDF.", "")
		return
	}
	if header.Size > maxBytes {
		s.respondError(w, http.StatusRequestEntityTooLarge, "File too large", "")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Failed to read file", err.Error())
		return
	}

	pages, err := s.extract(data)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Failed to parse PDF", err.Error())
		return
	}
	if !parser.HasText(pages) {
		s.respondError(w, http.StatusBadRequest, "PDF appears to be empty or could not extract text", "")
		return
	}

	result, err := s.ingester.Ingest(r.Context(), header.Filename, pages)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	answer, err := s.asker.Ask(r.Context(), req.Question, req.DocumentID)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, answer)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid document id", "")
		return
	}
	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid document id", "")
		return
	}
	if err := s.store.DeleteDocument(r.Context(), id); err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondPipelineError maps the error taxonomy to status codes. Upstream
// details are passed through for diagnosis; nothing propagates unhandled.
func (s *Server) respondPipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "Document not found", "")
	case errors.Is(err, models.ErrInvalidInput):
		s.respondError(w, http.StatusBadRequest, "Invalid input", err.Error())
	case errors.Is(err, models.ErrTooLarge):
		s.respondError(w, http.StatusRequestEntityTooLarge, "File too large", "")
	default:
		var up *models.UpstreamError
		if errors.As(err, &up) {
			s.respondError(w, http.StatusInternalServerError, "Upstream failure", up.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message, details string) {
	s.respondJSON(w, status, errorResponse{Error: message, Details: details})
}
