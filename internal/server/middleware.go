package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"pdf-qa/internal/helper"
)

// requestLogger tags every request with a UUID and logs method, path, status
// and duration through the injected zerolog logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, err := helper.GenerateUUID()
		if err != nil {
			requestID = "unknown"
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
