// Package server provides the HTTP server for the StrideSense gait analysis service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Shashikr2605/StrideSense/internal/app"
	"github.com/Shashikr2605/StrideSense/internal/exercises"
	"github.com/Shashikr2605/StrideSense/internal/server/api"
)

// Config holds the server configuration.
type Config struct {
	StaticDir      string
	CORSOrigin     string
	MaxUploadBytes int64
	Service        *app.Service
	Catalog        *exercises.Catalog
	Progress       *ProgressHub
}

// Server represents the HTTP server for the StrideSense application.
type Server struct {
	config  Config
	mux     *http.ServeMux
	handler http.Handler
	start   time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	s.handler = s.mux
	if config.CORSOrigin != "" {
		s.handler = withCORS(config.CORSOrigin, s.mux)
	}
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register analysis API handlers if the Service is configured
	if s.config.Service != nil {
		analysis := api.NewAnalysisHandler(s.config.Service, s.config.MaxUploadBytes)
		s.mux.Handle("/api/upload", analysis)
		s.mux.Handle("/api/analyze", analysis)
		s.mux.Handle("/api/results/", analysis)
		s.mux.Handle("/api/recommendations", api.NewRecommendationsHandler(s.config.Service))
	}

	if s.config.Catalog != nil {
		s.mux.Handle("/api/exercises", api.NewExercisesHandler(s.config.Catalog))
	}

	// Progress WebSocket endpoint: /api/progress/{file_id}
	if s.config.Progress != nil {
		s.mux.Handle("/api/progress/", s.config.Progress)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// withCORS adds CORS headers for origin and answers preflight requests.
func withCORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if origin != "*" {
			h.Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
