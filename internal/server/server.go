// Package server provides the HTTP surface of the counter: status, events,
// an MJPEG preview and a WebSocket event feed.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Hihi1310/pizza-counter/internal/app"
	"github.com/Hihi1310/pizza-counter/internal/store"
)

// Config holds the server configuration.
type Config struct {
	App   *app.App
	Store *store.Store
}

// Server represents the HTTP server for the counter.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.App != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.HandleFunc("/api/events", s.handleEvents)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App))
		s.mux.Handle("/api/events/ws", NewEventsHandler(s.config.App))
	}

	if s.config.Store != nil {
		s.mux.HandleFunc("/api/runs", s.handleRuns)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	})
}

// handleStatus reports the live state of the current run.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c := s.config.App.Counter()
	writeJSON(w, map[string]any{
		"run_id":           s.config.App.RunID(),
		"enabled":          s.config.App.IsEnabled(),
		"frames_processed": c.FramesProcessed(),
		"live_tracks":      c.LiveTracks(),
		"total":            c.Total(),
		"totals":           c.Totals(),
	})
}

// handleEvents returns every count event of the current run.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	events := s.config.App.Counter().Events()
	writeJSON(w, map[string]any{
		"run_id": s.config.App.RunID(),
		"events": events,
		"count":  len(events),
	})
}

// handleRuns lists stored runs, most recent first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	runs, err := s.config.Store.Runs().List()
	if err != nil {
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}

	type runJSON struct {
		ID              string  `json:"id"`
		Source          string  `json:"source"`
		Model           string  `json:"model"`
		Confidence      float64 `json:"confidence"`
		Frames          int     `json:"frames"`
		DurationSeconds float64 `json:"duration_seconds"`
		Total           int     `json:"total"`
		StartedAt       string  `json:"started_at"`
		FinishedAt      string  `json:"finished_at,omitempty"`
	}

	out := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		rj := runJSON{
			ID:              run.ID,
			Source:          run.Source,
			Model:           run.Model,
			Confidence:      run.Confidence,
			Frames:          run.Frames,
			DurationSeconds: run.DurationSeconds,
			Total:           run.Total,
			StartedAt:       run.StartedAt.Format(time.RFC3339),
		}
		if run.FinishedAt.Valid {
			rj.FinishedAt = run.FinishedAt.Time.Format(time.RFC3339)
		}
		out = append(out, rj)
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
