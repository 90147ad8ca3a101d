package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pbaille/sitemapgen/internal/generator"
	"github.com/pbaille/sitemapgen/internal/metrics"
	"github.com/pbaille/sitemapgen/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options wires the server to its collaborators
type Options struct {
	Addr         string
	Generator    *generator.Generator
	Store        *store.Store
	OutputDir    string
	InputSitemap string
	Recorder     metrics.Recorder
	Gatherer     prometheus.Gatherer
	Logger       *slog.Logger
}

// Server exposes classification, generation runs and written sitemaps over HTTP
type Server struct {
	opts   Options
	logger *slog.Logger
	// mu serializes runs; they write to the same output directory.
	mu sync.Mutex
}

// New creates a new API server
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = (*metrics.Prometheus)(nil)
	}
	return &Server{opts: opts, logger: logger}
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Runs
	mux.HandleFunc("GET /runs", s.listRuns)
	mux.HandleFunc("POST /runs", s.createRun)
	mux.HandleFunc("GET /runs/{id}", s.getRun)

	mux.HandleFunc("GET /classify", s.classify)
	mux.HandleFunc("GET /sitemaps/{file}", s.sitemapFile)

	if s.opts.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(s.withLogging(mux))
}

// Run serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ClassifyResponse reports the category of one input
type ClassifyResponse struct {
	Input    string `json:"input"`
	Path     string `json:"path,omitempty"`
	Category string `json:"category"`
	Pattern  string `json:"pattern,omitempty"`
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	clf := s.opts.Generator.Classifier()
	resp := ClassifyResponse{Input: q}
	subject := q
	if strings.Contains(q, "://") {
		subject = clf.URLPath(q)
		resp.Path = subject
	}
	m := clf.Explain(subject)
	resp.Category = string(m.Category)
	resp.Pattern = m.Pattern

	s.opts.Recorder.IncClassification(resp.Category)
	writeJSON(w, http.StatusOK, resp)
}

// CreateRunRequest is the request body for starting a run
type CreateRunRequest struct {
	Mode  generator.Mode `json:"mode"`
	Input string         `json:"input,omitempty"`
}

func (s *Server) createRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var report *generator.Report
	var err error
	switch req.Mode {
	case generator.ModePages:
		report, err = s.opts.Generator.Pages()
	case generator.ModeSplit:
		input, ok := s.splitInput(req.Input)
		if !ok {
			writeError(w, http.StatusBadRequest, "input must be the configured sitemap or an .xml file name in the output directory")
			return
		}
		report, err = s.opts.Generator.Split(input)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("mode must be %q or %q", generator.ModePages, generator.ModeSplit))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.opts.Store != nil {
		run, err := s.opts.Store.RecordRun(report.Run())
		if err != nil {
			s.logger.Warn("Could not record run", "error", err)
		} else {
			report.RunID = run.ID
		}
	}

	writeJSON(w, http.StatusCreated, report)
}

// splitInput limits split sources to the configured input sitemap or a
// plain .xml file name resolved inside the output directory
func (s *Server) splitInput(input string) (string, bool) {
	if input == "" || input == s.opts.InputSitemap {
		return s.opts.InputSitemap, true
	}
	if input != filepath.Base(input) || strings.HasPrefix(input, ".") || filepath.Ext(input) != ".xml" {
		return "", false
	}
	return filepath.Join(s.opts.OutputDir, input), true
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}

	run, err := s.opts.Store.GetRun(r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "run not found")
		return
	case errors.Is(err, store.ErrAmbiguous):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, run)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		writeJSON(w, http.StatusOK, map[string]any{"runs": []any{}, "count": 0})
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.opts.Store.ListRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

func (s *Server) sitemapFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	if name != filepath.Base(name) || !strings.HasPrefix(name, "sitemap") || filepath.Ext(name) != ".xml" {
		writeError(w, http.StatusNotFound, "not a sitemap file")
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	http.ServeFile(w, r, filepath.Join(s.opts.OutputDir, name))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
