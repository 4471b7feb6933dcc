// Package api exposes the scrape and analysis actions as a JSON API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/IshaanNene/reviewmood/internal/analysis"
	"github.com/IshaanNene/reviewmood/internal/chart"
	"github.com/IshaanNene/reviewmood/internal/config"
	"github.com/IshaanNene/reviewmood/internal/types"
)

// Server provides a REST API over a Service.
type Server struct {
	mux           *http.ServeMux
	svc           *Service
	maxUploadSize int64
	logger        *slog.Logger
}

// NewServer creates a new API server. Routes are registered under /api/.
func NewServer(svc *Service, maxUploadSize int64, logger *slog.Logger) *Server {
	s := &Server{
		mux:           http.NewServeMux(),
		svc:           svc,
		maxUploadSize: maxUploadSize,
		logger:        logger.With("component", "api_server"),
	}

	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	// Health
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Actions
	s.mux.HandleFunc("POST /api/scrape", s.handleScrape)
	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /api/text", s.handleText)
	s.mux.HandleFunc("POST /api/sentiment", s.handleSentiment)

	// Latest run
	s.mux.HandleFunc("GET /api/results", s.handleResults)
	s.mux.HandleFunc("GET /api/counts", s.handleCounts)
	s.mux.HandleFunc("GET /api/chart", s.handleChart)

	s.mux.HandleFunc("GET /api/presets", s.handlePresets)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var body ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	result, err := s.svc.Scrape(r.Context(), body)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid upload: " + err.Error()})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	session, err := s.svc.AnalyzeCSV(r.Context(), file, header.Filename, r.FormValue("column"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newRunResponse(&session))
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	session, err := s.svc.AnalyzeText(r.Context(), body.Text)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newRunResponse(&session))
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	result, err := s.svc.Sentiment(body.Text)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="results.csv"`)
		if err := s.svc.WriteResults(w); err != nil {
			s.logger.Error("write results", "error", err)
		}
		return
	}
	session := s.svc.Session()
	s.jsonResponse(w, http.StatusOK, session)
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	session := s.svc.Session()
	s.jsonResponse(w, http.StatusOK, newRunResponse(&session))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.svc.RenderChart(w)
	if errors.Is(err, chart.ErrNoData) {
		w.Write([]byte(`<p class="empty">No emotions detected yet.</p>`))
		return
	}
	if err != nil {
		s.logger.Error("render chart", "error", err)
	}
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.svc.Presets())
}

// runResponse summarizes a finished run without the full result list.
type runResponse struct {
	ID       string                `json:"id"`
	Source   analysis.Source       `json:"source"`
	Title    string                `json:"title"`
	Total    int                   `json:"total"`
	Counts   []analysis.Count      `json:"counts"`
	Emotions []analysis.LabelCount `json:"emotions"`
	Started  time.Time             `json:"started_at"`
}

func newRunResponse(s *analysis.Session) runResponse {
	return runResponse{
		ID:       s.ID,
		Source:   s.Source,
		Title:    s.Title,
		Total:    s.Len(),
		Counts:   s.Counts(),
		Emotions: s.EmotionCounts(),
		Started:  s.StartedAt,
	}
}

// errorResponse maps domain errors to HTTP status codes.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var fetchErr *types.FetchError
	var classifyErr *types.ClassifyError
	switch {
	case errors.Is(err, types.ErrMissingInput),
		errors.Is(err, types.ErrEmptyText),
		errors.Is(err, types.ErrInvalidTemplate),
		errors.Is(err, types.ErrMissingColumn):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrDecode):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &fetchErr), errors.As(err, &classifyErr):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
		s.logger.Error("request failed", "error", err)
	}
	s.jsonResponse(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
