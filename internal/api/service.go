package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/IshaanNene/reviewmood/internal/analysis"
	"github.com/IshaanNene/reviewmood/internal/chart"
	"github.com/IshaanNene/reviewmood/internal/classifier"
	"github.com/IshaanNene/reviewmood/internal/config"
	"github.com/IshaanNene/reviewmood/internal/engine"
	"github.com/IshaanNene/reviewmood/internal/ingest"
	"github.com/IshaanNene/reviewmood/internal/observability"
	"github.com/IshaanNene/reviewmood/internal/storage"
	"github.com/IshaanNene/reviewmood/internal/types"
)

// Scraper is the part of the pagination driver the service needs.
type Scraper interface {
	Scrape(ctx context.Context, template string, pages int) ([]types.Review, engine.Stats, error)
}

// ScrapeRequest describes one scrape action.
type ScrapeRequest struct {
	Product string `json:"product"`
	URL     string `json:"url"`
	Preset  string `json:"preset,omitempty"`
	Pages   int    `json:"pages,omitempty"`
	Analyze bool   `json:"analyze,omitempty"`
}

// ScrapeResult reports where a scrape was written and what it found.
type ScrapeResult struct {
	Product  string `json:"product"`
	Path     string `json:"path"`
	Pages    int    `json:"pages"`
	Reviews  int    `json:"reviews"`
	Dropped  int    `json:"dropped"`
	Filtered int    `json:"filtered"`
	Analyzed bool   `json:"analyzed"`
}

// SentimentResult is the outcome of a quick sentiment check.
type SentimentResult struct {
	Sentiment classifier.Sentiment `json:"sentiment"`
	Score     float64              `json:"score"`
	Message   string               `json:"message"`
}

// Service runs the scrape and analysis actions shared by the CLI, the JSON
// API and the dashboard. It owns one Session; whole runs are serialized so
// readers only ever see a finished run or an empty one.
type Service struct {
	cfg       *config.Config
	scraper   Scraper
	adapter   *analysis.Adapter
	sentiment *classifier.SentimentPredictor
	reader    *ingest.Reader
	metrics   *observability.Metrics
	logger    *slog.Logger

	mu      sync.Mutex
	session *analysis.Session
}

// NewService wires the actions together. scraper may be nil when only
// analysis is needed; m may be nil.
func NewService(cfg *config.Config, scraper Scraper, c classifier.Classifier, m *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		cfg:       cfg,
		scraper:   scraper,
		adapter:   analysis.NewAdapter(c, m, logger),
		sentiment: classifier.NewSentimentPredictor(),
		reader:    ingest.NewReader(cfg.Ingest.Encodings, logger),
		metrics:   m,
		logger:    logger.With("component", "service"),
		session:   analysis.NewSession(),
	}
}

// Presets returns the configured preset products.
func (s *Service) Presets() []config.Preset {
	return s.cfg.Scrape.Presets
}

// Scrape fetches a product's reviews, writes {product}_reviews.csv and,
// when asked, classifies the comments into the session. A preset name
// fills in product and URL; otherwise both are required.
func (s *Service) Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResult, error) {
	if req.Preset != "" {
		p, ok := s.cfg.Scrape.Preset(req.Preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", req.Preset)
		}
		req.Product, req.URL = p.Name, p.URL
	}
	req.Product = strings.TrimSpace(req.Product)
	req.URL = strings.TrimSpace(req.URL)
	if req.Product == "" || req.URL == "" {
		return nil, types.ErrMissingInput
	}
	if s.scraper == nil {
		return nil, errors.New("scraping is not configured")
	}
	pages := req.Pages
	if pages <= 0 {
		pages = s.cfg.Scrape.Pages
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reviews, stats, err := s.scraper.Scrape(ctx, req.URL, pages)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewProductStorage(s.cfg.Storage.OutputDir, req.Product, s.logger)
	if err != nil {
		return nil, err
	}
	if err := storage.Persist(store, reviews); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ReviewsWritten.Add(int64(len(reviews)))
	}

	result := &ScrapeResult{
		Product:  req.Product,
		Path:     store.Path(),
		Pages:    stats.Pages,
		Reviews:  len(reviews),
		Dropped:  stats.Dropped,
		Filtered: stats.Filtered,
	}
	if !req.Analyze {
		return result, nil
	}

	if _, err := s.adapter.Run(ctx, analysis.Reviews(reviews), s.session, analysis.Options{
		Source:     analysis.SourceScrape,
		Column:     analysis.DefaultColumn,
		ChartTitle: analysis.ChartTitle(req.Product),
	}); err != nil {
		return result, err
	}
	result.Analyzed = true
	return result, nil
}

// AnalyzeCSV decodes an uploaded CSV and classifies its text column. An
// empty column falls back to the configured one.
func (s *Service) AnalyzeCSV(ctx context.Context, r io.Reader, name, column string) (analysis.Session, error) {
	if column == "" {
		column = s.cfg.Ingest.Column
	}

	_, texts, err := s.reader.ReadColumn(r, name, column)
	if err != nil {
		if errors.Is(err, types.ErrDecode) && s.metrics != nil {
			s.metrics.DecodeFailures.Add(1)
		}
		return analysis.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	title := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	_, err = s.adapter.Run(ctx, texts, s.session, analysis.Options{
		Source:     analysis.SourceUpload,
		Column:     column,
		ChartTitle: analysis.ChartTitle(title),
	})
	return s.copySession(), err
}

// AnalyzeText classifies one pasted text.
func (s *Service) AnalyzeText(ctx context.Context, text string) (analysis.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.adapter.RunText(ctx, text, s.session)
	return s.copySession(), err
}

// Sentiment runs the quick lexicon check. Blank text is rejected with
// types.ErrEmptyText.
func (s *Service) Sentiment(text string) (SentimentResult, error) {
	if strings.TrimSpace(text) == "" {
		return SentimentResult{}, types.ErrEmptyText
	}
	verdict, score := s.sentiment.Predict(text)
	return SentimentResult{Sentiment: verdict, Score: score, Message: verdict.Verdict()}, nil
}

// Session returns a copy of the latest run.
func (s *Service) Session() analysis.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copySession()
}

// RenderChart writes the charts for the latest run.
func (s *Service) RenderChart(w io.Writer) error {
	snap := s.Session()
	return chart.Render(w, &snap)
}

// WriteResults writes the latest run as CSV.
func (s *Service) WriteResults(w io.Writer) error {
	snap := s.Session()
	return storage.WriteResults(w, &snap)
}

func (s *Service) copySession() analysis.Session {
	snap := *s.session
	snap.Results = make([]types.Classification, len(s.session.Results))
	copy(snap.Results, s.session.Results)
	return snap
}
