package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/IshaanNene/reviewmood/internal/analysis"
	"github.com/IshaanNene/reviewmood/internal/types"
)

// ReviewHeader is the header row of a scraped-review CSV.
var ReviewHeader = []string{"Customer Name", "Review Title", "Rating", "Comment"}

// ReviewsFileName returns the CSV file name for a product's reviews.
func ReviewsFileName(product string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '_'
		}
		return r
	}, strings.TrimSpace(product))
	return name + "_reviews.csv"
}

// --- Review CSV Storage ---

// CSVStorage writes reviews as CSV rows with no index column.
type CSVStorage struct {
	path   string
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewCSVStorage creates (or truncates) the CSV file at outputPath and writes
// the header row.
func NewCSVStorage(outputPath string, logger *slog.Logger) (*CSVStorage, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, &types.StorageError{Backend: "csv", Err: fmt.Errorf("create output dir: %w", err)}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, &types.StorageError{Backend: "csv", Err: fmt.Errorf("create output file: %w", err)}
	}

	w := csv.NewWriter(f)
	if err := w.Write(ReviewHeader); err != nil {
		_ = f.Close()
		return nil, &types.StorageError{Backend: "csv", Err: fmt.Errorf("write CSV header: %w", err)}
	}

	return &CSVStorage{
		path:   outputPath,
		file:   f,
		writer: w,
		logger: logger.With("component", "csv_storage"),
	}, nil
}

// NewProductStorage opens {product}_reviews.csv in outputDir.
func NewProductStorage(outputDir, product string, logger *slog.Logger) (*CSVStorage, error) {
	return NewCSVStorage(filepath.Join(outputDir, ReviewsFileName(product)), logger)
}

func (s *CSVStorage) Name() string { return "csv" }

// Path returns the file being written.
func (s *CSVStorage) Path() string { return s.path }

func (s *CSVStorage) Store(reviews []types.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range reviews {
		if err := s.writer.Write(r.Row()); err != nil {
			return &types.StorageError{Backend: "csv", Err: fmt.Errorf("write CSV row: %w", err)}
		}
		s.count++
	}

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return &types.StorageError{Backend: "csv", Err: err}
	}
	return nil
}

// Count returns the number of reviews written so far.
func (s *CSVStorage) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *CSVStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("CSV written", "path", s.path, "reviews", s.count)
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		_ = s.file.Close()
		return &types.StorageError{Backend: "csv", Err: err}
	}
	return s.file.Close()
}

// WriteReviews writes the header and reviews to w.
func WriteReviews(w io.Writer, reviews []types.Review) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReviewHeader); err != nil {
		return err
	}
	for _, r := range reviews {
		if err := cw.Write(r.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// --- Results CSV ---

// ResultsHeader returns the header of an exported analysis, naming the text
// column after the input's column.
func ResultsHeader(column string) []string {
	if column == "" {
		column = analysis.DefaultColumn
	}
	return []string{column, "Detected_Emotion", "Emotion Category"}
}

// WriteResults writes one row per classification with its polarity.
func WriteResults(w io.Writer, s *analysis.Session) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultsHeader(s.Column)); err != nil {
		return err
	}
	for _, r := range s.Results {
		if err := cw.Write([]string{r.Text, r.Label, string(analysis.Bucket(r.Label))}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveResults writes the session's results to path.
func SaveResults(path string, s *analysis.Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &types.StorageError{Backend: "csv", Err: fmt.Errorf("create output dir: %w", err)}
	}
	f, err := os.Create(path)
	if err != nil {
		return &types.StorageError{Backend: "csv", Err: err}
	}
	if err := WriteResults(f, s); err != nil {
		_ = f.Close()
		return &types.StorageError{Backend: "csv", Err: err}
	}
	return f.Close()
}
