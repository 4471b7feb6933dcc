// Package analysis turns texts into emotion labels and polarity counts.
package analysis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/IshaanNene/reviewmood/internal/classifier"
	"github.com/IshaanNene/reviewmood/internal/observability"
	"github.com/IshaanNene/reviewmood/internal/types"
)

// DefaultColumn is the text column of uploads and exported results.
const DefaultColumn = "Comment"

// ChartTitle returns the heading used for a run over name's texts.
func ChartTitle(name string) string {
	if name == "" {
		return "Detected Emotions Distribution"
	}
	return "Detected Emotions Distribution for " + name
}

// Adapter classifies texts one at a time and records the top label of each.
type Adapter struct {
	classifier classifier.Classifier
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewAdapter creates an adapter over c. m may be nil.
func NewAdapter(c classifier.Classifier, m *observability.Metrics, logger *slog.Logger) *Adapter {
	return &Adapter{
		classifier: c,
		metrics:    m,
		logger:     logger.With("component", "analysis"),
	}
}

// Run clears s and classifies texts in order, appending one result per
// text. The first classifier failure aborts the run and leaves s empty.
// A nil s is replaced by a new session; the session used is returned.
func (a *Adapter) Run(ctx context.Context, texts []string, s *Session, opts Options) (*Session, error) {
	if s == nil {
		s = NewSession()
	}
	s.Reset(opts)
	start := time.Now()

	for i, text := range texts {
		labels, err := a.classifier.Classify(ctx, text)
		if err == nil {
			var top classifier.Label
			top, err = classifier.Top(labels)
			if err == nil {
				s.Results = append(s.Results, types.Classification{Text: text, Label: top.Name, Score: top.Score})
				continue
			}
		}

		if a.metrics != nil {
			a.metrics.ClassifyErrors.Add(1)
		}
		a.logger.Error("classification failed", "index", i, "backend", a.classifier.Name(), "error", err)
		s.Results = []types.Classification{}
		return s, &types.ClassifyError{Index: i, Text: text, Err: err}
	}

	if a.metrics != nil {
		a.metrics.Classifications.Add(int64(len(texts)))
		a.metrics.RunsCompleted.Add(1)
	}
	a.logger.Info("analysis complete",
		"session", s.ID,
		"source", s.Source,
		"texts", len(texts),
		"duration", time.Since(start),
	)
	return s, nil
}

// RunText analyzes one typed text. The text is classified as given;
// whitespace-only input is rejected with types.ErrEmptyText.
func (a *Adapter) RunText(ctx context.Context, text string, s *Session) (*Session, error) {
	if strings.TrimSpace(text) == "" {
		return s, types.ErrEmptyText
	}
	return a.Run(ctx, []string{text}, s, Options{
		Source:     SourceText,
		Column:     DefaultColumn,
		ChartTitle: ChartTitle(""),
	})
}

// Reviews returns the bodies of reviews in order, ready for Run.
func Reviews(reviews []types.Review) []string {
	texts := make([]string, len(reviews))
	for i, r := range reviews {
		texts[i] = r.Body
	}
	return texts
}
