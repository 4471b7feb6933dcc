package analysis

import (
	"time"

	"github.com/google/uuid"

	"github.com/IshaanNene/reviewmood/internal/types"
)

// Source says where an analysis run's texts came from.
type Source string

const (
	SourceUpload Source = "upload"
	SourceScrape Source = "scrape"
	SourceText   Source = "text"
)

// Options parameterize one analysis run.
type Options struct {
	Source Source
	// Column is the header of the text column, used when results are exported.
	Column string
	// ChartTitle labels the charts rendered from this run.
	ChartTitle string
}

// Session accumulates the classification results of the latest run. It is
// owned by the caller and is not safe for concurrent writers.
type Session struct {
	ID        string                 `json:"id"`
	Source    Source                 `json:"source"`
	Column    string                 `json:"column"`
	Title     string                 `json:"title"`
	Results   []types.Classification `json:"results"`
	StartedAt time.Time              `json:"started_at"`
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{ID: uuid.NewString(), Column: DefaultColumn}
}

// Reset clears all results and starts a new run described by opts.
func (s *Session) Reset(opts Options) {
	s.ID = uuid.NewString()
	s.Source = opts.Source
	s.Column = opts.Column
	if s.Column == "" {
		s.Column = DefaultColumn
	}
	s.Title = opts.ChartTitle
	s.Results = []types.Classification{}
	s.StartedAt = time.Now()
}

// Len returns the number of results.
func (s *Session) Len() int { return len(s.Results) }

// Counts tallies the session's results per polarity.
func (s *Session) Counts() []Count { return Aggregate(s.Results) }

// EmotionCounts tallies the session's results per label.
func (s *Session) EmotionCounts() []LabelCount { return EmotionCounts(s.Results) }
