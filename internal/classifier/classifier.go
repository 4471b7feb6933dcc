// Package classifier wraps the pretrained emotion models behind one
// interface. Every backend scores a single text per call.
package classifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/reviewmood/internal/config"
	"github.com/IshaanNene/reviewmood/internal/types"
)

// Label is one candidate emotion with its confidence.
type Label struct {
	Name  string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier assigns emotion labels to a text.
type Classifier interface {
	// Classify returns the model's labels for text in any order.
	Classify(ctx context.Context, text string) ([]Label, error)

	// Close releases any resources held by the backend.
	Close() error

	// Name returns the backend identifier.
	Name() string
}

// New builds the backend named by cfg.Backend.
func New(cfg *config.ClassifierConfig, logger *slog.Logger) (Classifier, error) {
	switch cfg.Backend {
	case "", "huggingface":
		return NewHuggingFace(cfg, logger), nil
	case "local":
		return NewLocal(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
	}
}

// Top returns the highest-scoring label. Ties keep the earlier label.
func Top(labels []Label) (Label, error) {
	if len(labels) == 0 {
		return Label{}, types.ErrNoLabels
	}
	best := labels[0]
	for _, l := range labels[1:] {
		if l.Score > best.Score {
			best = l
		}
	}
	return best, nil
}
