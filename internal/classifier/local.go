//go:build !ORT

package classifier

import (
	"errors"
	"log/slog"

	"github.com/IshaanNene/reviewmood/internal/config"
)

// ErrLocalUnavailable is returned when the binary was built without the
// onnxruntime backend.
var ErrLocalUnavailable = errors.New("local classifier requires a build with -tags ORT and libonnxruntime")

// NewLocal reports that the local backend is not compiled in.
func NewLocal(cfg *config.ClassifierConfig, logger *slog.Logger) (Classifier, error) {
	logger.Warn("local classifier not compiled in", "component", "local_classifier", "model", cfg.LocalModel)
	return nil, ErrLocalUnavailable
}
