//go:build ORT

package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/IshaanNene/reviewmood/internal/config"
)

// Local runs a text-classification ONNX model in-process through hugot.
type Local struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	model    string
	mu       sync.Mutex
	logger   *slog.Logger
}

// NewLocal downloads the model into cfg.ModelDir if needed and loads it.
func NewLocal(cfg *config.ClassifierConfig, logger *slog.Logger) (Classifier, error) {
	logger = logger.With("component", "local_classifier")

	if err := os.MkdirAll(cfg.ModelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create model dir: %w", err)
	}

	// DownloadModel stores the repo as owner_name under the target dir.
	modelPath := filepath.Join(cfg.ModelDir, strings.ReplaceAll(cfg.LocalModel, "/", "_"))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		logger.Info("model not found, downloading", "model", cfg.LocalModel)
		modelPath, err = hugot.DownloadModel(cfg.LocalModel, cfg.ModelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("download model %s: %w", cfg.LocalModel, err)
		}
		logger.Info("model downloaded", "path", modelPath)
	} else {
		logger.Info("using existing model", "path", modelPath)
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("init hugot session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.TextClassificationConfig{
		ModelPath:    modelPath,
		Name:         "emotionPipeline",
		OnnxFilename: cfg.OnnxFilename,
	})
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("init pipeline: %w", err)
	}

	return &Local{
		session:  session,
		pipeline: pipeline,
		model:    cfg.LocalModel,
		logger:   logger,
	}, nil
}

// Classify runs the pipeline on one text.
func (l *Local) Classify(ctx context.Context, text string) ([]Label, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	out, err := l.pipeline.RunPipeline([]string{text})
	l.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("run pipeline: %w", err)
	}
	if len(out.ClassificationOutputs) == 0 {
		return nil, nil
	}

	labels := make([]Label, 0, len(out.ClassificationOutputs[0]))
	for _, o := range out.ClassificationOutputs[0] {
		labels = append(labels, Label{Name: o.Label, Score: float64(o.Score)})
	}
	return labels, nil
}

// Close destroys the hugot session.
func (l *Local) Close() error {
	return l.session.Destroy()
}

// Name returns the backend identifier.
func (l *Local) Name() string { return "local" }
