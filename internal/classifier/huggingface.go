package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/IshaanNene/reviewmood/internal/config"
)

// HuggingFace calls the hosted Inference API for a text-classification model.
type HuggingFace struct {
	endpoint string
	model    string
	token    string
	http     *http.Client
	logger   *slog.Logger
}

// NewHuggingFace creates a reusable Inference API client.
func NewHuggingFace(cfg *config.ClassifierConfig, logger *slog.Logger) *HuggingFace {
	return &HuggingFace{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		token:    cfg.APIToken,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger.With("component", "hf_classifier"),
	}
}

// Classify posts the text and returns every label the model scored.
func (c *HuggingFace) Classify(ctx context.Context, text string) ([]Label, error) {
	body, err := json.Marshal(map[string]any{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	url := c.endpoint + "/models/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("unexpected status %s: %s", resp.Status, apiErr.Error)
		}
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	labels, err := decodeLabels(raw)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("classified", "model", c.model, "labels", len(labels))
	return labels, nil
}

// decodeLabels accepts both [[{label, score}, ...]] and [{label, score}, ...].
func decodeLabels(raw []byte) ([]Label, error) {
	var nested [][]Label
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}

	var flat []Label
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return flat, nil
}

// Close releases idle connections.
func (c *HuggingFace) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Name returns the backend identifier.
func (c *HuggingFace) Name() string { return "huggingface" }
