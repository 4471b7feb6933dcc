package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/IshaanNene/reviewmood/internal/config"
	"github.com/IshaanNene/reviewmood/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(url string) *HuggingFace {
	cfg := config.DefaultConfig().Classifier
	cfg.Endpoint = url + "/"
	cfg.APIToken = "secret"
	return NewHuggingFace(&cfg, testLogger())
}

func TestHuggingFaceNestedResponse(t *testing.T) {
	var gotPath, gotAuth, gotInput string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Inputs string `json:"inputs"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotInput = body.Inputs
		_, _ = io.WriteString(w, `[[{"label":"joy","score":0.91},{"label":"love","score":0.05}]]`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	labels, err := c.Classify(context.Background(), "I love this product")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if gotPath != "/models/SamLowe/roberta-base-go_emotions" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotInput != "I love this product" {
		t.Errorf("unexpected input %q", gotInput)
	}
	if len(labels) != 2 || labels[0].Name != "joy" {
		t.Fatalf("unexpected labels %+v", labels)
	}
}

func TestHuggingFaceFlatResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"label":"neutral","score":0.3},{"label":"anger","score":0.6}]`)
	}))
	defer srv.Close()

	labels, err := newTestClient(srv.URL).Classify(context.Background(), "This is terrible")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	top, err := Top(labels)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if top.Name != "anger" {
		t.Errorf("expected anger, got %q", top.Name)
	}
}

func TestHuggingFaceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"Model is currently loading","estimated_time":20}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Classify(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "currently loading") {
		t.Errorf("expected API error message, got %v", err)
	}
}

func TestHuggingFaceMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"unexpected":true}`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Classify(context.Background(), "hello"); err == nil {
		t.Error("expected decode error")
	}
}

func TestTop(t *testing.T) {
	if _, err := Top(nil); !errors.Is(err, types.ErrNoLabels) {
		t.Errorf("expected ErrNoLabels, got %v", err)
	}

	top, _ := Top([]Label{{"a", 0.4}, {"b", 0.4}, {"c", 0.1}})
	if top.Name != "a" {
		t.Errorf("expected first of tied labels, got %q", top.Name)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig().Classifier
	cfg.Backend = "oracle"
	if _, err := New(&cfg, testLogger()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestSentimentPredictor(t *testing.T) {
	p := NewSentimentPredictor()

	tests := []struct {
		text string
		want Sentiment
	}{
		{"I love this product, it is great!", SentimentPositive},
		{"This is terrible and awful.", SentimentNegative},
		{"The box is on the table.", SentimentNeutral},
	}
	for _, tt := range tests {
		got, score := p.Predict(tt.text)
		if got != tt.want {
			t.Errorf("Predict(%q) = %s (%.2f), want %s", tt.text, got, score, tt.want)
		}
	}
}
