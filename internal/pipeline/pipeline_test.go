package pipeline

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/IshaanNene/reviewmood/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestPipelineBasic(t *testing.T) {
	p := New(testLogger)
	p.Use(&TrimMiddleware{})

	r := &types.Review{Author: "  Alice ", Title: " Good ", Rating: " 5", Body: "Nice phone  "}
	got, err := p.Process(r)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	want := types.Review{Author: "Alice", Title: "Good", Rating: "5", Body: "Nice phone"}
	if *got != want {
		t.Errorf("expected %+v, got %+v", want, *got)
	}
}

func TestProcessAllKeepsOrderAndCountsDrops(t *testing.T) {
	p, err := FromNames([]string{"trim", "require_body", "dedup"}, testLogger)
	if err != nil {
		t.Fatalf("from names: %v", err)
	}
	if p.Len() != 3 {
		t.Fatalf("expected 3 middleware, got %d", p.Len())
	}

	in := []types.Review{
		{Author: "A", Body: "first"},
		{Author: "B", Body: "   "},
		{Author: "A", Body: "first "},
		{Author: "C", Body: "second"},
	}
	out, dropped, err := p.ProcessAll(in)
	if err != nil {
		t.Fatalf("process all: %v", err)
	}
	if dropped != 2 {
		t.Errorf("expected 2 dropped, got %d", dropped)
	}
	if len(out) != 2 || out[0].Body != "first" || out[1].Body != "second" {
		t.Errorf("unexpected output %+v", out)
	}
	if in[0].Body != "first" || in[2].Body != "first " {
		t.Error("input slice should not be modified")
	}
}

func TestFromNamesUnknown(t *testing.T) {
	if _, err := FromNames([]string{"trim", "translate"}, testLogger); err == nil {
		t.Error("expected error for unknown middleware")
	}
}

type failingMiddleware struct{}

func (failingMiddleware) Name() string { return "boom" }
func (failingMiddleware) Process(*types.Review) (*types.Review, error) {
	return nil, errors.New("boom")
}

func TestPipelineErrorCarriesStage(t *testing.T) {
	p := New(testLogger)
	p.Use(&TrimMiddleware{})
	p.Use(failingMiddleware{})

	_, err := p.Process(&types.Review{Body: "x"})
	var pe *types.PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PipelineError, got %v", err)
	}
	if pe.Stage != "boom" {
		t.Errorf("expected stage boom, got %q", pe.Stage)
	}
}

func TestRatingNormalizeMiddleware(t *testing.T) {
	m := NewRatingNormalizeMiddleware()
	tests := map[string]string{
		"5":         "5",
		"4★":        "4",
		"Rated 4.5": "4.5",
		"n/a":       "n/a",
	}
	for in, want := range tests {
		r, _ := m.Process(&types.Review{Rating: in})
		if r.Rating != want {
			t.Errorf("%q: expected %q, got %q", in, want, r.Rating)
		}
	}
}

func TestWhitespaceMiddleware(t *testing.T) {
	m := &WhitespaceMiddleware{}
	r, _ := m.Process(&types.Review{Title: "Very\n  good", Body: "battery \t lasts"})
	if r.Title != "Very good" || r.Body != "battery lasts" {
		t.Errorf("unexpected %+v", r)
	}
}

func TestRemoveLinks(t *testing.T) {
	got := RemoveLinks("see [the review](https://example.com/r) or www.example.com now")
	if got != "see the review or  now" {
		t.Errorf("unexpected %q", got)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**Loved** it", "Loved it"},
		{"# Title\n\nBody text", "Title Body text"},
		{"I [really](https://x.example) like it https://spam.example", "I really like it"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
