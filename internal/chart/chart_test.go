package chart

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/IshaanNene/reviewmood/internal/analysis"
	"github.com/IshaanNene/reviewmood/internal/types"
)

func sampleSession() *analysis.Session {
	s := analysis.NewSession()
	s.Reset(analysis.Options{ChartTitle: analysis.ChartTitle("Motorola")})
	s.Results = []types.Classification{
		{Text: "I love this product", Label: "joy"},
		{Text: "This is terrible", Label: "anger"},
		{Text: "It's okay", Label: "neutral"},
		{Text: "Thanks", Label: "gratitude"},
	}
	return s
}

func TestRenderContainsBothSeries(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleSession()); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		BarSeries,
		PieSeries,
		EmotionSeries,
		"Positive",
		"Negative",
		"Neutral",
		"gratitude",
		"Detected Emotions Distribution for Motorola",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRenderEmptySession(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, analysis.NewSession()); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
	if err := Render(&buf, nil); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData for nil session, got %v", err)
	}
}

func TestBarSingleSeries(t *testing.T) {
	counts := []analysis.Count{{Category: analysis.Positive, Count: 3}, {Category: analysis.Negative, Count: 1}}
	bar := Bar("t", counts)
	if len(bar.MultiSeries) != 1 {
		t.Fatalf("expected one series, got %d", len(bar.MultiSeries))
	}
	if bar.MultiSeries[0].Name != BarSeries {
		t.Errorf("expected series %q, got %q", BarSeries, bar.MultiSeries[0].Name)
	}
}
