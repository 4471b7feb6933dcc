// Package chart renders aggregate emotion counts with go-echarts.
package chart

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/IshaanNene/reviewmood/internal/analysis"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no emotions detected yet")

// Series names as they appear in the rendered chart options.
const (
	BarSeries     = "Count"
	PieSeries     = "Emotion Category"
	EmotionSeries = "Detected_Emotion"
)

var categoryColors = map[analysis.Polarity]string{
	analysis.Positive: "#2ca02c",
	analysis.Negative: "#d62728",
	analysis.Neutral:  "#1f77b4",
}

// Bar plots one bar per polarity category.
func Bar(title string, counts []analysis.Count) *charts.Bar {
	names := make([]string, 0, len(counts))
	values := make([]opts.BarData, 0, len(counts))
	for _, c := range counts {
		names = append(names, string(c.Category))
		values = append(values, opts.BarData{
			Name:      string(c.Category),
			Value:     c.Count,
			ItemStyle: &opts.ItemStyle{Color: categoryColors[c.Category]},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Emotion Category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)
	bar.SetXAxis(names).AddSeries(BarSeries, values)
	return bar
}

// Pie plots the share of each polarity category.
func Pie(title string, counts []analysis.Count) *charts.Pie {
	values := make([]opts.PieData, 0, len(counts))
	for _, c := range counts {
		values = append(values, opts.PieData{
			Name:      string(c.Category),
			Value:     c.Count,
			ItemStyle: &opts.ItemStyle{Color: categoryColors[c.Category]},
		})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)
	pie.AddSeries(PieSeries, values).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

// EmotionBar plots the fine-grained label counts, most frequent first.
func EmotionBar(title string, counts []analysis.LabelCount) *charts.Bar {
	names := make([]string, 0, len(counts))
	values := make([]opts.BarData, 0, len(counts))
	for _, c := range counts {
		names = append(names, c.Label)
		values = append(values, opts.BarData{
			Name:      c.Label,
			Value:     c.Count,
			ItemStyle: &opts.ItemStyle{Color: categoryColors[analysis.Bucket(c.Label)]},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 30}}),
	)
	bar.SetXAxis(names).AddSeries(EmotionSeries, values)
	return bar
}

// Render writes an HTML page with the polarity bar and pie charts and the
// per-label breakdown for the session.
func Render(w io.Writer, s *analysis.Session) error {
	if s == nil || s.Len() == 0 {
		return ErrNoData
	}

	title := s.Title
	if title == "" {
		title = analysis.ChartTitle("")
	}
	counts := s.Counts()

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		Bar(title, counts),
		Pie(title, counts),
		EmotionBar("Detected Emotions", s.EmotionCounts()),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}
