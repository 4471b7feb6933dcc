package observability

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters for scraping and analysis runs.
type Metrics struct {
	// Scrape metrics
	PagesFetched    atomic.Int64
	PagesFailed     atomic.Int64
	BytesDownloaded atomic.Int64
	FieldsExtracted atomic.Int64
	RowsDropped     atomic.Int64
	ReviewsWritten  atomic.Int64

	// Analysis metrics
	Classifications atomic.Int64
	ClassifyErrors  atomic.Int64
	DecodeFailures  atomic.Int64
	RunsCompleted   atomic.Int64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"reviewmood_pages_fetched_total", "Total review pages fetched", m.PagesFetched.Load()},
		{"reviewmood_pages_failed_total", "Total review page fetch failures", m.PagesFailed.Load()},
		{"reviewmood_bytes_downloaded_total", "Total bytes downloaded", m.BytesDownloaded.Load()},
		{"reviewmood_fields_extracted_total", "Total field values extracted", m.FieldsExtracted.Load()},
		{"reviewmood_rows_dropped_total", "Total field values dropped by length reconciliation", m.RowsDropped.Load()},
		{"reviewmood_reviews_written_total", "Total reviews written to CSV", m.ReviewsWritten.Load()},
		{"reviewmood_classifications_total", "Total texts classified", m.Classifications.Load()},
		{"reviewmood_classify_errors_total", "Total classifier failures", m.ClassifyErrors.Load()},
		{"reviewmood_decode_failures_total", "Total uploads no encoding could decode", m.DecodeFailures.Load()},
		{"reviewmood_runs_completed_total", "Total analysis runs completed", m.RunsCompleted.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"pages_fetched":    m.PagesFetched.Load(),
		"pages_failed":     m.PagesFailed.Load(),
		"bytes_downloaded": m.BytesDownloaded.Load(),
		"fields_extracted": m.FieldsExtracted.Load(),
		"rows_dropped":     m.RowsDropped.Load(),
		"reviews_written":  m.ReviewsWritten.Load(),
		"classifications":  m.Classifications.Load(),
		"classify_errors":  m.ClassifyErrors.Load(),
		"decode_failures":  m.DecodeFailures.Load(),
		"runs_completed":   m.RunsCompleted.Load(),
	}
}
