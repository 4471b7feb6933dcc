package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/IshaanNene/reviewmood/internal/config"
	"github.com/IshaanNene/reviewmood/internal/observability"
	"github.com/IshaanNene/reviewmood/internal/types"
)

// Fetcher is the interface for all fetcher implementations.
type Fetcher interface {
	Fetch(ctx context.Context, req *types.Request) (*types.Response, error)
	Close() error
}

// Extractor is the interface for all field extraction strategies.
type Extractor interface {
	Extract(resp *types.Response) (types.FieldSet, error)
}

// Pipeline is the interface for the review cleanup pipeline.
type Pipeline interface {
	ProcessAll(reviews []types.Review) ([]types.Review, int, error)
}

// Stats summarizes one scrape.
type Stats struct {
	Pages     int
	Bytes     int64
	Extracted [4]int // names, titles, ratings, comments before reconciling
	Dropped   int    // values discarded by Reconcile
	Filtered  int    // reviews dropped by the pipeline
	Reviews   int
	Duration  time.Duration
}

// Driver walks review pages 1..N in order, one at a time.
type Driver struct {
	fetcher   Fetcher
	extractor Extractor
	pipeline  Pipeline
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithPipeline runs reconciled reviews through p before returning them.
func WithPipeline(p Pipeline) Option {
	return func(d *Driver) { d.pipeline = p }
}

// WithMetrics records scrape counters on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// NewDriver creates a pagination driver.
func NewDriver(f Fetcher, e Extractor, logger *slog.Logger, opts ...Option) *Driver {
	d := &Driver{
		fetcher:   f,
		extractor: e,
		logger:    logger.With("component", "driver"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// PageURL fills the page number into a review URL template. The first "{}"
// is replaced; a template without one gets "&page=N" (or "?page=N") added.
func PageURL(template string, page int) string {
	n := strconv.Itoa(page)
	if strings.Contains(template, config.PagePlaceholder) {
		return strings.Replace(template, config.PagePlaceholder, n, 1)
	}
	sep := "&"
	if !strings.Contains(template, "?") {
		sep = "?"
	}
	return template + sep + "page=" + n
}

// Collect fetches and extracts pages 1..pages and concatenates the four
// field lists in page order. The first failing page aborts the scrape;
// nothing collected so far is returned.
func (d *Driver) Collect(ctx context.Context, template string, pages int) (types.FieldSet, Stats, error) {
	var acc types.FieldSet
	stats := Stats{}

	if err := config.ValidateTemplate(template); err != nil {
		return acc, stats, fmt.Errorf("%w: %v", types.ErrInvalidTemplate, err)
	}

	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return types.FieldSet{}, stats, err
		}

		pageURL := PageURL(template, page)
		req, err := types.NewRequest(pageURL, page)
		if err != nil {
			return types.FieldSet{}, stats, &types.FetchError{URL: pageURL, Page: page, Err: err}
		}

		resp, err := d.fetcher.Fetch(ctx, req)
		if err != nil {
			if d.metrics != nil {
				d.metrics.PagesFailed.Add(1)
			}
			d.logger.Error("page fetch failed", "page", page, "url", pageURL, "error", err)
			return types.FieldSet{}, stats, err
		}

		fs, err := d.extractor.Extract(resp)
		if err != nil {
			return types.FieldSet{}, stats, err
		}
		acc.Append(fs)

		stats.Pages++
		stats.Bytes += int64(len(resp.Body))
		if d.metrics != nil {
			d.metrics.PagesFetched.Add(1)
			d.metrics.BytesDownloaded.Add(int64(len(resp.Body)))
			d.metrics.FieldsExtracted.Add(int64(fs.Total()))
		}

		d.logger.Debug("page collected",
			"page", page,
			"final_url", resp.FinalURL,
			"lens", fs.Lens(),
			"duration", resp.FetchDuration,
		)
	}

	stats.Extracted = acc.Lens()
	return acc, stats, nil
}

// Scrape collects every page, reconciles the field lengths, and zips the
// result into reviews.
func (d *Driver) Scrape(ctx context.Context, template string, pages int) ([]types.Review, Stats, error) {
	start := time.Now()

	d.logger.Info("scrape starting", "template", template, "pages", pages)

	acc, stats, err := d.Collect(ctx, template, pages)
	if err != nil {
		return nil, stats, err
	}

	reconciled, dropped := Reconcile(acc)
	stats.Dropped = dropped
	if dropped > 0 {
		if d.metrics != nil {
			d.metrics.RowsDropped.Add(int64(dropped))
		}
		d.logger.Debug("field lists reconciled", "lens", stats.Extracted, "kept", len(reconciled.Names), "dropped", dropped)
	}

	reviews := reconciled.Reviews()
	if d.pipeline != nil {
		reviews, stats.Filtered, err = d.pipeline.ProcessAll(reviews)
		if err != nil {
			return nil, stats, err
		}
	}

	stats.Reviews = len(reviews)
	stats.Duration = time.Since(start)

	d.logger.Info("scrape complete",
		"pages", stats.Pages,
		"reviews", stats.Reviews,
		"dropped", stats.Dropped,
		"bytes", stats.Bytes,
		"duration", stats.Duration,
	)
	return reviews, stats, nil
}

// Close releases the fetcher.
func (d *Driver) Close() error {
	return d.fetcher.Close()
}
