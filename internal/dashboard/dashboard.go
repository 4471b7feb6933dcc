// Package dashboard serves the interactive brand monitoring web UI.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/IshaanNene/reviewmood/internal/api"
	"github.com/IshaanNene/reviewmood/internal/chart"
	"github.com/IshaanNene/reviewmood/internal/config"
	"github.com/IshaanNene/reviewmood/internal/observability"
)

var pageTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

// Dashboard serves the web UI, the JSON API and the metrics endpoint on
// one port.
type Dashboard struct {
	cfg     *config.Config
	svc     *api.Service
	api     *api.Server
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewDashboard creates a new dashboard server. metrics may be nil.
func NewDashboard(cfg *config.Config, svc *api.Service, metrics *observability.Metrics, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		cfg:     cfg,
		svc:     svc,
		api:     api.NewServer(svc, cfg.Dashboard.MaxUploadSize, logger),
		metrics: metrics,
		logger:  logger.With("component", "dashboard"),
	}
}

// Handler returns the dashboard's routes.
func (d *Dashboard) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", d.handleDashboard)
	mux.HandleFunc("GET /chart", d.handleChart)
	mux.Handle("/api/", d.api)
	if d.cfg.Metrics.Enabled && d.metrics != nil {
		mux.Handle("GET "+d.cfg.Metrics.Path, d.metrics)
	}
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (d *Dashboard) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", d.cfg.Dashboard.Port),
		Handler:           d.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		d.logger.Info("dashboard starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		d.logger.Info("dashboard shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type pageData struct {
	Title   string
	Presets []config.Preset
	Version string
}

func (d *Dashboard) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, pageData{
		Title:   d.cfg.Dashboard.Title,
		Presets: d.svc.Presets(),
		Version: config.Version,
	})
	if err != nil {
		d.logger.Error("render dashboard", "error", err)
	}
}

func (d *Dashboard) handleChart(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := d.svc.RenderChart(w)
	if errors.Is(err, chart.ErrNoData) {
		w.Write([]byte(emptyChartHTML))
		return
	}
	if err != nil {
		d.logger.Error("render chart", "error", err)
	}
}
