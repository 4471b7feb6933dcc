package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/reviewmood/internal/analysis"
	"github.com/IshaanNene/reviewmood/internal/api"
	"github.com/IshaanNene/reviewmood/internal/chart"
	"github.com/IshaanNene/reviewmood/internal/classifier"
	"github.com/IshaanNene/reviewmood/internal/config"
	"github.com/IshaanNene/reviewmood/internal/dashboard"
	"github.com/IshaanNene/reviewmood/internal/engine"
	"github.com/IshaanNene/reviewmood/internal/fetcher"
	"github.com/IshaanNene/reviewmood/internal/ingest"
	"github.com/IshaanNene/reviewmood/internal/logging"
	"github.com/IshaanNene/reviewmood/internal/observability"
	"github.com/IshaanNene/reviewmood/internal/parser"
	"github.com/IshaanNene/reviewmood/internal/pipeline"
	"github.com/IshaanNene/reviewmood/internal/storage"
	"github.com/IshaanNene/reviewmood/internal/types"
)

var (
	cfgFile   string
	verbose   bool
	outputDir string
	pages     int
	extractor string
	fetchType string
	userAgent string
	backend   string
	port      int

	product   string
	reviewURL string
	preset    string
	analyze   bool

	column      string
	chartTitle  string
	chartPath   string
	resultsPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reviewmood",
		Short: "reviewmood: product review scraping and emotion analysis",
		Long: `reviewmood scrapes product reviews page by page, classifies the text with a
pretrained emotion model and charts the Positive/Negative/Neutral split.

Features:
  • Paginated review scraping with CSS or XPath selectors
  • Plain HTTP or headless browser fetching
  • CSV upload with utf-8 / latin-1 / ISO-8859-1 fallback
  • HuggingFace Inference API or local ONNX emotion model
  • Interactive dashboard with bar and pie charts
  • Prometheus metrics endpoint`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "classifier backend: huggingface, local")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(textCmd())
	rootCmd.AddCommand(sentimentCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape a product's reviews to CSV",
		Long: `Fetch review pages 1..N of a product and write {product}_reviews.csv.
The URL template marks the page number with {}; without it "page=N" is appended.`,
		Example: `  reviewmood scrape --product Phone --url 'https://www.flipkart.com/.../product-reviews/itm...?pid=X&page={}'
  reviewmood scrape --preset Motorola --analyze`,
		Args: cobra.NoArgs,
		RunE: runScrape,
	}

	cmd.Flags().StringVarP(&product, "product", "p", "", "product name, used for the output file")
	cmd.Flags().StringVarP(&reviewURL, "url", "u", "", "review URL template")
	cmd.Flags().StringVar(&preset, "preset", "", "scrape a configured preset product")
	cmd.Flags().IntVarP(&pages, "pages", "n", 0, "number of review pages (0 = config default of 43)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	cmd.Flags().BoolVarP(&analyze, "analyze", "a", false, "classify the scraped comments")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write charts to this HTML file (with --analyze)")
	cmd.Flags().StringVar(&resultsPath, "results", "", "write classified results to this CSV file (with --analyze)")
	cmd.Flags().StringVar(&extractor, "extractor", "", "field extractor: css, xpath")
	cmd.Flags().StringVar(&fetchType, "fetcher", "", "page fetcher: http, browser")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "custom User-Agent string")

	return cmd
}

// runScrape executes the scrape command.
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	if preset == "" && (product == "" || reviewURL == "") {
		return types.ErrMissingInput
	}

	ctx, stop := signalContext(logger)
	defer stop()

	metrics := observability.NewMetrics()

	driver, err := newDriver(cfg, metrics, logger)
	if err != nil {
		return err
	}
	defer driver.Close()

	var clf classifier.Classifier
	if analyze {
		if clf, err = classifier.New(&cfg.Classifier, logger); err != nil {
			return fmt.Errorf("create classifier: %w", err)
		}
		defer clf.Close()
	}

	svc := api.NewService(cfg, driver, clf, metrics, logger)
	result, err := svc.Scrape(ctx, api.ScrapeRequest{
		Product: product,
		URL:     reviewURL,
		Preset:  preset,
		Analyze: analyze,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n✅ Scrape complete\n")
	fmt.Printf("   Pages:     %d\n", result.Pages)
	fmt.Printf("   Reviews:   %d written, %d dropped by reconciling, %d filtered\n", result.Reviews, result.Dropped, result.Filtered)
	fmt.Printf("   Output:    %s\n", result.Path)

	if !result.Analyzed {
		return nil
	}
	session := svc.Session()
	printSession(&session)
	return writeOutputs(&session)
}

// analyzeCmd creates the "analyze" subcommand.
func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file.csv]",
		Short: "Classify the text column of a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	cmd.Flags().StringVar(&column, "column", "", "text column (default from config: Comment)")
	cmd.Flags().StringVar(&chartTitle, "title", "", "chart title (default from the file name)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write charts to this HTML file")
	cmd.Flags().StringVar(&resultsPath, "results", "", "write classified results to this CSV file")

	return cmd
}

// runAnalyze executes the analyze command.
func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	path := args[0]
	if column == "" {
		column = cfg.Ingest.Column
	}

	ctx, stop := signalContext(logger)
	defer stop()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	name := filepath.Base(path)
	table, texts, err := ingest.NewReader(cfg.Ingest.Encodings, logger).ReadColumn(f, name, column)
	if err != nil {
		return err
	}

	clf, err := classifier.New(&cfg.Classifier, logger)
	if err != nil {
		return fmt.Errorf("create classifier: %w", err)
	}
	defer clf.Close()

	title := chartTitle
	if title == "" {
		title = analysis.ChartTitle(strings.TrimSuffix(name, filepath.Ext(name)))
	}

	session, err := analysis.NewAdapter(clf, nil, logger).Run(ctx, texts, nil, analysis.Options{
		Source:     analysis.SourceUpload,
		Column:     column,
		ChartTitle: title,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n✅ Classified %d rows of %s (%s)\n", session.Len(), name, table.Encoding)
	printSession(session)
	return writeOutputs(session)
}

// textCmd creates the "text" subcommand.
func textCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text [text]",
		Short: "Detect the emotion of a piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, stop := signalContext(logger)
			defer stop()

			clf, err := classifier.New(&cfg.Classifier, logger)
			if err != nil {
				return fmt.Errorf("create classifier: %w", err)
			}
			defer clf.Close()

			session, err := analysis.NewAdapter(clf, nil, logger).RunText(ctx, strings.Join(args, " "), nil)
			if errors.Is(err, types.ErrEmptyText) {
				return errors.New("please input some text to analyze")
			}
			if err != nil {
				return err
			}
			r := session.Results[0]
			fmt.Printf("%s (%s, %.2f)\n", r.Label, analysis.Bucket(r.Label), r.Score)
			return nil
		},
	}
}

// sentimentCmd creates the "sentiment" subcommand.
func sentimentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sentiment [text]",
		Short: "Quick positive/negative check with the VADER lexicon",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				return errors.New("please input some text to analyze")
			}
			verdict, score := classifier.NewSentimentPredictor().Predict(text)
			fmt.Printf("%s (compound %.2f)\n", verdict.Verdict(), score)
			return nil
		},
	}
}

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().IntVar(&port, "port", 0, "dashboard port (0 = config default of 8501)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for scraped CSV files")
	cmd.Flags().StringVar(&extractor, "extractor", "", "field extractor: css, xpath")
	cmd.Flags().StringVar(&fetchType, "fetcher", "", "page fetcher: http, browser")

	return cmd
}

// runServe executes the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signalContext(logger)
	defer stop()

	metrics := observability.NewMetrics()

	driver, err := newDriver(cfg, metrics, logger)
	if err != nil {
		return err
	}
	defer driver.Close()

	clf, err := classifier.New(&cfg.Classifier, logger)
	if err != nil {
		return fmt.Errorf("create classifier: %w", err)
	}
	defer clf.Close()

	svc := api.NewService(cfg, driver, clf, metrics, logger)
	fmt.Printf("🌐 Dashboard on http://localhost:%d\n", cfg.Dashboard.Port)
	return dashboard.NewDashboard(cfg, svc, metrics, logger).Run(ctx)
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reviewmood %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Scrape:\n")
			fmt.Printf("  Pages:             %d\n", cfg.Scrape.Pages)
			fmt.Printf("  Extractor:         %s\n", cfg.Scrape.Extractor)
			fmt.Printf("  Middleware:        %s\n", strings.Join(cfg.Scrape.Middleware, ", "))
			fmt.Printf("  Presets:           %d configured\n", len(cfg.Scrape.Presets))
			for _, p := range cfg.Scrape.Presets {
				fmt.Printf("    - %s\n", p.Name)
			}
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Type:              %s\n", cfg.Fetcher.Type)
			fmt.Printf("  User-Agent:        %s\n", cfg.Fetcher.UserAgent)
			fmt.Printf("  Accept-Language:   %s\n", cfg.Fetcher.AcceptLanguage)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("\nClassifier:\n")
			fmt.Printf("  Backend:           %s\n", cfg.Classifier.Backend)
			fmt.Printf("  Model:             %s\n", cfg.Classifier.Model)
			fmt.Printf("  Local Model:       %s\n", cfg.Classifier.LocalModel)
			fmt.Printf("  API Token:         %s\n", mask(cfg.Classifier.APIToken))
			fmt.Printf("\nIngest:\n")
			fmt.Printf("  Encodings:         %s\n", strings.Join(cfg.Ingest.Encodings, ", "))
			fmt.Printf("  Column:            %s\n", cfg.Ingest.Column)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Output Dir:        %s\n", cfg.Storage.OutputDir)
			fmt.Printf("\nDashboard:\n")
			fmt.Printf("  Port:              %d\n", cfg.Dashboard.Port)
			fmt.Printf("  Metrics:           %v (%s)\n", cfg.Metrics.Enabled, cfg.Metrics.Path)
			return nil
		},
	}
	return cmd
}

// bootstrap loads and validates the config and builds the logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	applyCLIOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, logging.New(cfg.Logging, verbose), nil
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if pages > 0 {
		cfg.Scrape.Pages = pages
	}
	if extractor != "" {
		cfg.Scrape.Extractor = strings.ToLower(extractor)
	}
	if fetchType != "" {
		cfg.Fetcher.Type = strings.ToLower(fetchType)
	}
	if userAgent != "" {
		cfg.Fetcher.UserAgent = userAgent
	}
	if outputDir != "" {
		cfg.Storage.OutputDir = outputDir
	}
	if backend != "" {
		cfg.Classifier.Backend = strings.ToLower(backend)
	}
	if column != "" {
		cfg.Ingest.Column = column
	}
	if port > 0 {
		cfg.Dashboard.Port = port
	}
}

// newDriver assembles the fetcher, extractor and cleanup pipeline.
func newDriver(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (*engine.Driver, error) {
	f, err := fetcher.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	ex, err := parser.New(cfg.Scrape.Extractor, cfg.Scrape.Selectors(), logger)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create extractor: %w", err)
	}

	pipe, err := pipeline.FromNames(cfg.Scrape.Middleware, logger)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	return engine.NewDriver(f, ex, logger,
		engine.WithPipeline(pipe),
		engine.WithMetrics(metrics),
	), nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down...", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// printSession prints the polarity and per-emotion counts.
func printSession(s *analysis.Session) {
	fmt.Printf("\n📊 %s\n", s.Title)
	for _, c := range s.Counts() {
		fmt.Printf("   %-10s %d\n", c.Category, c.Count)
	}
	fmt.Printf("\n   Emotions:\n")
	for _, c := range s.EmotionCounts() {
		fmt.Printf("   %-16s %d\n", c.Label, c.Count)
	}
}

// writeOutputs writes the optional chart and results files.
func writeOutputs(s *analysis.Session) error {
	if chartPath != "" {
		f, err := os.Create(chartPath)
		if err != nil {
			return err
		}
		if err := chart.Render(f, s); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("   Chart:     %s\n", chartPath)
	}
	if resultsPath != "" {
		if err := storage.SaveResults(resultsPath, s); err != nil {
			return err
		}
		fmt.Printf("   Results:   %s\n", resultsPath)
	}
	return nil
}

func mask(token string) string {
	if token == "" {
		return "(not set)"
	}
	return "****"
}
