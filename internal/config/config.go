package config

import (
	"strings"
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for reviewmood.
type Config struct {
	Scrape     ScrapeConfig     `mapstructure:"scrape"     yaml:"scrape"`
	Fetcher    FetcherConfig    `mapstructure:"fetcher"    yaml:"fetcher"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
	Ingest     IngestConfig     `mapstructure:"ingest"     yaml:"ingest"`
	Storage    StorageConfig    `mapstructure:"storage"    yaml:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
	Dashboard  DashboardConfig  `mapstructure:"dashboard"  yaml:"dashboard"`
	Metrics    MetricsConfig    `mapstructure:"metrics"    yaml:"metrics"`
}

// ScrapeConfig controls the pagination driver and field extraction.
type ScrapeConfig struct {
	Pages     int            `mapstructure:"pages"     yaml:"pages"`
	Extractor string         `mapstructure:"extractor" yaml:"extractor"` // css, xpath
	CSS       FieldSelectors `mapstructure:"css"       yaml:"css"`
	XPath     FieldSelectors `mapstructure:"xpath"     yaml:"xpath"`
	Presets   []Preset       `mapstructure:"presets"   yaml:"presets"`

	// Middleware names the cleanup stages run over reconciled reviews.
	Middleware []string `mapstructure:"middleware" yaml:"middleware"`
}

// FieldSelectors holds one rule per review field.
type FieldSelectors struct {
	Name    FieldRule `mapstructure:"name"    yaml:"name"`
	Title   FieldRule `mapstructure:"title"   yaml:"title"`
	Rating  FieldRule `mapstructure:"rating"  yaml:"rating"`
	Comment FieldRule `mapstructure:"comment" yaml:"comment"`
}

// FieldRule locates the nodes for one field. Inner is walked from each
// matched node, taking the first match at every step; a node where a step
// matches nothing is skipped.
type FieldRule struct {
	Selector string   `mapstructure:"selector" yaml:"selector"`
	Inner    []string `mapstructure:"inner"    yaml:"inner"`
	Text     string   `mapstructure:"text"     yaml:"text"` // stripped, trim
}

// Preset is a named product with a fixed review URL template.
type Preset struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url"  yaml:"url"`
}

// FetcherConfig controls the page fetcher.
type FetcherConfig struct {
	Type            string        `mapstructure:"type"             yaml:"type"` // http, browser
	UserAgent       string        `mapstructure:"user_agent"       yaml:"user_agent"`
	AcceptLanguage  string        `mapstructure:"accept_language"  yaml:"accept_language"`
	Timeout         time.Duration `mapstructure:"timeout"          yaml:"timeout"`
	FollowRedirects bool          `mapstructure:"follow_redirects" yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"    yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"    yaml:"max_body_size"`
	Stealth         bool          `mapstructure:"stealth"          yaml:"stealth"`
}

// ClassifierConfig selects and configures the emotion model.
type ClassifierConfig struct {
	Backend      string        `mapstructure:"backend"       yaml:"backend"` // huggingface, local
	Endpoint     string        `mapstructure:"endpoint"      yaml:"endpoint"`
	Model        string        `mapstructure:"model"         yaml:"model"`
	APIToken     string        `mapstructure:"api_token"     yaml:"api_token"`
	Timeout      time.Duration `mapstructure:"timeout"       yaml:"timeout"`
	LocalModel   string        `mapstructure:"local_model"   yaml:"local_model"`
	ModelDir     string        `mapstructure:"model_dir"     yaml:"model_dir"`
	OnnxFilename string        `mapstructure:"onnx_filename" yaml:"onnx_filename"`
}

// IngestConfig controls CSV uploads.
type IngestConfig struct {
	Encodings []string `mapstructure:"encodings" yaml:"encodings"`
	Column    string   `mapstructure:"column"    yaml:"column"`
}

// StorageConfig controls CSV output.
type StorageConfig struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// DashboardConfig controls the web dashboard.
type DashboardConfig struct {
	Port          int    `mapstructure:"port"            yaml:"port"`
	Title         string `mapstructure:"title"           yaml:"title"`
	MaxUploadSize int64  `mapstructure:"max_upload_size" yaml:"max_upload_size"`
}

// MetricsConfig controls the Prometheus text endpoint on the dashboard.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultPages is the page bound observed on the review site.
const DefaultPages = 43

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			Pages:      DefaultPages,
			Extractor:  "css",
			Middleware: []string{"trim"},
			CSS: FieldSelectors{
				Name:    FieldRule{Selector: "p._2sc7ZR", Text: "stripped"},
				Title:   FieldRule{Selector: "p._2-N8zT", Text: "stripped"},
				Rating:  FieldRule{Selector: "div.col._2wzgFH.K0kLPL", Inner: []string{"div"}, Text: "trim"},
				Comment: FieldRule{Selector: "div.t-ZTKy", Inner: []string{"div", "div"}, Text: "stripped"},
			},
			XPath: FieldSelectors{
				Name:    FieldRule{Selector: "//p[@class='_2sc7ZR']", Text: "stripped"},
				Title:   FieldRule{Selector: "//p[@class='_2-N8zT']", Text: "stripped"},
				Rating:  FieldRule{Selector: "//div[@class='col _2wzgFH K0kLPL']", Inner: []string{".//div"}, Text: "trim"},
				Comment: FieldRule{Selector: "//div[@class='t-ZTKy']", Inner: []string{".//div", ".//div"}, Text: "stripped"},
			},
			Presets: []Preset{
				{
					Name: "Motorola",
					URL:  "https://www.flipkart.com/motorola-g84-5g-viva-magneta-256-gb/product-reviews/itmed938e33ffdf5?pid=MOBGQFX672GDDQAQ&lid=LSTMOBGQFX672GDDQAQSSIAM2&marketplace=FLIPKART&page={}",
				},
				{
					Name: "Badminton",
					URL:  "https://www.flipkart.com/yonex-mavis-350-nylon-shuttle-yellow/product-reviews/itmfcjdyhnghfyey?pid=STLEFJ7UFQGRUUR3&lid=LSTSTLEFJ7UFQGRUUR3SUDA2S&marketplace=FLIPKART&page={}",
				},
			},
		},
		Fetcher: FetcherConfig{
			Type:            "http",
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			AcceptLanguage:  "en-us,en;q=0.5",
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
		},
		Classifier: ClassifierConfig{
			Backend:      "huggingface",
			Endpoint:     "https://api-inference.huggingface.co",
			Model:        "SamLowe/roberta-base-go_emotions",
			Timeout:      60 * time.Second,
			LocalModel:   "SamLowe/roberta-base-go_emotions-onnx",
			ModelDir:     "./models",
			OnnxFilename: "onnx/model.onnx",
		},
		Ingest: IngestConfig{
			Encodings: []string{"utf-8", "latin-1", "ISO-8859-1"},
			Column:    "Comment",
		},
		Storage: StorageConfig{
			OutputDir: ".",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Dashboard: DashboardConfig{
			Port:          8501,
			Title:         "Real Time Brand Monitoring and Interactive Analysis",
			MaxUploadSize: 32 << 20,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Preset returns the preset with the given name, matched case-insensitively.
func (c *ScrapeConfig) Preset(name string) (Preset, bool) {
	for _, p := range c.Presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// Selectors returns the rule set for the configured extractor.
func (c *ScrapeConfig) Selectors() FieldSelectors {
	if c.Extractor == "xpath" {
		return c.XPath
	}
	return c.CSS
}
