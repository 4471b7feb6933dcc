package config

import (
	"fmt"
	"net/url"
	"strings"
)

// PagePlaceholder marks where the page number goes in a URL template.
const PagePlaceholder = "{}"

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Scrape.Pages < 1 {
		return fmt.Errorf("scrape.pages must be >= 1, got %d", cfg.Scrape.Pages)
	}
	if cfg.Scrape.Extractor != "css" && cfg.Scrape.Extractor != "xpath" {
		return fmt.Errorf("scrape.extractor must be 'css' or 'xpath', got %q", cfg.Scrape.Extractor)
	}
	sel := cfg.Scrape.Selectors()
	for name, rule := range map[string]FieldRule{
		"name": sel.Name, "title": sel.Title, "rating": sel.Rating, "comment": sel.Comment,
	} {
		if strings.TrimSpace(rule.Selector) == "" {
			return fmt.Errorf("scrape.%s.%s.selector must not be empty", cfg.Scrape.Extractor, name)
		}
		if rule.Text != "" && rule.Text != "stripped" && rule.Text != "trim" {
			return fmt.Errorf("scrape.%s.%s.text must be 'stripped' or 'trim', got %q", cfg.Scrape.Extractor, name, rule.Text)
		}
	}
	for _, p := range cfg.Scrape.Presets {
		if p.Name == "" {
			return fmt.Errorf("scrape.presets: preset with URL %q has no name", p.URL)
		}
		if err := ValidateTemplate(p.URL); err != nil {
			return fmt.Errorf("scrape.presets %q: %w", p.Name, err)
		}
	}

	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.Timeout < 0 {
		return fmt.Errorf("fetcher.timeout must be >= 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	switch cfg.Classifier.Backend {
	case "huggingface":
		if cfg.Classifier.Model == "" {
			return fmt.Errorf("classifier.model is required for the huggingface backend")
		}
		if _, err := url.Parse(cfg.Classifier.Endpoint); err != nil {
			return fmt.Errorf("invalid classifier.endpoint %q: %w", cfg.Classifier.Endpoint, err)
		}
	case "local":
		if cfg.Classifier.LocalModel == "" {
			return fmt.Errorf("classifier.local_model is required for the local backend")
		}
	default:
		return fmt.Errorf("classifier.backend must be 'huggingface' or 'local', got %q", cfg.Classifier.Backend)
	}
	if cfg.Classifier.Timeout < 0 {
		return fmt.Errorf("classifier.timeout must be >= 0")
	}

	if len(cfg.Ingest.Encodings) == 0 {
		return fmt.Errorf("ingest.encodings must list at least one encoding")
	}
	if strings.TrimSpace(cfg.Ingest.Column) == "" {
		return fmt.Errorf("ingest.column must not be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" && cfg.Logging.Output != "stdout" {
		return fmt.Errorf("logging.output must be 'stderr' or 'stdout', got %q", cfg.Logging.Output)
	}

	if cfg.Dashboard.Port < 1 || cfg.Dashboard.Port > 65535 {
		return fmt.Errorf("dashboard.port must be 1-65535, got %d", cfg.Dashboard.Port)
	}
	if cfg.Dashboard.MaxUploadSize <= 0 {
		return fmt.Errorf("dashboard.max_upload_size must be > 0")
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
	}

	return nil
}

// ValidateURL checks if a URL string is valid for scraping.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

// ValidateTemplate checks a review URL template. The template is checked
// with page 1 substituted, so both placeholder and query-append forms pass.
func ValidateTemplate(tmpl string) error {
	if strings.Count(tmpl, PagePlaceholder) > 1 {
		return fmt.Errorf("URL template has more than one %s placeholder", PagePlaceholder)
	}
	return ValidateURL(strings.Replace(tmpl, PagePlaceholder, "1", 1))
}
