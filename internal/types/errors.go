package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure modes.
var (
	ErrDecode           = errors.New("unable to decode file with any of the tried encodings")
	ErrMissingColumn    = errors.New("text column not found in CSV header")
	ErrEmptyText        = errors.New("no text to analyze")
	ErrNoLabels         = errors.New("classifier returned no labels")
	ErrInvalidTemplate  = errors.New("invalid URL template")
	ErrUnknownExtractor = errors.New("unknown extractor strategy")
	ErrMissingInput     = errors.New("product name and URL are both required")
)

// FetchError wraps errors that occur while fetching a review page.
type FetchError struct {
	URL        string
	Page       int
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for page %d %s (status %d): %v", e.Page, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for page %d %s: %v", e.Page, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur during parsing.
type ParseError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DecodeError reports an uploaded file that none of the encodings could read.
type DecodeError struct {
	Name  string
	Tried []string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q (tried %s): %v", e.Name, strings.Join(e.Tried, ", "), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ClassifyError reports the input that made the classifier fail. The batch is
// abandoned at Index.
type ClassifyError struct {
	Index int
	Text  string
	Err   error
}

func (e *ClassifyError) Error() string {
	text := e.Text
	if r := []rune(text); len(r) > 40 {
		text = string(r[:40]) + "..."
	}
	return fmt.Sprintf("classify item %d (%q): %v", e.Index, text, e.Err)
}

func (e *ClassifyError) Unwrap() error { return e.Err }

// PipelineError wraps errors from a review cleanup stage.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during CSV export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
