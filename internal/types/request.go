package types

import (
	"fmt"
	"net/http"
	"net/url"
)

// Request is a single review page to fetch.
type Request struct {
	// URL is the target URL to fetch.
	URL *url.URL

	// Method is the HTTP method. Defaults to GET.
	Method string

	// Headers are sent with the request and override fetcher defaults.
	Headers http.Header

	// Page is the 1-based page number this request was built for.
	Page int
}

// NewRequest creates a GET request for a page URL.
func NewRequest(rawURL string, page int) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	return &Request{
		URL:     u,
		Method:  http.MethodGet,
		Headers: make(http.Header),
		Page:    page,
	}, nil
}

// URLString returns the string representation of the request URL.
func (r *Request) URLString() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.String()
}
