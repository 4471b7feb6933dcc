package parser

import (
	"bytes"
	"log/slog"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/reviewmood/internal/config"
	"github.com/IshaanNene/reviewmood/internal/types"
)

// XPathExtractor extracts review fields using XPath expressions.
type XPathExtractor struct {
	selectors config.FieldSelectors
	logger    *slog.Logger
}

// NewXPathExtractor creates a new XPath extractor.
func NewXPathExtractor(selectors config.FieldSelectors, logger *slog.Logger) *XPathExtractor {
	return &XPathExtractor{
		selectors: selectors,
		logger:    logger.With("component", "xpath_extractor"),
	}
}

// Extract implements Extractor.
func (e *XPathExtractor) Extract(resp *types.Response) (types.FieldSet, error) {
	doc, err := html.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return types.FieldSet{}, &types.ParseError{URL: resp.Request.URLString(), Err: err}
	}

	var fs types.FieldSet
	for _, f := range []struct {
		rule config.FieldRule
		dst  *[]string
	}{
		{e.selectors.Name, &fs.Names},
		{e.selectors.Title, &fs.Titles},
		{e.selectors.Rating, &fs.Ratings},
		{e.selectors.Comment, &fs.Comments},
	} {
		values, err := e.extract(doc, f.rule)
		if err != nil {
			return types.FieldSet{}, &types.ParseError{URL: resp.Request.URLString(), Selector: f.rule.Selector, Err: err}
		}
		*f.dst = values
	}

	e.logger.Debug("page extracted",
		"url", resp.Request.URLString(),
		"names", len(fs.Names),
		"titles", len(fs.Titles),
		"ratings", len(fs.Ratings),
		"comments", len(fs.Comments),
	)
	return fs, nil
}

// Name returns the strategy identifier.
func (e *XPathExtractor) Name() string { return "xpath" }

func (e *XPathExtractor) extract(doc *html.Node, rule config.FieldRule) ([]string, error) {
	nodes, err := htmlquery.QueryAll(doc, rule.Selector)
	if err != nil {
		return nil, err
	}

	values := []string{}
	for i, node := range nodes {
		cur := node
		for _, step := range rule.Inner {
			next, err := htmlquery.Query(cur, step)
			if err != nil {
				return nil, err
			}
			if next == nil {
				e.logger.Debug("inner xpath missed", "selector", rule.Selector, "step", step, "index", i)
				cur = nil
				break
			}
			cur = next
		}
		if cur == nil {
			continue
		}
		values = append(values, nodeText(cur, rule.Text))
	}
	return values, nil
}
