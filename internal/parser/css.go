package parser

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/reviewmood/internal/config"
	"github.com/IshaanNene/reviewmood/internal/types"
)

// CSSExtractor extracts review fields using CSS selectors via goquery.
type CSSExtractor struct {
	selectors config.FieldSelectors
	logger    *slog.Logger
}

// NewCSSExtractor creates a new CSS selector extractor.
func NewCSSExtractor(selectors config.FieldSelectors, logger *slog.Logger) *CSSExtractor {
	return &CSSExtractor{
		selectors: selectors,
		logger:    logger.With("component", "css_extractor"),
	}
}

// Extract implements Extractor.
func (e *CSSExtractor) Extract(resp *types.Response) (types.FieldSet, error) {
	doc, err := resp.Document()
	if err != nil {
		return types.FieldSet{}, &types.ParseError{URL: resp.Request.URLString(), Err: err}
	}

	fs := types.FieldSet{
		Names:    e.extract(doc, e.selectors.Name),
		Titles:   e.extract(doc, e.selectors.Title),
		Ratings:  e.extract(doc, e.selectors.Rating),
		Comments: e.extract(doc, e.selectors.Comment),
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
func (e *CSSExtractor) Name() string { return "css" }

// extract applies one rule in document order. Each inner step descends to
// the first matching descendant; nodes missing a step contribute nothing.
func (e *CSSExtractor) extract(doc *goquery.Document, rule config.FieldRule) []string {
	values := []string{}

	doc.Find(rule.Selector).Each(func(i int, sel *goquery.Selection) {
		node := sel
		for _, step := range rule.Inner {
			node = node.Find(step).First()
			if node.Length() == 0 {
				e.logger.Debug("inner selector missed", "selector", rule.Selector, "step", step, "index", i)
				return
			}
		}
		values = append(values, nodeText(node.Get(0), rule.Text))
	})

	return values
}
