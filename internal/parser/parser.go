package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/IshaanNene/reviewmood/internal/config"
	"github.com/IshaanNene/reviewmood/internal/types"
)

// Extractor pulls the four review field lists out of one fetched page.
// The lists are collected independently, so their lengths may differ.
type Extractor interface {
	Extract(resp *types.Response) (types.FieldSet, error)

	// Name returns the strategy identifier.
	Name() string
}

// New returns the extractor registered under name.
func New(name string, selectors config.FieldSelectors, logger *slog.Logger) (Extractor, error) {
	switch name {
	case "", "css":
		return NewCSSExtractor(selectors, logger), nil
	case "xpath":
		return NewXPathExtractor(selectors, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownExtractor, name)
	}
}

// nodeText renders the text of n according to a rule's text mode.
//
// "stripped" trims every text node and concatenates the non-empty pieces
// with no separator. "trim" takes the full text and trims its ends.
func nodeText(n *html.Node, mode string) string {
	if mode == "trim" {
		var b strings.Builder
		walkText(n, func(s string) { b.WriteString(s) })
		return strings.TrimSpace(b.String())
	}

	var b strings.Builder
	walkText(n, func(s string) {
		b.WriteString(strings.TrimSpace(s))
	})
	return b.String()
}

func walkText(n *html.Node, fn func(string)) {
	if n.Type == html.TextNode {
		fn(n.Data)
		return
	}
	// Script and style bodies are not review text.
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, fn)
	}
}
