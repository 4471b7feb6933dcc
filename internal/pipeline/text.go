package pipeline

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/russross/blackfriday/v2"
)

var (
	mdLinkRe = regexp.MustCompile(`\[(.*?)\]\((https?://[^\s)]+)\)`)
	urlRe    = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// RemoveLinks keeps the label of markdown links and drops bare URLs.
func RemoveLinks(input string) string {
	input = mdLinkRe.ReplaceAllString(input, "$1")
	return urlRe.ReplaceAllString(input, "")
}

// PlainText renders pasted markdown and returns its visible text with
// links removed and whitespace collapsed.
func PlainText(input string) string {
	rendered := blackfriday.Run([]byte(RemoveLinks(input)), blackfriday.WithNoExtensions())

	text := string(rendered)
	// Blackfriday ends every block with a newline, so block text stays separated.
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
		text = doc.Text()
	}
	return strings.Join(strings.Fields(text), " ")
}
