package pipeline

import (
	"regexp"
	"strings"

	"github.com/IshaanNene/reviewmood/internal/types"
)

// WhitespaceMiddleware collapses runs of whitespace in the title and body.
type WhitespaceMiddleware struct{}

func (m *WhitespaceMiddleware) Name() string { return "whitespace" }

func (m *WhitespaceMiddleware) Process(r *types.Review) (*types.Review, error) {
	r.Title = strings.Join(strings.Fields(r.Title), " ")
	r.Body = strings.Join(strings.Fields(r.Body), " ")
	return r, nil
}

// RatingNormalizeMiddleware reduces a rating badge such as "4★" or
// "Rated 4.5" to its number. Ratings with no number are left alone.
type RatingNormalizeMiddleware struct {
	numRe *regexp.Regexp
}

func NewRatingNormalizeMiddleware() *RatingNormalizeMiddleware {
	return &RatingNormalizeMiddleware{
		numRe: regexp.MustCompile(`\d+(?:\.\d+)?`),
	}
}

func (m *RatingNormalizeMiddleware) Name() string { return "rating" }

func (m *RatingNormalizeMiddleware) Process(r *types.Review) (*types.Review, error) {
	if n := m.numRe.FindString(r.Rating); n != "" {
		r.Rating = n
	}
	return r, nil
}
