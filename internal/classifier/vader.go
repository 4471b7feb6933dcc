package classifier

import (
	"github.com/jonreiter/govader"

	"github.com/IshaanNene/reviewmood/internal/pipeline"
)

// Sentiment is the coarse verdict of the quick sentiment check.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// sentimentThreshold is the compound score beyond which text counts as
// positive or negative.
const sentimentThreshold = 0.20

// SentimentPredictor scores text with the VADER lexicon. It needs no model
// download and is safe for concurrent use.
type SentimentPredictor struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewSentimentPredictor loads the VADER lexicon.
func NewSentimentPredictor() *SentimentPredictor {
	return &SentimentPredictor{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Predict returns the verdict and the compound score in [-1, 1]. Markdown
// and links are stripped first.
func (p *SentimentPredictor) Predict(text string) (Sentiment, float64) {
	score := p.analyzer.PolarityScores(pipeline.PlainText(text)).Compound

	switch {
	case score >= sentimentThreshold:
		return SentimentPositive, score
	case score <= -sentimentThreshold:
		return SentimentNegative, score
	default:
		return SentimentNeutral, score
	}
}

// Verdict is the message shown for a quick sentiment check.
func (s Sentiment) Verdict() string {
	switch s {
	case SentimentPositive:
		return "Positive Sentiment Detected!"
	case SentimentNegative:
		return "Negative Sentiment Detected!"
	default:
		return "Sentiment could not be determined."
	}
}
