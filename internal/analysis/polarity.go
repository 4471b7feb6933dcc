package analysis

import (
	"cmp"
	"slices"

	"github.com/IshaanNene/reviewmood/internal/types"
)

// Polarity is the coarse category an emotion label falls into.
type Polarity string

const (
	Positive Polarity = "Positive"
	Negative Polarity = "Negative"
	Neutral  Polarity = "Neutral"
)

var positiveLabels = map[string]struct{}{
	"admiration": {}, "amusement": {}, "approval": {}, "caring": {},
	"desire": {}, "excitement": {}, "gratitude": {}, "joy": {},
	"love": {}, "optimism": {}, "pride": {}, "realization": {},
	"relief": {},
}

var negativeLabels = map[string]struct{}{
	"anger": {}, "annoyance": {}, "disappointment": {}, "disapproval": {},
	"disgust": {}, "embarrassment": {}, "fear": {}, "grief": {},
	"nervousness": {}, "remorse": {}, "sadness": {},
}

// Bucket maps a fine-grained label to its polarity. Matching is exact;
// anything outside the two sets is Neutral.
func Bucket(label string) Polarity {
	if _, ok := positiveLabels[label]; ok {
		return Positive
	}
	if _, ok := negativeLabels[label]; ok {
		return Negative
	}
	return Neutral
}

// PositiveLabels returns the labels bucketed as Positive, sorted.
func PositiveLabels() []string { return sortedKeys(positiveLabels) }

// NegativeLabels returns the labels bucketed as Negative, sorted.
func NegativeLabels() []string { return sortedKeys(negativeLabels) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Count is the number of results in one polarity category.
type Count struct {
	Category Polarity `json:"category"`
	Count    int      `json:"count"`
}

// LabelCount is the number of results carrying one emotion label.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Aggregate tallies results per polarity. Categories with no results are
// omitted; the rest are ordered by count descending, then name.
func Aggregate(results []types.Classification) []Count {
	tally := make(map[Polarity]int)
	for _, r := range results {
		tally[Bucket(r.Label)]++
	}

	out := make([]Count, 0, len(tally))
	for cat, n := range tally {
		out = append(out, Count{Category: cat, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// EmotionCounts tallies results per fine-grained label, ordered like
// Aggregate.
func EmotionCounts(results []types.Classification) []LabelCount {
	tally := make(map[string]int)
	for _, r := range results {
		tally[r.Label]++
	}

	out := make([]LabelCount, 0, len(tally))
	for label, n := range tally {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b LabelCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}
