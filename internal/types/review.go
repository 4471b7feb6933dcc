package types

// Review is one scraped review: four fields zipped by position from a page.
type Review struct {
	Author string
	Title  string
	Rating string
	Body   string
}

// Row returns the review in CSV column order.
func (r Review) Row() []string {
	return []string{r.Author, r.Title, r.Rating, r.Body}
}

// FieldSet holds the four per-field sequences pulled from one or more pages.
// The sequences are aligned by position only.
type FieldSet struct {
	Names    []string
	Titles   []string
	Ratings  []string
	Comments []string
}

// Append adds other's values onto the end of each sequence.
func (fs *FieldSet) Append(other FieldSet) {
	fs.Names = append(fs.Names, other.Names...)
	fs.Titles = append(fs.Titles, other.Titles...)
	fs.Ratings = append(fs.Ratings, other.Ratings...)
	fs.Comments = append(fs.Comments, other.Comments...)
}

// Lens returns the length of each sequence in names, titles, ratings,
// comments order.
func (fs FieldSet) Lens() [4]int {
	return [4]int{len(fs.Names), len(fs.Titles), len(fs.Ratings), len(fs.Comments)}
}

// Total is the number of values across all four sequences.
func (fs FieldSet) Total() int {
	n := 0
	for _, l := range fs.Lens() {
		n += l
	}
	return n
}

// Reviews zips the sequences into records. It stops at the shortest
// sequence, so callers normally reconcile lengths first.
func (fs FieldSet) Reviews() []Review {
	n := len(fs.Names)
	for _, l := range fs.Lens() {
		n = min(n, l)
	}
	out := make([]Review, n)
	for i := 0; i < n; i++ {
		out[i] = Review{
			Author: fs.Names[i],
			Title:  fs.Titles[i],
			Rating: fs.Ratings[i],
			Body:   fs.Comments[i],
		}
	}
	return out
}

// Classification is the label a classifier assigned to one text.
type Classification struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Score float64 `json:"score,omitempty"`
}
