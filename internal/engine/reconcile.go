package engine

import "github.com/IshaanNene/reviewmood/internal/types"

// Reconcile truncates all four lists to the shortest one's length and
// reports how many values were discarded. Each output is a prefix of its
// input.
//
// Alignment is positional only. When a selector under-matches in the
// middle of a page, later values pair with the wrong review; truncating the
// tail does not repair that.
func Reconcile(fs types.FieldSet) (types.FieldSet, int) {
	lens := fs.Lens()
	m := lens[0]
	for _, l := range lens[1:] {
		m = min(m, l)
	}

	dropped := fs.Total() - 4*m
	return types.FieldSet{
		Names:    fs.Names[:m:m],
		Titles:   fs.Titles[:m:m],
		Ratings:  fs.Ratings[:m:m],
		Comments: fs.Comments[:m:m],
	}, dropped
}
