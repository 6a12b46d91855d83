package session

import (
	"fmt"
	"sort"
	"strings"
)

// SortField selects the ordering of a session listing.
type SortField string

const (
	SortByName  SortField = "name"
	SortByScore SortField = "score"
	SortByDate  SortField = "date"
)

// Query filters and orders a listing. The zero value lists newest first.
type Query struct {
	Search string
	Sort   SortField
	Asc    bool
}

// ParseQuery builds a Query from user-supplied strings. Empty values pick
// the defaults: date, descending.
func ParseQuery(search, sortBy, order string) (Query, error) {
	q := Query{Search: search, Sort: SortByDate}
	switch SortField(strings.ToLower(sortBy)) {
	case "":
	case SortByName, SortByScore, SortByDate:
		q.Sort = SortField(strings.ToLower(sortBy))
	default:
		return Query{}, fmt.Errorf("unknown sort field %q (want name, score or date)", sortBy)
	}
	switch strings.ToLower(order) {
	case "", "desc":
	case "asc":
		q.Asc = true
	default:
		return Query{}, fmt.Errorf("unknown sort order %q (want asc or desc)", order)
	}
	return q, nil
}

// Apply returns the summaries matching q.Search (case-insensitive, on name or
// email) in the requested order. Sessions without a final score sort as 0.
func (q Query) Apply(list []Summary) []Summary {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Summary, 0, len(list))
	for _, s := range list {
		if needle == "" ||
			strings.Contains(strings.ToLower(s.Name), needle) ||
			strings.Contains(strings.ToLower(s.Email), needle) {
			out = append(out, s)
		}
	}

	less := func(a, b Summary) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch q.Sort {
	case SortByName:
		less = func(a, b Summary) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortByScore:
		less = func(a, b Summary) bool { return scoreOf(a) < scoreOf(b) }
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Asc {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}

func scoreOf(s Summary) float64 {
	if s.FinalScore == nil {
		return 0
	}
	return *s.FinalScore
}
