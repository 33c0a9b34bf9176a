package listings

import (
	"sort"
	"strings"
)

// Relevance points awarded per matching signal.
const (
	scoreLocation       = 10
	scoreTitle          = 5
	scoreCapacity       = 5
	scoreExactCapacity  = 3
	scorePriceInRange   = 3
	scoreHighRating     = 2
	scorePopular        = 1
	highRatingThreshold = 4.5
	popularReviewsCount = 50
)

// RelevanceCriteria are the search inputs that influence ranking.
type RelevanceCriteria struct {
	Destination string
	TotalGuests int
	MinPrice    float64
	MaxPrice    float64
}

// Scored is a listing annotated with its relevance for one search.
type Scored struct {
	Listing        *Listing
	RelevanceScore int
}

// Score computes the heuristic relevance of l. Higher is better.
func Score(l *Listing, c RelevanceCriteria) int {
	if l == nil {
		return 0
	}
	score := 0
	if c.Destination != "" {
		needle := strings.ToLower(c.Destination)
		if strings.Contains(strings.ToLower(l.Location), needle) {
			score += scoreLocation
		}
		if strings.Contains(strings.ToLower(l.Title), needle) {
			score += scoreTitle
		}
	}
	if c.TotalGuests > 0 && l.MaxGuests >= c.TotalGuests {
		score += scoreCapacity
		if l.MaxGuests == c.TotalGuests {
			score += scoreExactCapacity
		}
	}
	// NaN bounds fail both comparisons, as in the query layer.
	if l.Price >= c.MinPrice && l.Price <= c.MaxPrice {
		score += scorePriceInRange
	}
	if l.Rating >= highRatingThreshold {
		score += scoreHighRating
	}
	if l.Reviews > popularReviewsCount {
		score += scorePopular
	}
	return score
}

// Rank scores candidates and orders them by descending score. Equal scores keep
// retrieval order.
func Rank(candidates []*Listing, c RelevanceCriteria) []Scored {
	out := make([]Scored, 0, len(candidates))
	for _, l := range candidates {
		out = append(out, Scored{Listing: l, RelevanceScore: Score(l, c)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return out
}
