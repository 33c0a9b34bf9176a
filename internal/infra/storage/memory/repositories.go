package memory

import (
	"context"
	"sort"
	"sync"

	"staysearch/internal/domain/filter"
	domainlistings "staysearch/internal/domain/listings"
)

// ListingRepository keeps listings in insertion order, which plays the role
// of the store's natural order.
type ListingRepository struct {
	mu    sync.RWMutex
	order []domainlistings.ListingID
	items map[domainlistings.ListingID]*domainlistings.Listing
}

// NewListingRepository builds an empty repository.
func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]*domainlistings.Listing),
	}
}

// Save stores or replaces a listing.
func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[listing.ID]; !exists {
		r.order = append(r.order, listing.ID)
	}
	r.items[listing.ID] = listing
	return nil
}

// ByID returns a listing or domainlistings.ErrListingNotFound.
func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrListingNotFound
	}
	return listing, nil
}

// Find evaluates expr against every listing, then sorts and windows the matches.
func (r *ListingRepository) Find(ctx context.Context, expr filter.Expression, opts domainlistings.FindOptions) ([]*domainlistings.Listing, error) {
	matches, err := r.match(ctx, expr)
	if err != nil {
		return nil, err
	}
	if opts.Sort != nil {
		sortListings(matches, *opts.Sort)
	}

	start := opts.Skip
	if start < 0 {
		start = 0
	}
	if start > len(matches) {
		start = len(matches)
	}
	end := len(matches)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}
	return matches[start:end], nil
}

// Count returns the number of listings matching expr.
func (r *ListingRepository) Count(ctx context.Context, expr filter.Expression) (int, error) {
	matches, err := r.match(ctx, expr)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// Distinct collects unique values of field in first-seen order. Array fields
// contribute each element.
func (r *ListingRepository) Distinct(ctx context.Context, field string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	out := make([]string, 0)
	add := func(v string) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, id := range r.order {
		value, ok := r.items[id].Field(field)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			add(v)
		case []string:
			for _, item := range v {
				add(item)
			}
		}
	}
	return out, nil
}

// PriceStats aggregates prices across all listings.
func (r *ListingRepository) PriceStats(ctx context.Context) (domainlistings.PriceStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return domainlistings.PriceStats{}, false, nil
	}
	var stats domainlistings.PriceStats
	sum := 0.0
	for i, id := range r.order {
		price := r.items[id].Price
		if i == 0 || price < stats.Min {
			stats.Min = price
		}
		if i == 0 || price > stats.Max {
			stats.Max = price
		}
		sum += price
	}
	stats.Avg = sum / float64(len(r.order))
	return stats, true, nil
}

func (r *ListingRepository) match(ctx context.Context, expr filter.Expression) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainlistings.Listing, 0, len(r.order))
	for _, id := range r.order {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		listing := r.items[id]
		if filter.Evaluate(expr, listing) {
			matches = append(matches, listing)
		}
	}
	return matches, nil
}

// sortListings orders by a single field. Listings missing the field come first
// in ascending order and last in descending order, matching the document store.
// Unknown fields leave the order as is.
func sortListings(items []*domainlistings.Listing, s filter.Sort) {
	sort.SliceStable(items, func(i, j int) bool {
		a, aok := items[i].Field(s.Field)
		b, bok := items[j].Field(s.Field)
		if !aok || !bok {
			if s.Descending {
				return aok && !bok
			}
			return !aok && bok
		}
		if s.Descending {
			return filter.Less(b, a)
		}
		return filter.Less(a, b)
	})
}
