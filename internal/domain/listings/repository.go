package listings

import (
	"context"

	"staysearch/internal/domain/filter"
)

// FindOptions controls ordering and windowing of Find. Zero Limit means no limit.
type FindOptions struct {
	Sort  *filter.Sort
	Skip  int
	Limit int
}

// PriceStats aggregates nightly prices over the whole collection.
type PriceStats struct {
	Min float64
	Max float64
	Avg float64
}

// Repository is the read-only view of the listings collection.
type Repository interface {
	Find(ctx context.Context, expr filter.Expression, opts FindOptions) ([]*Listing, error)
	Count(ctx context.Context, expr filter.Expression) (int, error)
	// Distinct returns the unique values of a string or string-array field.
	Distinct(ctx context.Context, field string) ([]string, error)
	// PriceStats reports ok=false when the collection is empty.
	PriceStats(ctx context.Context) (stats PriceStats, ok bool, err error)
	ByID(ctx context.Context, id ListingID) (*Listing, error)
}
