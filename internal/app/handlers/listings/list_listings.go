package listings

import (
	"context"
	"fmt"

	"staysearch/internal/app/dto"
	"staysearch/internal/app/queries"
	domainlistings "staysearch/internal/domain/listings"
)

const listListingsKey = "listings.list"

// ListListingsQuery carries raw catalog parameters. A nil pointer means the
// parameter was absent from the request.
type ListListingsQuery struct {
	City            *string
	Country         *string
	MinPrice        *string
	MaxPrice        *string
	MinRating       *string
	MaxGuests       *string
	Bedrooms        *string
	Bathrooms       *string
	IsGuestFavorite *string
	Amenities       *string
	Limit           *string
	Skip            *string
	SortBy          string
	SortOrder       string
	GetAll          bool
}

func (q ListListingsQuery) Key() string { return listListingsKey }

// ListListingsHandler serves the filtered, sorted and paginated catalog.
type ListListingsHandler struct {
	Listings domainlistings.Repository
}

func (h *ListListingsHandler) Handle(ctx context.Context, q ListListingsQuery) (dto.ListingPage, error) {
	if h.Listings == nil {
		return dto.ListingPage{}, ErrRepositoryMissing
	}
	expr := BuildListingFilter(q)
	sort := ListingSort(q)
	skip, limit := pageWindow(q)

	var (
		items []*domainlistings.Listing
		total int
		err   error
	)
	if q.GetAll {
		items, err = h.Listings.Find(ctx, expr, domainlistings.FindOptions{Sort: &sort})
		if err != nil {
			return dto.ListingPage{}, fmt.Errorf("find listings: %w", err)
		}
		total = len(items)
	} else {
		items, err = h.Listings.Find(ctx, expr, domainlistings.FindOptions{Sort: &sort, Skip: skip, Limit: limit})
		if err != nil {
			return dto.ListingPage{}, fmt.Errorf("find listings: %w", err)
		}
		total, err = h.Listings.Count(ctx, expr)
		if err != nil {
			return dto.ListingPage{}, fmt.Errorf("count listings: %w", err)
		}
	}

	data := dto.MapListings(items)
	return dto.ListingPage{
		Data:       data,
		Count:      len(data),
		TotalCount: total,
		Pagination: dto.MapPagination(domainlistings.NewPage(total, skip, limit)),
		Filters:    echoFilters(q),
	}, nil
}

func echoFilters(q ListListingsQuery) dto.ListingFilters {
	f := dto.ListingFilters{
		City:            q.City,
		Country:         q.Country,
		PriceRange:      dto.RawRange{Min: q.MinPrice, Max: q.MaxPrice},
		MinRating:       q.MinRating,
		MaxGuests:       q.MaxGuests,
		Bedrooms:        q.Bedrooms,
		Bathrooms:       q.Bathrooms,
		IsGuestFavorite: q.IsGuestFavorite,
	}
	if amenities, ok := nonEmpty(q.Amenities); ok {
		f.Amenities = splitTrimmed(amenities)
	}
	return f
}

var _ queries.Handler[ListListingsQuery, dto.ListingPage] = (*ListListingsHandler)(nil)
