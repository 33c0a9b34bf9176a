package dto

import domainlistings "staysearch/internal/domain/listings"

// ListingPage is the result of a filtered listing query.
type ListingPage struct {
	Data       []Listing      `json:"data"`
	Count      int            `json:"count"`
	TotalCount int            `json:"totalCount"`
	Pagination Pagination     `json:"pagination"`
	Filters    ListingFilters `json:"filters"`
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
	Limit       int  `json:"limit"`
	Skip        int  `json:"skip"`
}

// ListingFilters echoes the raw filter parameters; absent ones are null.
type ListingFilters struct {
	City            *string  `json:"city"`
	Country         *string  `json:"country"`
	PriceRange      RawRange `json:"priceRange"`
	MinRating       *string  `json:"minRating"`
	MaxGuests       *string  `json:"maxGuests"`
	Bedrooms        *string  `json:"bedrooms"`
	Bathrooms       *string  `json:"bathrooms"`
	IsGuestFavorite *string  `json:"isGuestFavorite"`
	Amenities       []string `json:"amenities"`
}

type RawRange struct {
	Min *string `json:"min"`
	Max *string `json:"max"`
}

func MapPagination(p domainlistings.Page) Pagination {
	return Pagination{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		HasNextPage: p.HasNextPage,
		HasPrevPage: p.HasPrevPage,
		Limit:       p.Limit,
		Skip:        p.Skip,
	}
}
