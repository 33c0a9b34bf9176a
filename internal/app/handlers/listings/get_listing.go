package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staysearch/internal/app/dto"
	"staysearch/internal/app/queries"
	domainlistings "staysearch/internal/domain/listings"
)

const getListingKey = "listings.get"

// GetListingQuery loads one listing for the detail page.
type GetListingQuery struct {
	ID string
}

func (q GetListingQuery) Key() string { return getListingKey }

type GetListingHandler struct {
	Listings domainlistings.Repository
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (dto.Listing, error) {
	if h.Listings == nil {
		return dto.Listing{}, ErrRepositoryMissing
	}
	id := strings.TrimSpace(q.ID)
	if id == "" {
		return dto.Listing{}, domainlistings.ErrListingNotFound
	}
	listing, err := h.Listings.ByID(ctx, domainlistings.ListingID(id))
	if err != nil {
		if errors.Is(err, domainlistings.ErrListingNotFound) {
			return dto.Listing{}, err
		}
		return dto.Listing{}, fmt.Errorf("load listing %s: %w", id, err)
	}
	return dto.MapListing(listing), nil
}

var _ queries.Handler[GetListingQuery, dto.Listing] = (*GetListingHandler)(nil)
