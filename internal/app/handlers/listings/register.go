package listings

import (
	"log/slog"
	"time"

	"staysearch/internal/app/dto"
	"staysearch/internal/app/queries"
	domainlistings "staysearch/internal/domain/listings"
)

// Dependencies are shared by the listing query handlers. Cache and Events are optional.
type Dependencies struct {
	Listings         domainlistings.Repository
	Cache            Cache
	FilterOptionsTTL time.Duration
	Events           EventPublisher
	Logger           *slog.Logger
	LegacyPetMerge   bool
}

// Register binds every listing query to bus.
func Register(bus *queries.InMemoryBus, deps Dependencies) {
	queries.RegisterHandler[ListListingsQuery, dto.ListingPage](bus, ListListingsQuery{}.Key(), &ListListingsHandler{
		Listings: deps.Listings,
	})
	queries.RegisterHandler[SearchListingsQuery, dto.SearchResults](bus, SearchListingsQuery{}.Key(), &SearchListingsHandler{
		Listings:                 deps.Listings,
		Events:                   deps.Events,
		Logger:                   deps.Logger,
		MergePetsIntoDestination: deps.LegacyPetMerge,
	})
	queries.RegisterHandler[FilterOptionsQuery, dto.FilterOptions](bus, FilterOptionsQuery{}.Key(), &FilterOptionsHandler{
		Listings: deps.Listings,
		Cache:    deps.Cache,
		TTL:      deps.FilterOptionsTTL,
		Logger:   deps.Logger,
	})
	queries.RegisterHandler[GetListingQuery, dto.Listing](bus, GetListingQuery{}.Key(), &GetListingHandler{
		Listings: deps.Listings,
	})
}
