package listings

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"staysearch/internal/app/dto"
	"staysearch/internal/app/queries"
	domainlistings "staysearch/internal/domain/listings"
	"staysearch/internal/domain/shared/events"
)

const searchListingsKey = "listings.search"

const (
	defaultPublishTimeout = 5 * time.Second
	maxPendingPublishes   = 64
)

// SearchListingsQuery carries raw search parameters as received.
type SearchListingsQuery struct {
	Destination  string
	CheckIn      *string
	CheckOut     *string
	Adults       string
	Children     string
	Infants      string
	Pets         string
	MinPrice     string
	MaxPrice     string
	Bedrooms     string
	Bathrooms    string
	PropertyType string
	Amenities    string
	InstantBook  string
}

func (q SearchListingsQuery) Key() string { return searchListingsKey }

// EventPublisher ships domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// SearchListingsHandler retrieves candidates and ranks them by relevance.
type SearchListingsHandler struct {
	Listings domainlistings.Repository
	Events   EventPublisher
	Logger   *slog.Logger
	// MergePetsIntoDestination keeps the legacy single OR-group behavior.
	MergePetsIntoDestination bool
	Now                      func() time.Time
	// PublishTimeout bounds one background publish. Zero means 5s.
	PublishTimeout time.Duration

	slotsOnce sync.Once
	slots     chan struct{}
}

func (h *SearchListingsHandler) Handle(ctx context.Context, q SearchListingsQuery) (dto.SearchResults, error) {
	if h.Listings == nil {
		return dto.SearchResults{}, ErrRepositoryMissing
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	criteria := ParseSearchCriteria(q, now())
	if h.Logger != nil && criteria.CheckIn != nil && criteria.CheckOut != nil {
		h.Logger.DebugContext(ctx, "stay dates checked", "valid", criteria.DatesValid)
	}

	expr := BuildSearchFilter(criteria, h.MergePetsIntoDestination)
	candidates, err := h.Listings.Find(ctx, expr, domainlistings.FindOptions{Limit: searchCandidateLimit})
	if err != nil {
		return dto.SearchResults{}, fmt.Errorf("find candidates: %w", err)
	}
	ranked := domainlistings.Rank(candidates, criteria.Relevance())
	h.publish(ctx, criteria, ranked, now())

	data := dto.MapScored(ranked)
	return dto.SearchResults{
		Data:  data,
		Count: len(data),
		SearchParams: dto.SearchParams{
			Destination: criteria.Destination,
			CheckIn:     criteria.CheckIn,
			CheckOut:    criteria.CheckOut,
			Guests: dto.Guests{
				Adults:   criteria.Adults,
				Children: criteria.Children,
				Infants:  criteria.Infants,
				Pets:     criteria.Pets,
			},
			PriceRange:   dto.NewNumericRange(criteria.MinPrice, criteria.MaxPrice),
			Bedrooms:     criteria.Bedrooms,
			Bathrooms:    criteria.Bathrooms,
			PropertyType: criteria.PropertyType,
			Amenities:    criteria.Amenities,
			InstantBook:  criteria.InstantBook,
		},
	}, nil
}

// publish sends the search event in the background. Events are dropped when
// too many publishes are already pending.
func (h *SearchListingsHandler) publish(ctx context.Context, c SearchCriteria, ranked []domainlistings.Scored, at time.Time) {
	if h.Events == nil {
		return
	}
	event := domainlistings.ListingsSearchedEvent{
		SearchID:     uuid.NewString(),
		Destination:  c.Destination,
		TotalGuests:  c.TotalGuests(),
		Pets:         c.Pets,
		PropertyType: c.PropertyType,
		Amenities:    append([]string(nil), c.Amenities...),
		InstantBook:  c.InstantBook,
		ResultCount:  len(ranked),
		At:           at.UTC(),
	}
	if len(ranked) > 0 && ranked[0].Listing != nil {
		event.TopListingID = ranked[0].Listing.ID
	}

	h.slotsOnce.Do(func() { h.slots = make(chan struct{}, maxPendingPublishes) })
	select {
	case h.slots <- struct{}{}:
	default:
		if h.Logger != nil {
			h.Logger.WarnContext(ctx, "search event dropped, publisher backlog full", "search_id", event.SearchID)
		}
		return
	}

	timeout := h.PublishTimeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	go func() {
		defer func() { <-h.slots }()
		defer cancel()
		if err := h.Events.Publish(pubCtx, event); err != nil && h.Logger != nil {
			h.Logger.WarnContext(pubCtx, "search event publish failed", "error", err, "search_id", event.SearchID)
		}
	}()
}

var _ queries.Handler[SearchListingsQuery, dto.SearchResults] = (*SearchListingsHandler)(nil)
