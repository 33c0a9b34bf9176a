package listings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"staysearch/internal/app/dto"
	"staysearch/internal/domain/filter"
	domainlistings "staysearch/internal/domain/listings"
	"staysearch/internal/domain/shared/events"
	"staysearch/internal/infra/storage/memory"
)

type failingRepo struct {
	domainlistings.Repository
	err error
}

func (f failingRepo) Find(ctx context.Context, expr filter.Expression, opts domainlistings.FindOptions) ([]*domainlistings.Listing, error) {
	return nil, f.err
}

func (f failingRepo) Count(ctx context.Context, expr filter.Expression) (int, error) {
	return 0, f.err
}

func (f failingRepo) Distinct(ctx context.Context, field string) ([]string, error) {
	return nil, f.err
}

type capturingRepo struct {
	*memory.ListingRepository
	lastOpts domainlistings.FindOptions
	lastExpr filter.Expression
}

func (c *capturingRepo) Find(ctx context.Context, expr filter.Expression, opts domainlistings.FindOptions) ([]*domainlistings.Listing, error) {
	c.lastExpr = expr
	c.lastOpts = opts
	return c.ListingRepository.Find(ctx, expr, opts)
}

func newRepo(t *testing.T, n int) *memory.ListingRepository {
	t.Helper()
	repo := memory.NewListingRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		l := &domainlistings.Listing{
			ID:        domainlistings.ListingID(string(rune('a' + i%26)) + string(rune('a'+i/26))),
			Title:     "Listing",
			Location:  "Paris, France",
			Price:     float64(50 + i),
			MaxGuests: 2,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.Save(context.Background(), l); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	return repo
}

func TestListListings_Paginated(t *testing.T) {
	h := &ListListingsHandler{Listings: newRepo(t, 45)}
	page, err := h.Handle(context.Background(), ListListingsQuery{Skip: str("20"), Limit: str("20")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Count != 20 || page.TotalCount != 45 {
		t.Fatalf("count=%d total=%d", page.Count, page.TotalCount)
	}
	p := page.Pagination
	if p.CurrentPage != 2 || p.TotalPages != 3 || !p.HasNextPage || !p.HasPrevPage || p.Limit != 20 || p.Skip != 20 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	// default sort is createdAt desc, so the 21st newest comes first
	if page.Data[0].Price != float64(50+24) {
		t.Fatalf("first item price = %v", page.Data[0].Price)
	}
}

func TestListListings_GetAll(t *testing.T) {
	h := &ListListingsHandler{Listings: newRepo(t, 45)}
	page, err := h.Handle(context.Background(), ListListingsQuery{GetAll: true, Limit: str("5")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Count != 45 || page.TotalCount != page.Count {
		t.Fatalf("getAll count=%d total=%d", page.Count, page.TotalCount)
	}
}

func TestListListings_DefaultsAndFilters(t *testing.T) {
	repo := &capturingRepo{ListingRepository: newRepo(t, 3)}
	h := &ListListingsHandler{Listings: repo}
	page, err := h.Handle(context.Background(), ListListingsQuery{City: str("paris"), Amenities: str("Pool, Gym")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastOpts.Limit != 20 || repo.lastOpts.Skip != 0 {
		t.Fatalf("unexpected window: %+v", repo.lastOpts)
	}
	if repo.lastOpts.Sort == nil || repo.lastOpts.Sort.Field != "createdAt" || !repo.lastOpts.Sort.Descending {
		t.Fatalf("unexpected sort: %+v", repo.lastOpts.Sort)
	}
	if *page.Filters.City != "paris" || page.Filters.Country != nil {
		t.Fatalf("unexpected filter echo: %+v", page.Filters)
	}
	if len(page.Filters.Amenities) != 2 || page.Filters.Amenities[1] != "Gym" {
		t.Fatalf("amenities echo = %v", page.Filters.Amenities)
	}
}

func TestListListings_StoreFailure(t *testing.T) {
	boom := errors.New("connection refused")
	h := &ListListingsHandler{Listings: failingRepo{err: boom}}
	if _, err := h.Handle(context.Background(), ListListingsQuery{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if _, err := (&ListListingsHandler{}).Handle(context.Background(), ListListingsQuery{}); !errors.Is(err, ErrRepositoryMissing) {
		t.Fatalf("expected ErrRepositoryMissing, got %v", err)
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
	err    error
	sent   chan struct{}
}

func newRecordingPublisher(err error) *recordingPublisher {
	return &recordingPublisher{err: err, sent: make(chan struct{}, 8)}
}

func (r *recordingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	r.sent <- struct{}{}
	return r.err
}

// next waits for one background publish and returns the event.
func (r *recordingPublisher) next(t *testing.T) events.DomainEvent {
	t.Helper()
	select {
	case <-r.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("no search event published")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

// blockingPublisher holds every publish until release is closed.
type blockingPublisher struct {
	release chan struct{}
	done    chan error
}

func (b *blockingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	select {
	case <-b.release:
		b.done <- nil
		return nil
	case <-ctx.Done():
		b.done <- ctx.Err()
		return ctx.Err()
	}
}

func TestSearchListings_RanksAndLimits(t *testing.T) {
	mem := memory.NewListingRepository()
	ctx := context.Background()
	_ = mem.Save(ctx, &domainlistings.Listing{ID: "low", Location: "Lyon", Title: "Paris-style flat", Price: 100, MaxGuests: 2})
	_ = mem.Save(ctx, &domainlistings.Listing{ID: "top", Location: "Paris, France", Title: "Cozy flat", Price: 120, MaxGuests: 4, Rating: 4.6, Reviews: 80})
	_ = mem.Save(ctx, &domainlistings.Listing{ID: "mid", Location: "Paris", Title: "Studio", Price: 90, MaxGuests: 6})
	_ = mem.Save(ctx, &domainlistings.Listing{ID: "out", Location: "Berlin", Title: "Loft", Price: 90, MaxGuests: 6})
	repo := &capturingRepo{ListingRepository: mem}
	pub := newRecordingPublisher(nil)

	h := &SearchListingsHandler{Listings: repo, Events: pub}
	res, err := h.Handle(ctx, SearchListingsQuery{Destination: "Paris", Adults: "3", Children: "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastOpts.Limit != 50 || repo.lastOpts.Sort != nil {
		t.Fatalf("unexpected candidate options: %+v", repo.lastOpts)
	}
	// low: capacity 2 < 4 excluded by the guest clause
	if res.Count != 2 {
		t.Fatalf("count = %d", res.Count)
	}
	if res.Data[0].ID != "top" || res.Data[0].RelevanceScore != 24 {
		t.Fatalf("first = %s/%d", res.Data[0].ID, res.Data[0].RelevanceScore)
	}
	if res.Data[1].ID != "mid" || res.Data[1].RelevanceScore != 18 {
		t.Fatalf("second = %s/%d", res.Data[1].ID, res.Data[1].RelevanceScore)
	}
	if res.SearchParams.Guests.Adults != 3 || *res.SearchParams.PriceRange.Max != 10000 {
		t.Fatalf("unexpected echo: %+v", res.SearchParams)
	}
	evt := pub.next(t).(domainlistings.ListingsSearchedEvent)
	if evt.ResultCount != 2 || evt.TopListingID != "top" || evt.TotalGuests != 4 {
		t.Fatalf("unexpected event: %+v", evt)
	}
}

func TestSearchListings_PublishFailureIgnored(t *testing.T) {
	pub := newRecordingPublisher(errors.New("broker down"))
	h := &SearchListingsHandler{Listings: newRepo(t, 2), Events: pub}
	if _, err := h.Handle(context.Background(), SearchListingsQuery{}); err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
	pub.next(t)
}

func TestSearchListings_SlowPublisherDoesNotDelayResponse(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{}), done: make(chan error, 1)}
	h := &SearchListingsHandler{Listings: memory.NewListingRepository(), Events: pub}

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	if _, err := h.Handle(ctx, SearchListingsQuery{Destination: "Paris"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Handle waited %s for the publisher", elapsed)
	}

	// the request context ending must not abort the pending publish
	cancel()
	close(pub.release)
	select {
	case err := <-pub.done:
		if err != nil {
			t.Fatalf("publish aborted: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("publish never completed")
	}
}

func TestSearchListings_PublishTimeout(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{}), done: make(chan error, 1)}
	h := &SearchListingsHandler{Listings: memory.NewListingRepository(), Events: pub, PublishTimeout: 20 * time.Millisecond}
	if _, err := h.Handle(context.Background(), SearchListingsQuery{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case err := <-pub.done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("err = %v, want deadline exceeded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("publish was not bounded by the timeout")
	}
}

func TestSearchListings_DropsEventsWhenBacklogFull(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{}), done: make(chan error, maxPendingPublishes+1)}
	h := &SearchListingsHandler{Listings: memory.NewListingRepository(), Events: pub, PublishTimeout: time.Minute}
	for i := 0; i < maxPendingPublishes+1; i++ {
		if _, err := h.Handle(context.Background(), SearchListingsQuery{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	close(pub.release)
	for i := 0; i < maxPendingPublishes; i++ {
		select {
		case <-pub.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d publishes completed", i)
		}
	}
	select {
	case <-pub.done:
		t.Fatal("publish beyond the backlog limit was not dropped")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSearchListings_StoreFailure(t *testing.T) {
	boom := errors.New("timeout")
	h := &SearchListingsHandler{Listings: failingRepo{err: boom}}
	if _, err := h.Handle(context.Background(), SearchListingsQuery{}); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

type mapCache struct {
	values map[string]any
	sets   int
}

func (m *mapCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	v, ok := m.values[key]
	if !ok {
		return false, nil
	}
	*(dest.(*dto.FilterOptions)) = v.(dto.FilterOptions)
	return true, nil
}

func (m *mapCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value
	m.sets++
	return nil
}

func TestFilterOptions(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewListingRepository()
	for i := 0; i < 25; i++ {
		_ = repo.Save(ctx, &domainlistings.Listing{
			ID:           domainlistings.ListingID(string(rune('A' + i))),
			Location:     "City " + string(rune('A'+i)),
			PropertyType: []string{"House", "Apartment"}[i%2],
			Amenities:    []string{"Wifi", "Amenity " + string(rune('A'+i)), "Amenity " + string(rune('a'+i))},
			Price:        float64(100 + i),
		})
	}
	h := &FilterOptionsHandler{Listings: repo}

	dest, err := h.Handle(ctx, FilterOptionsQuery{Type: OptionsDestinations})
	if err != nil || len(dest.Values) != 20 {
		t.Fatalf("destinations = %d, %v", len(dest.Values), err)
	}
	types, _ := h.Handle(ctx, FilterOptionsQuery{Type: OptionsPropertyTypes})
	if len(types.Values) != 2 {
		t.Fatalf("property types = %v", types.Values)
	}
	amenities, _ := h.Handle(ctx, FilterOptionsQuery{Type: OptionsAmenities})
	if len(amenities.Values) != 30 {
		t.Fatalf("amenities = %d", len(amenities.Values))
	}
	price, _ := h.Handle(ctx, FilterOptionsQuery{Type: OptionsPriceRange})
	if price.PriceRange == nil || price.PriceRange.MinPrice != 100 || price.PriceRange.MaxPrice != 124 || price.PriceRange.AvgPrice != 112 {
		t.Fatalf("price range = %+v", price.PriceRange)
	}
}

func TestFilterOptions_EmptyPriceRangeDefault(t *testing.T) {
	h := &FilterOptionsHandler{Listings: memory.NewListingRepository()}
	res, err := h.Handle(context.Background(), FilterOptionsQuery{Type: OptionsPriceRange})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *res.PriceRange != defaultPriceRange {
		t.Fatalf("price range = %+v", res.PriceRange)
	}
	payload := res.Payload()
	if _, ok := payload["priceRange"]; !ok {
		t.Fatalf("payload missing priceRange key: %v", payload)
	}
}

func TestFilterOptions_UnknownType(t *testing.T) {
	h := &FilterOptionsHandler{Listings: memory.NewListingRepository()}
	if _, err := h.Handle(context.Background(), FilterOptionsQuery{Type: "bogus"}); !errors.Is(err, ErrUnknownFilterType) {
		t.Fatalf("expected ErrUnknownFilterType, got %v", err)
	}
}

func TestFilterOptions_Cached(t *testing.T) {
	cache := &mapCache{values: map[string]any{}}
	failing := failingRepo{err: errors.New("store down")}
	h := &FilterOptionsHandler{Listings: newRepo(t, 3), Cache: cache, TTL: time.Minute}

	first, err := h.Handle(context.Background(), FilterOptionsQuery{Type: OptionsDestinations})
	if err != nil || cache.sets != 1 {
		t.Fatalf("first call err=%v sets=%d", err, cache.sets)
	}

	h.Listings = failing
	second, err := h.Handle(context.Background(), FilterOptionsQuery{Type: OptionsDestinations})
	if err != nil {
		t.Fatalf("cached call hit the store: %v", err)
	}
	if len(second.Values) != len(first.Values) {
		t.Fatalf("cached values = %v, want %v", second.Values, first.Values)
	}
}

func TestGetListing(t *testing.T) {
	h := &GetListingHandler{Listings: newRepo(t, 1)}
	got, err := h.Handle(context.Background(), GetListingQuery{ID: "aa"})
	if err != nil || got.ID != "aa" {
		t.Fatalf("get = %+v, %v", got, err)
	}
	if _, err := h.Handle(context.Background(), GetListingQuery{ID: "zz"}); !errors.Is(err, domainlistings.ErrListingNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := h.Handle(context.Background(), GetListingQuery{ID: " "}); !errors.Is(err, domainlistings.ErrListingNotFound) {
		t.Fatalf("expected not found for blank id, got %v", err)
	}
}
