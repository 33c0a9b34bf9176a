package listings

import (
	"strings"
	"time"

	"staysearch/internal/domain/filter"
	domainlistings "staysearch/internal/domain/listings"
)

const (
	defaultSortField = domainlistings.FieldCreatedAt
	defaultPageLimit = 20

	searchCandidateLimit = 50
	searchDefaultMaxCost = 10000
)

// petAmenities are the amenity labels that mark a listing as pet friendly.
var petAmenities = []string{"Pet-friendly", "Pets allowed"}

// BuildListingFilter translates catalog parameters into a predicate set.
func BuildListingFilter(q ListListingsQuery) filter.Expression {
	expr := filter.Empty()
	if city, ok := nonEmpty(q.City); ok {
		expr = expr.And(filter.ContainsFold(domainlistings.FieldCity, city))
	}
	if country, ok := nonEmpty(q.Country); ok {
		expr = expr.And(filter.ContainsFold(domainlistings.FieldCountry, country))
	}
	if minPrice, ok := nonEmpty(q.MinPrice); ok {
		expr = expr.And(filter.GTE(domainlistings.FieldPrice, parseFloatLoose(minPrice)))
	}
	if maxPrice, ok := nonEmpty(q.MaxPrice); ok {
		expr = expr.And(filter.LTE(domainlistings.FieldPrice, parseFloatLoose(maxPrice)))
	}
	if minRating, ok := nonEmpty(q.MinRating); ok {
		expr = expr.And(filter.GTE(domainlistings.FieldRating, parseFloatLoose(minRating)))
	}
	if guests, ok := nonEmpty(q.MaxGuests); ok {
		expr = expr.And(filter.GTE(domainlistings.FieldMaxGuests, intOrNaN(guests)))
	}
	if bedrooms, ok := nonEmpty(q.Bedrooms); ok {
		expr = expr.And(filter.GTE(domainlistings.FieldBedrooms, intOrNaN(bedrooms)))
	}
	if bathrooms, ok := nonEmpty(q.Bathrooms); ok {
		expr = expr.And(filter.GTE(domainlistings.FieldBathrooms, intOrNaN(bathrooms)))
	}
	// presence, not truthiness: isGuestFavorite=false selects non-favorites
	if q.IsGuestFavorite != nil {
		expr = expr.And(filter.Eq(domainlistings.FieldIsGuestFavorite, *q.IsGuestFavorite == "true"))
	}
	if amenities, ok := nonEmpty(q.Amenities); ok {
		expr = expr.And(filter.In(domainlistings.FieldAmenities, splitTrimmed(amenities)...))
	}
	return expr
}

// ListingSort resolves sortBy/sortOrder, defaulting to newest first.
func ListingSort(q ListListingsQuery) filter.Sort {
	field := q.SortBy
	if field == "" {
		field = defaultSortField
	}
	order := q.SortOrder
	if order == "" {
		order = "desc"
	}
	return filter.Sort{Field: field, Descending: order == "desc"}
}

// pageWindow returns the skip/limit pair used for paging and page arithmetic.
func pageWindow(q ListListingsQuery) (skip, limit int) {
	limit = defaultPageLimit
	if raw, ok := nonEmpty(q.Limit); ok {
		limit = intOrDefault(raw, defaultPageLimit)
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if raw, ok := nonEmpty(q.Skip); ok {
		skip = intOrDefault(raw, 0)
	}
	if skip < 0 {
		skip = 0
	}
	return skip, limit
}

// SearchCriteria is the typed interpretation of a search request.
type SearchCriteria struct {
	Destination  string
	CheckIn      *string
	CheckOut     *string
	DatesValid   bool
	Adults       int
	Children     int
	Infants      int
	Pets         int
	MinPrice     float64
	MaxPrice     float64
	Bedrooms     int
	Bathrooms    int
	PropertyType string
	Amenities    []string
	InstantBook  bool
}

// TotalGuests counts the guests that occupy a bed; infants and pets do not.
func (c SearchCriteria) TotalGuests() int { return c.Adults + c.Children }

// Relevance returns the ranking inputs derived from the criteria.
func (c SearchCriteria) Relevance() domainlistings.RelevanceCriteria {
	return domainlistings.RelevanceCriteria{
		Destination: c.Destination,
		TotalGuests: c.TotalGuests(),
		MinPrice:    c.MinPrice,
		MaxPrice:    c.MaxPrice,
	}
}

// ParseSearchCriteria applies the search defaults to raw parameters.
func ParseSearchCriteria(q SearchListingsQuery, now time.Time) SearchCriteria {
	c := SearchCriteria{
		Destination:  q.Destination,
		CheckIn:      q.CheckIn,
		CheckOut:     q.CheckOut,
		Adults:       intOrDefault(q.Adults, 0),
		Children:     intOrDefault(q.Children, 0),
		Infants:      intOrDefault(q.Infants, 0),
		Pets:         intOrDefault(q.Pets, 0),
		MinPrice:     0,
		MaxPrice:     searchDefaultMaxCost,
		Bedrooms:     intOrDefault(q.Bedrooms, 0),
		Bathrooms:    intOrDefault(q.Bathrooms, 0),
		PropertyType: q.PropertyType,
		Amenities:    []string{},
		InstantBook:  q.InstantBook == "true",
	}
	if q.MinPrice != "" {
		c.MinPrice = parseFloatLoose(q.MinPrice)
	}
	if q.MaxPrice != "" {
		c.MaxPrice = parseFloatLoose(q.MaxPrice)
	}
	if q.Amenities != "" {
		c.Amenities = strings.Split(q.Amenities, ",")
	}
	c.DatesValid = validStay(q.CheckIn, q.CheckOut, now)
	return c
}

// validStay reports whether both dates parse, check-in is not in the past and
// check-out follows check-in.
func validStay(checkIn, checkOut *string, now time.Time) bool {
	in, ok := nonEmpty(checkIn)
	if !ok {
		return false
	}
	out, ok := nonEmpty(checkOut)
	if !ok {
		return false
	}
	inAt, ok := parseStayDate(in)
	if !ok {
		return false
	}
	outAt, ok := parseStayDate(out)
	if !ok {
		return false
	}
	return !inAt.Before(now) && outAt.After(inAt)
}

func parseStayDate(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// BuildSearchFilter translates search criteria into a predicate set. Stay dates
// are validated elsewhere and never constrain the result set.
//
// With mergePets the pets clause joins the destination OR-group, so a listing
// matching either the destination or the pet amenities qualifies. Otherwise the
// two groups must both match.
func BuildSearchFilter(c SearchCriteria, mergePets bool) filter.Expression {
	expr := filter.Empty()
	if c.Destination != "" {
		expr = expr.AnyOf(
			filter.ContainsFold(domainlistings.FieldLocation, c.Destination),
			filter.ContainsFold(domainlistings.FieldTitle, c.Destination),
			filter.ContainsFold(domainlistings.FieldDescription, c.Destination),
		)
	}
	if guests := c.TotalGuests(); guests > 0 {
		expr = expr.And(filter.GTE(domainlistings.FieldMaxGuests, float64(guests)))
	}
	if c.MinPrice > 0 {
		expr = expr.And(filter.GTE(domainlistings.FieldPrice, c.MinPrice))
	}
	if c.MaxPrice < searchDefaultMaxCost {
		expr = expr.And(filter.LTE(domainlistings.FieldPrice, c.MaxPrice))
	}
	if c.Bedrooms > 0 {
		expr = expr.And(filter.GTE(domainlistings.FieldBedrooms, float64(c.Bedrooms)))
	}
	if c.Bathrooms > 0 {
		expr = expr.And(filter.GTE(domainlistings.FieldBathrooms, float64(c.Bathrooms)))
	}
	if c.PropertyType != "" {
		expr = expr.And(filter.ContainsFold(domainlistings.FieldType, c.PropertyType))
	}
	if len(c.Amenities) > 0 {
		expr = expr.And(filter.In(domainlistings.FieldAmenities, c.Amenities...))
	}
	if c.InstantBook {
		expr = expr.And(filter.Eq(domainlistings.FieldInstantBook, true))
	}
	if c.Pets > 0 {
		pets := filter.In(domainlistings.FieldAmenities, petAmenities...)
		if mergePets {
			expr = expr.ExtendLastGroup(pets)
		} else {
			expr = expr.AnyOf(pets)
		}
	}
	return expr
}
