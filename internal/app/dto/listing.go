package dto

import (
	"time"

	domainlistings "staysearch/internal/domain/listings"
)

// Listing is the wire representation of a stored listing.
type Listing struct {
	ID              string     `json:"_id"`
	Title           string     `json:"title"`
	Location        string     `json:"location"`
	Distance        string     `json:"distance"`
	Dates           string     `json:"dates"`
	Price           float64    `json:"price"`
	Rating          float64    `json:"rating"`
	Reviews         int        `json:"reviews"`
	Images          []string   `json:"images"`
	IsGuestFavorite bool       `json:"isGuestFavorite"`
	City            string     `json:"city"`
	Country         string     `json:"country"`
	Description     string     `json:"description"`
	Type            string     `json:"type,omitempty"`
	Amenities       []string   `json:"amenities"`
	MaxGuests       int        `json:"maxGuests"`
	Bedrooms        int        `json:"bedrooms"`
	Bathrooms       int        `json:"bathrooms"`
	InstantBook     bool       `json:"instantBook"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// MapListing copies domain data for the frontend.
func MapListing(l *domainlistings.Listing) Listing {
	if l == nil {
		return Listing{}
	}
	return Listing{
		ID:              string(l.ID),
		Title:           l.Title,
		Location:        l.Location,
		Distance:        l.Distance,
		Dates:           l.Dates,
		Price:           l.Price,
		Rating:          l.Rating,
		Reviews:         l.Reviews,
		Images:          nonNil(l.Images),
		IsGuestFavorite: l.IsGuestFavorite,
		City:            l.City,
		Country:         l.Country,
		Description:     l.Description,
		Type:            l.PropertyType,
		Amenities:       nonNil(l.Amenities),
		MaxGuests:       l.MaxGuests,
		Bedrooms:        l.Bedrooms,
		Bathrooms:       l.Bathrooms,
		InstantBook:     l.InstantBook,
		CreatedAt:       timeOrNil(l.CreatedAt),
		UpdatedAt:       timeOrNil(l.UpdatedAt),
	}
}

// MapListings maps a slice, never returning nil.
func MapListings(items []*domainlistings.Listing) []Listing {
	out := make([]Listing, 0, len(items))
	for _, l := range items {
		out = append(out, MapListing(l))
	}
	return out
}

// timeOrNil drops unset timestamps so they are omitted rather than rendered
// as the zero time.
func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string(nil), values...)
}
