package listings

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrTitleRequired    = errors.New("listings: title is required")
	ErrLocationRequired = errors.New("listings: location is required")
	ErrRatingRange      = errors.New("listings: rating must be between 0 and 5")
	ErrImagesRequired   = errors.New("listings: at least one image is required")
	ErrNegativePrice    = errors.New("listings: price must be non-negative")
	ErrCapacity         = errors.New("listings: guests, bedrooms and bathrooms must be positive")
	ErrListingNotFound  = errors.New("listings: listing not found")
)

const (
	DefaultMaxGuests = 2
	DefaultBedrooms  = 1
	DefaultBathrooms = 1
)

// Store field names. They double as sort keys and filter fields.
const (
	FieldID              = "_id"
	FieldTitle           = "title"
	FieldLocation        = "location"
	FieldDistance        = "distance"
	FieldDates           = "dates"
	FieldPrice           = "price"
	FieldRating          = "rating"
	FieldReviews         = "reviews"
	FieldImages          = "images"
	FieldIsGuestFavorite = "isGuestFavorite"
	FieldCity            = "city"
	FieldCountry         = "country"
	FieldDescription     = "description"
	FieldType            = "type"
	FieldAmenities       = "amenities"
	FieldMaxGuests       = "maxGuests"
	FieldBedrooms        = "bedrooms"
	FieldBathrooms       = "bathrooms"
	FieldInstantBook     = "instantBook"
	FieldCreatedAt       = "createdAt"
	FieldUpdatedAt       = "updatedAt"
)

type ListingID string

// Listing is a rentable property as stored in the listings collection.
// Listings are written by seeding processes and only read by this service.
type Listing struct {
	ID              ListingID
	Title           string
	Location        string
	Distance        string
	Dates           string
	Price           float64
	Rating          float64
	Reviews         int
	Images          []string
	IsGuestFavorite bool
	City            string
	Country         string
	Description     string
	PropertyType    string
	Amenities       []string
	MaxGuests       int
	Bedrooms        int
	Bathrooms       int
	InstantBook     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ApplyDefaults fills capacity fields left unset by the writer.
func (l *Listing) ApplyDefaults() {
	if l.MaxGuests == 0 {
		l.MaxGuests = DefaultMaxGuests
	}
	if l.Bedrooms == 0 {
		l.Bedrooms = DefaultBedrooms
	}
	if l.Bathrooms == 0 {
		l.Bathrooms = DefaultBathrooms
	}
}

// Validate checks the write-time invariants of a listing.
func (l *Listing) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(l.Location) == "" {
		return ErrLocationRequired
	}
	if l.Rating < 0 || l.Rating > 5 {
		return ErrRatingRange
	}
	if len(l.Images) == 0 {
		return ErrImagesRequired
	}
	if l.Price < 0 {
		return ErrNegativePrice
	}
	if l.MaxGuests <= 0 || l.Bedrooms <= 0 || l.Bathrooms <= 0 {
		return ErrCapacity
	}
	return nil
}

// Field returns the value stored under the given field name.
func (l *Listing) Field(name string) (any, bool) {
	switch name {
	case FieldID:
		return string(l.ID), true
	case FieldTitle:
		return l.Title, true
	case FieldLocation:
		return l.Location, true
	case FieldDistance:
		return l.Distance, true
	case FieldDates:
		return l.Dates, true
	case FieldPrice:
		return l.Price, true
	case FieldRating:
		return l.Rating, true
	case FieldReviews:
		return l.Reviews, true
	case FieldImages:
		return l.Images, true
	case FieldIsGuestFavorite:
		return l.IsGuestFavorite, true
	case FieldCity:
		return l.City, true
	case FieldCountry:
		return l.Country, true
	case FieldDescription:
		return l.Description, true
	case FieldType:
		// type is optional in stored documents
		return l.PropertyType, l.PropertyType != ""
	case FieldAmenities:
		return l.Amenities, true
	case FieldMaxGuests:
		return l.MaxGuests, true
	case FieldBedrooms:
		return l.Bedrooms, true
	case FieldBathrooms:
		return l.Bathrooms, true
	case FieldInstantBook:
		return l.InstantBook, true
	case FieldCreatedAt:
		return l.CreatedAt, true
	case FieldUpdatedAt:
		return l.UpdatedAt, true
	}
	return nil, false
}
