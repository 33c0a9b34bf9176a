package dto

import (
	"math"

	domainlistings "staysearch/internal/domain/listings"
)

// ScoredListing is a search hit.
type ScoredListing struct {
	Listing
	RelevanceScore int `json:"relevanceScore"`
}

// SearchResults is the ranked answer to a search.
type SearchResults struct {
	Data         []ScoredListing `json:"data"`
	Count        int             `json:"count"`
	SearchParams SearchParams    `json:"searchParams"`
}

// SearchParams echoes the interpreted search inputs.
type SearchParams struct {
	Destination  string       `json:"destination"`
	CheckIn      *string      `json:"checkIn"`
	CheckOut     *string      `json:"checkOut"`
	Guests       Guests       `json:"guests"`
	PriceRange   NumericRange `json:"priceRange"`
	Bedrooms     int          `json:"bedrooms"`
	Bathrooms    int          `json:"bathrooms"`
	PropertyType string       `json:"propertyType"`
	Amenities    []string     `json:"amenities"`
	InstantBook  bool         `json:"instantBook"`
}

type Guests struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
	Pets     int `json:"pets"`
}

// NumericRange bounds are null when not finite.
type NumericRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

func NewNumericRange(min, max float64) NumericRange {
	return NumericRange{Min: finite(min), Max: finite(max)}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MapScored maps ranked results preserving order.
func MapScored(items []domainlistings.Scored) []ScoredListing {
	out := make([]ScoredListing, 0, len(items))
	for _, item := range items {
		out = append(out, ScoredListing{
			Listing:        MapListing(item.Listing),
			RelevanceScore: item.RelevanceScore,
		})
	}
	return out
}
