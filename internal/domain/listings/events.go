package listings

import (
	"time"
)

// ListingsSearchedEvent records a completed search for analytics consumers.
type ListingsSearchedEvent struct {
	SearchID     string    `json:"search_id"`
	Destination  string    `json:"destination"`
	TotalGuests  int       `json:"total_guests"`
	Pets         int       `json:"pets"`
	PropertyType string    `json:"property_type,omitempty"`
	Amenities    []string  `json:"amenities,omitempty"`
	InstantBook  bool      `json:"instant_book"`
	ResultCount  int       `json:"result_count"`
	TopListingID ListingID `json:"top_listing_id,omitempty"`
	At           time.Time `json:"at"`
}

func (e ListingsSearchedEvent) EventName() string     { return "listings.searched" }
func (e ListingsSearchedEvent) AggregateID() string   { return e.SearchID }
func (e ListingsSearchedEvent) OccurredAt() time.Time { return e.At }
