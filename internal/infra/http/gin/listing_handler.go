package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staysearch/internal/app/dto"
	listingapp "staysearch/internal/app/handlers/listings"
	"staysearch/internal/app/queries"
	domainlistings "staysearch/internal/domain/listings"
)

// ListingHandler wires listing queries to HTTP.
type ListingHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

var _ ListingHTTP = ListingHandler{}

// List responds with a filtered, sorted and paginated page of listings.
func (h ListingHandler) List(c *gin.Context) {
	if !h.available(c) {
		return
	}
	query := listingapp.ListListingsQuery{
		City:            optionalQuery(c, "city"),
		Country:         optionalQuery(c, "country"),
		MinPrice:        optionalQuery(c, "minPrice"),
		MaxPrice:        optionalQuery(c, "maxPrice"),
		MinRating:       optionalQuery(c, "minRating"),
		MaxGuests:       optionalQuery(c, "maxGuests"),
		Bedrooms:        optionalQuery(c, "bedrooms"),
		Bathrooms:       optionalQuery(c, "bathrooms"),
		IsGuestFavorite: optionalQuery(c, "isGuestFavorite"),
		Amenities:       optionalQuery(c, "amenities"),
		Limit:           optionalQuery(c, "limit"),
		Skip:            optionalQuery(c, "skip"),
		SortBy:          c.Query("sortBy"),
		SortOrder:       c.Query("sortOrder"),
		GetAll:          c.Query("getAll") == "true",
	}
	page, err := queries.Ask[listingapp.ListListingsQuery, dto.ListingPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.logError(c, "list listings failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch listings",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       page.Data,
		"count":      page.Count,
		"totalCount": page.TotalCount,
		"pagination": page.Pagination,
		"filters":    page.Filters,
	})
}

// Search responds with ranked candidates for the given criteria.
func (h ListingHandler) Search(c *gin.Context) {
	if !h.available(c) {
		return
	}
	query := listingapp.SearchListingsQuery{
		Destination:  c.Query("destination"),
		CheckIn:      optionalQuery(c, "checkIn"),
		CheckOut:     optionalQuery(c, "checkOut"),
		Adults:       c.Query("adults"),
		Children:     c.Query("children"),
		Infants:      c.Query("infants"),
		Pets:         c.Query("pets"),
		MinPrice:     c.Query("minPrice"),
		MaxPrice:     c.Query("maxPrice"),
		Bedrooms:     c.Query("bedrooms"),
		Bathrooms:    c.Query("bathrooms"),
		PropertyType: c.Query("propertyType"),
		Amenities:    c.Query("amenities"),
		InstantBook:  c.Query("instantBook"),
	}
	res, err := queries.Ask[listingapp.SearchListingsQuery, dto.SearchResults](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.logError(c, "search listings failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to search listings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"data":         res.Data,
		"count":        res.Count,
		"searchParams": res.SearchParams,
	})
}

type filterOptionsRequest struct {
	Type string `json:"type"`
}

// FilterOptions responds with the values backing one search filter widget.
func (h ListingHandler) FilterOptions(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var req filterOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	opts, err := queries.Ask[listingapp.FilterOptionsQuery, dto.FilterOptions](c.Request.Context(), h.Queries, listingapp.FilterOptionsQuery{Type: req.Type})
	if errors.Is(err, listingapp.ErrUnknownFilterType) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid filter type"})
		return
	}
	if err != nil {
		h.logError(c, "filter options failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get filter options"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": opts.Payload()})
}

// Get responds with a single listing.
func (h ListingHandler) Get(c *gin.Context) {
	if !h.available(c) {
		return
	}
	listing, err := queries.Ask[listingapp.GetListingQuery, dto.Listing](c.Request.Context(), h.Queries, listingapp.GetListingQuery{ID: c.Param("id")})
	if errors.Is(err, domainlistings.ErrListingNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Listing not found"})
		return
	}
	if err != nil {
		h.logError(c, "get listing failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch listing",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": listing})
}

func (h ListingHandler) available(c *gin.Context) bool {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "listing handler unavailable"})
		return false
	}
	return true
}

func (h ListingHandler) logError(c *gin.Context, msg string, err error) {
	if h.Logger == nil {
		return
	}
	h.Logger.ErrorContext(c.Request.Context(), msg, "error", err, "request_id", c.GetString("request_id"))
}

// optionalQuery distinguishes an absent parameter (nil) from an empty one.
func optionalQuery(c *gin.Context, key string) *string {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	return &v
}
