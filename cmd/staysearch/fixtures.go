package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	domainlistings "staysearch/internal/domain/listings"
	"staysearch/internal/infra/storage/memory"
)

type listingFixture struct {
	ID              string   `json:"_id"`
	Title           string   `json:"title"`
	Location        string   `json:"location"`
	Distance        string   `json:"distance"`
	Dates           string   `json:"dates"`
	Price           float64  `json:"price"`
	Rating          float64  `json:"rating"`
	Reviews         int      `json:"reviews"`
	Images          []string `json:"images"`
	IsGuestFavorite bool     `json:"isGuestFavorite"`
	City            string   `json:"city"`
	Country         string   `json:"country"`
	Description     string   `json:"description"`
	Type            string   `json:"type"`
	Amenities       []string `json:"amenities"`
	MaxGuests       int      `json:"maxGuests"`
	Bedrooms        int      `json:"bedrooms"`
	Bathrooms       int      `json:"bathrooms"`
	InstantBook     bool     `json:"instantBook"`
	CreatedAt       string   `json:"createdAt"`
}

// loadListingFixtures seeds the memory store. Invalid entries are logged and skipped.
func loadListingFixtures(ctx context.Context, repo *memory.ListingRepository, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("listing fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("listing fixtures file empty", "path", path)
		return nil
	}

	var fixtures []listingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now().UTC()
	imported := 0
	for _, fx := range fixtures {
		listing := fx.toListing(now)
		if err := listing.Validate(); err != nil {
			logger.Error("fixture invalid", "listing_id", fx.ID, "error", err)
			continue
		}
		if err := repo.Save(ctx, listing); err != nil {
			logger.Error("cannot store fixture listing", "listing_id", fx.ID, "error", err)
			continue
		}
		imported++
	}
	logger.Info("listing fixtures imported", "count", imported, "path", path)
	return nil
}

func (fx listingFixture) toListing(now time.Time) *domainlistings.Listing {
	created := parseFixtureTime(fx.CreatedAt, now)
	l := &domainlistings.Listing{
		ID:              domainlistings.ListingID(fx.ID),
		Title:           fx.Title,
		Location:        fx.Location,
		Distance:        fx.Distance,
		Dates:           fx.Dates,
		Price:           fx.Price,
		Rating:          fx.Rating,
		Reviews:         fx.Reviews,
		Images:          append([]string(nil), fx.Images...),
		IsGuestFavorite: fx.IsGuestFavorite,
		City:            fx.City,
		Country:         fx.Country,
		Description:     fx.Description,
		PropertyType:    fx.Type,
		Amenities:       append([]string(nil), fx.Amenities...),
		MaxGuests:       fx.MaxGuests,
		Bedrooms:        fx.Bedrooms,
		Bathrooms:       fx.Bathrooms,
		InstantBook:     fx.InstantBook,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	l.ApplyDefaults()
	return l
}

func parseFixtureTime(value string, fallback time.Time) time.Time {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC()
	}
	return fallback
}
