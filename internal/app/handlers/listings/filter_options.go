package listings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"staysearch/internal/app/dto"
	"staysearch/internal/app/queries"
	domainlistings "staysearch/internal/domain/listings"
)

const filterOptionsKey = "listings.filter_options"

// Supported filter option types.
const (
	OptionsDestinations  = "destinations"
	OptionsPropertyTypes = "propertyTypes"
	OptionsAmenities     = "amenities"
	OptionsPriceRange    = "priceRange"

	maxDestinationOptions = 20
	maxAmenityOptions     = 30
)

// defaultPriceRange is reported when there are no listings to aggregate.
var defaultPriceRange = dto.PriceRange{MinPrice: 0, MaxPrice: 1000, AvgPrice: 100}

// FilterOptionsQuery asks for the values backing one filter widget.
type FilterOptionsQuery struct {
	Type string
}

func (q FilterOptionsQuery) Key() string { return filterOptionsKey }

// Cache stores JSON-encodable values under string keys.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// FilterOptionsHandler aggregates distinct values and price statistics.
type FilterOptionsHandler struct {
	Listings domainlistings.Repository
	Cache    Cache
	TTL      time.Duration
	Logger   *slog.Logger
}

func (h *FilterOptionsHandler) Handle(ctx context.Context, q FilterOptionsQuery) (dto.FilterOptions, error) {
	switch q.Type {
	case OptionsDestinations, OptionsPropertyTypes, OptionsAmenities, OptionsPriceRange:
	default:
		return dto.FilterOptions{}, fmt.Errorf("%w: %q", ErrUnknownFilterType, q.Type)
	}
	if h.Listings == nil {
		return dto.FilterOptions{}, ErrRepositoryMissing
	}

	cacheKey := "filter-options:" + q.Type
	if h.Cache != nil {
		var cached dto.FilterOptions
		hit, err := h.Cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			h.warn(ctx, "filter options cache read failed", err, q.Type)
		} else if hit {
			return cached, nil
		}
	}

	result, err := h.load(ctx, q.Type)
	if err != nil {
		return dto.FilterOptions{}, err
	}

	if h.Cache != nil && h.TTL > 0 {
		if err := h.Cache.Set(ctx, cacheKey, result, h.TTL); err != nil {
			h.warn(ctx, "filter options cache write failed", err, q.Type)
		}
	}
	return result, nil
}

func (h *FilterOptionsHandler) load(ctx context.Context, kind string) (dto.FilterOptions, error) {
	out := dto.FilterOptions{Type: kind}
	switch kind {
	case OptionsDestinations:
		values, err := h.Listings.Distinct(ctx, domainlistings.FieldLocation)
		if err != nil {
			return out, fmt.Errorf("distinct locations: %w", err)
		}
		out.Values = firstN(values, maxDestinationOptions)
	case OptionsPropertyTypes:
		values, err := h.Listings.Distinct(ctx, domainlistings.FieldType)
		if err != nil {
			return out, fmt.Errorf("distinct property types: %w", err)
		}
		out.Values = firstN(values, len(values))
	case OptionsAmenities:
		values, err := h.Listings.Distinct(ctx, domainlistings.FieldAmenities)
		if err != nil {
			return out, fmt.Errorf("distinct amenities: %w", err)
		}
		out.Values = firstN(values, maxAmenityOptions)
	case OptionsPriceRange:
		stats, ok, err := h.Listings.PriceStats(ctx)
		if err != nil {
			return out, fmt.Errorf("price stats: %w", err)
		}
		pr := defaultPriceRange
		if ok {
			pr = dto.PriceRange{MinPrice: stats.Min, MaxPrice: stats.Max, AvgPrice: stats.Avg}
		}
		out.PriceRange = &pr
	}
	return out, nil
}

func (h *FilterOptionsHandler) warn(ctx context.Context, msg string, err error, kind string) {
	if h.Logger != nil {
		h.Logger.WarnContext(ctx, msg, "error", err, "type", kind)
	}
}

func firstN(values []string, n int) []string {
	if len(values) < n {
		n = len(values)
	}
	return append(make([]string, 0, n), values[:n]...)
}

var _ queries.Handler[FilterOptionsQuery, dto.FilterOptions] = (*FilterOptionsHandler)(nil)
