package dto

// FilterOptions carries the values for one filter widget. Exactly one of
// Values and PriceRange is meaningful, depending on Type.
type FilterOptions struct {
	Type       string      `json:"type"`
	Values     []string    `json:"values,omitempty"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
}

type PriceRange struct {
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
	AvgPrice float64 `json:"avgPrice"`
}

// Payload renders the options keyed by their type, e.g. {"amenities": [...]}.
func (o FilterOptions) Payload() map[string]any {
	if o.PriceRange != nil {
		return map[string]any{o.Type: *o.PriceRange}
	}
	values := o.Values
	if values == nil {
		values = []string{}
	}
	return map[string]any{o.Type: values}
}
